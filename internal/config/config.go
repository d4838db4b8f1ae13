package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/anodegrind/circuitplayer/internal/circuit"
	"github.com/anodegrind/circuitplayer/internal/tracks"
)

// Config is the resolved circuitplayer configuration.
type Config struct {
	Theme       string
	FPS         int
	LogFile     string
	DownloadDir string
	Volume      float64
	Library     Library
	Circuit     circuit.Options
}

// Library selects where tracks come from.
type Library struct {
	APIURL        string
	Repo          string
	Path          string
	Dir           string // local directory; overrides the remote listing
	Extensions    []string
	Refresh       time.Duration
	DefaultArtist string
}

// Listing returns the track filter derived from the library settings.
func (l Library) Listing() tracks.Listing {
	return tracks.Listing{Extensions: l.Extensions, DefaultArtist: l.DefaultArtist}
}

const (
	defaultConfigPath  = "~/.config/circuitplayer/config.toml"
	defaultLogFile     = "~/.local/state/circuitplayer/circuitplayer.log"
	defaultDownloadDir = "~/Music/circuitplayer"
	defaultTheme       = "orange"
	defaultFPS         = 30
	maxFPS             = 120
	defaultVolume      = 0.7
	defaultRefresh     = 10 * time.Minute
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Theme:       defaultTheme,
		FPS:         defaultFPS,
		LogFile:     mustExpand(defaultLogFile),
		DownloadDir: mustExpand(defaultDownloadDir),
		Volume:      defaultVolume,
		Library: Library{
			APIURL:        tracks.DefaultAPIURL,
			Repo:          tracks.DefaultRepo,
			Path:          tracks.DefaultPath,
			Extensions:    slices.Clone(tracks.DefaultListing.Extensions),
			Refresh:       defaultRefresh,
			DefaultArtist: tracks.DefaultListing.DefaultArtist,
		},
		Circuit: circuit.DefaultOptions(),
	}
}

type rawConfig struct {
	Theme       string   `toml:"theme"`
	FPS         int      `toml:"fps"`
	LogFile     string   `toml:"log_file"`
	DownloadDir string   `toml:"download_dir"`
	Volume      *float64 `toml:"volume"`
	Library     struct {
		APIURL         string   `toml:"api_url"`
		Repo           string   `toml:"repo"`
		Path           string   `toml:"path"`
		Dir            string   `toml:"dir"`
		Extensions     []string `toml:"extensions"`
		RefreshMinutes int      `toml:"refresh_minutes"`
		DefaultArtist  string   `toml:"default_artist"`
	} `toml:"library"`
	Circuit struct {
		LineColor       string   `toml:"line_color"`
		BackgroundColor string   `toml:"background_color"`
		NodeColor       string   `toml:"node_color"`
		LineWidth       *float64 `toml:"line_width"`
		NodeSize        *float64 `toml:"node_size"`
		NodeCount       *int     `toml:"node_count"`
		Speed           *float64 `toml:"speed"`
		PulseSpeed      *float64 `toml:"pulse_speed"`
		Complexity      *float64 `toml:"complexity"`
		Animate         *bool    `toml:"animate"`
		Responsive      *bool    `toml:"responsive"`
		AudioReactive   *bool    `toml:"audio_reactive"`
		Reactivity      *float64 `toml:"reactivity"`
	} `toml:"circuit"`
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.Theme, raw.Theme)
	if raw.FPS > 0 {
		cfg.FPS = min(raw.FPS, maxFPS)
	}
	if p := strings.TrimSpace(raw.LogFile); p != "" {
		cfg.LogFile = mustExpand(p)
	}
	if p := strings.TrimSpace(raw.DownloadDir); p != "" {
		cfg.DownloadDir = mustExpand(p)
	}
	if raw.Volume != nil {
		cfg.Volume = clamp01(*raw.Volume)
	}

	lib := raw.Library
	setString(&cfg.Library.APIURL, lib.APIURL)
	setString(&cfg.Library.Repo, lib.Repo)
	setString(&cfg.Library.Path, lib.Path)
	setString(&cfg.Library.DefaultArtist, lib.DefaultArtist)
	if p := strings.TrimSpace(lib.Dir); p != "" {
		cfg.Library.Dir = mustExpand(p)
	}
	if len(lib.Extensions) > 0 {
		cfg.Library.Extensions = lib.Extensions
	}
	if lib.RefreshMinutes > 0 {
		cfg.Library.Refresh = time.Duration(lib.RefreshMinutes) * time.Minute
	}

	c := raw.Circuit
	setString(&cfg.Circuit.LineColor, c.LineColor)
	setString(&cfg.Circuit.BackgroundColor, c.BackgroundColor)
	setString(&cfg.Circuit.NodeColor, c.NodeColor)
	setPtr(&cfg.Circuit.LineWidth, c.LineWidth)
	setPtr(&cfg.Circuit.NodeSize, c.NodeSize)
	setPtr(&cfg.Circuit.NodeCount, c.NodeCount)
	setPtr(&cfg.Circuit.Speed, c.Speed)
	setPtr(&cfg.Circuit.PulseSpeed, c.PulseSpeed)
	setPtr(&cfg.Circuit.Complexity, c.Complexity)
	setPtr(&cfg.Circuit.Animate, c.Animate)
	setPtr(&cfg.Circuit.Responsive, c.Responsive)
	setPtr(&cfg.Circuit.AudioReactive, c.AudioReactive)
	setPtr(&cfg.Circuit.Reactivity, c.Reactivity)
	if err := cfg.Circuit.Validate(); err != nil {
		return Config{}, fmt.Errorf("circuit: %w", err)
	}

	return cfg, nil
}

// FrameInterval is the UI tick period derived from FPS.
func (c Config) FrameInterval() time.Duration {
	fps := c.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	return time.Second / time.Duration(fps)
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading "~" and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
