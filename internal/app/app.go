package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anodegrind/circuitplayer/internal/audio"
	"github.com/anodegrind/circuitplayer/internal/config"
	"github.com/anodegrind/circuitplayer/internal/player"
	"github.com/anodegrind/circuitplayer/internal/state"
	"github.com/anodegrind/circuitplayer/internal/tracks"
	"github.com/anodegrind/circuitplayer/internal/ui"
)

const logPrefix = "circuitplayer"

// Options configure the circuitplayer application.
type Options struct {
	ConfigPath string
	Dir        string // local track directory, overrides the config
	Demo       bool   // drive the circuit from noise while nothing plays
	Snapshot   string // write one static frame as PNG and exit
	Width      int    // snapshot width in pixels
	Height     int    // snapshot height in pixels
	Debug      bool
}

// Run boots the player until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Dir != "" {
		dir, err := config.ExpandPath(opts.Dir)
		if err != nil {
			return fmt.Errorf("track dir: %w", err)
		}
		cfg.Library.Dir = dir
	}

	if opts.Snapshot != "" {
		return WriteSnapshot(opts.Snapshot, cfg.Circuit, opts.Width, opts.Height)
	}

	logFile, err := openLog(cfg.LogFile, opts.Debug)
	if err != nil {
		return err
	}
	defer logFile.Close()

	src, err := newSource(cfg.Library)
	if err != nil {
		return fmt.Errorf("init track source: %w", err)
	}

	out, err := player.New(player.Speaker{})
	if err != nil {
		return err
	}
	defer out.Close()
	out.SetVolume(cfg.Volume)

	live := audio.NewAnalyzer(out, out.Playing)
	var analyzer ui.Analyzer = live
	if opts.Demo {
		analyzer = newDemoAnalyzer(live, out.Playing)
	}

	store := &state.Store{}
	StartRefresher(ctx, store, src, cfg.Library.Refresh)

	log.Printf("starting: source=%s theme=%s fps=%d demo=%v", describeSource(cfg.Library), cfg.Theme, cfg.FPS, opts.Demo)
	return ui.Run(ui.Options{
		Context:       ctx,
		Source:        src,
		Store:         store,
		Player:        out,
		Analyzer:      analyzer,
		Circuit:       cfg.Circuit,
		ThemeName:     cfg.Theme,
		FrameInterval: cfg.FrameInterval(),
		LogFile:       cfg.LogFile,
		DownloadDir:   cfg.DownloadDir,
	})
}

// openLog sends the standard logger to path; the terminal belongs to the UI.
func openLog(path string, debug bool) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, logPrefix)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
	return f, nil
}

func newSource(lib config.Library) (tracks.Source, error) {
	if lib.Dir != "" {
		return tracks.NewDir(lib.Dir, lib.Listing()), nil
	}
	return tracks.NewClient(lib.APIURL, lib.Repo, lib.Path, lib.Listing())
}

func describeSource(lib config.Library) string {
	if lib.Dir != "" {
		return lib.Dir
	}
	return lib.Repo + "/" + lib.Path
}

const demoNoiseRate = 0.8

// demoAnalyzer substitutes opensimplex noise for the spectrum while
// nothing is playing.
type demoAnalyzer struct {
	live    *audio.Analyzer
	noise   *audio.Noise
	playing func() bool
}

func newDemoAnalyzer(live *audio.Analyzer, playing func() bool) *demoAnalyzer {
	return &demoAnalyzer{
		live:    live,
		noise:   audio.NewNoise(time.Now().UnixNano(), demoNoiseRate),
		playing: playing,
	}
}

func (d *demoAnalyzer) Levels(n int) []float64 {
	if d.playing() {
		return d.live.Levels(n)
	}
	return d.noise.Levels(n)
}

func (d *demoAnalyzer) Energy() float64 {
	if d.playing() {
		return d.live.Energy()
	}
	return d.noise.Energy()
}

func (d *demoAnalyzer) Bands() audio.Bands {
	if d.playing() {
		return d.live.Bands()
	}
	e := d.noise.Energy()
	return audio.Bands{Bass: e, Mid: e, High: e}
}
