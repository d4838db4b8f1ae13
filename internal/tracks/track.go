package tracks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

const artistSeparator = " - "

// Track is one playable file. ID is derived from URL, so a track keeps it
// across listing refreshes however the listing is ordered.
type Track struct {
	ID     uuid.UUID
	Name   string
	Artist string
	Ext    string
	URL    string
}

// FileName is the name the track is saved under.
func (t Track) FileName() string {
	return t.Name + t.Ext
}

// IDFor returns the stable ID of the track downloaded from url.
func IDFor(url string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url))
}

// Index returns the position of the track with id in list, or -1.
func Index(list []Track, id uuid.UUID) int {
	if id == uuid.Nil {
		return -1
	}
	return slices.IndexFunc(list, func(t Track) bool { return t.ID == id })
}

// Source lists tracks and opens their audio.
type Source interface {
	FetchTracks(ctx context.Context) ([]Track, error)
	Open(ctx context.Context, t Track) (io.ReadCloser, error)
}

// Listing controls which files become tracks and how they are labeled.
type Listing struct {
	Extensions    []string
	DefaultArtist string
}

// DefaultListing matches the wav-only catalog of the default repository.
var DefaultListing = Listing{
	Extensions:    []string{".wav"},
	DefaultArtist: "Orange Reich Recordings",
}

// track builds a Track from a file name, or reports false when the
// extension is not listed.
func (l Listing) track(fileName, url string) (Track, bool) {
	ext, ok := l.match(fileName)
	if !ok {
		return Track{}, false
	}
	return Track{
		ID:     IDFor(url),
		Name:   fileName[:len(fileName)-len(ext)],
		Artist: ExtractArtist(fileName, l.DefaultArtist),
		Ext:    ext,
		URL:    url,
	}, true
}

func (l Listing) match(fileName string) (string, bool) {
	exts := l.Extensions
	if len(exts) == 0 {
		exts = DefaultListing.Extensions
	}
	lower := strings.ToLower(fileName)
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(lower, ext) && len(lower) > len(ext) {
			return fileName[len(fileName)-len(ext):], true
		}
	}
	return "", false
}

// ExtractArtist returns the text before the first " - " in fileName, or
// fallback when there is none.
func ExtractArtist(fileName, fallback string) string {
	artist, _, found := strings.Cut(fileName, artistSeparator)
	if !found {
		return fallback
	}
	return artist
}

// Download copies the track's audio into dir and returns the written path.
func Download(ctx context.Context, src Source, t Track, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	rc, err := src.Open(ctx, t)
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	dest := filepath.Join(dir, filepath.Base(t.FileName()))
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, rc); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("download %s: %w", t.FileName(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("save %s: %w", dest, err)
	}
	return dest, nil
}
