package tracks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dir lists tracks from a local directory. Track URLs are file paths.
type Dir struct {
	path    string
	listing Listing
}

var _ Source = (*Dir)(nil)

// NewDir returns a source over path.
func NewDir(path string, listing Listing) *Dir {
	return &Dir{path: path, listing: listing}
}

// FetchTracks lists the directory in name order. Subdirectories are skipped.
func (d *Dir) FetchTracks(ctx context.Context) ([]Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("read track dir: %w", err)
	}
	var out []Track
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(d.path, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", e.Name(), err)
		}
		if t, ok := d.listing.track(e.Name(), abs); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Open opens the track file.
func (d *Dir) Open(ctx context.Context, t Track) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(t.URL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", t.FileName(), err)
	}
	return f, nil
}
