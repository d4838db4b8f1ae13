package app

import (
	"fmt"
	"os"

	"github.com/anodegrind/circuitplayer/internal/canvas"
	"github.com/anodegrind/circuitplayer/internal/circuit"
)

const (
	defaultSnapshotWidth  = 1280
	defaultSnapshotHeight = 720
)

// WriteSnapshot renders one static frame of the circuit and saves it as PNG.
func WriteSnapshot(path string, opts circuit.Options, width, height int) error {
	if width <= 0 {
		width = defaultSnapshotWidth
	}
	if height <= 0 {
		height = defaultSnapshotHeight
	}
	opts.Animate = false

	raster := canvas.NewRaster(width, height)
	anim, err := circuit.New(canvas.NewRegion(width, height), raster, opts)
	if err != nil {
		return fmt.Errorf("render snapshot: %w", err)
	}
	anim.Stop()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := raster.WritePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}
