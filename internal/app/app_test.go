package app

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/anodegrind/circuitplayer/internal/audio"
	"github.com/anodegrind/circuitplayer/internal/circuit"
	"github.com/anodegrind/circuitplayer/internal/config"
)

func TestWriteSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	opts := circuit.DefaultOptions()
	opts.BackgroundColor = "#000000"

	if err := WriteSnapshot(path, opts, 64, 48); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("bounds = %v, want 64x48", b)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a == 0 {
		t.Fatal("opaque background expected at corner")
	}
}

func TestWriteSnapshot_BadColor(t *testing.T) {
	opts := circuit.DefaultOptions()
	opts.LineColor = "nope"
	if err := WriteSnapshot(filepath.Join(t.TempDir(), "x.png"), opts, 10, 10); err == nil {
		t.Fatal("expected error for bad color")
	}
}

func TestRun_SnapshotMode(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "out.png")
	err := Run(t.Context(), Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		Snapshot:   path,
		Width:      32,
		Height:     32,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}
}

func TestNewSource_PrefersLocalDir(t *testing.T) {
	lib := config.Default().Library
	lib.Dir = t.TempDir()
	src, err := newSource(lib)
	if err != nil {
		t.Fatalf("newSource: %v", err)
	}
	if describeSource(lib) != lib.Dir {
		t.Fatalf("describeSource = %q", describeSource(lib))
	}
	if _, err := src.FetchTracks(t.Context()); err != nil {
		t.Fatalf("FetchTracks: %v", err)
	}
}

func TestDemoAnalyzer_SwitchesOnPlayback(t *testing.T) {
	playing := false
	live := audio.NewAnalyzer(nil, func() bool { return true })
	d := newDemoAnalyzer(live, func() bool { return playing })

	for range 20 {
		if e := d.Energy(); e < 0 || e > 1 {
			t.Fatalf("noise energy = %v, want [0,1]", e)
		}
	}
	if got := len(d.Levels(16)); got != 16 {
		t.Fatalf("noise levels = %d, want 16", got)
	}

	playing = true
	if e := d.Energy(); e != 0 {
		t.Fatalf("energy with silent analyzer = %v, want 0", e)
	}
}
