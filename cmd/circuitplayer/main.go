package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anodegrind/circuitplayer/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	dir := flag.String("dir", "", "play tracks from a local directory instead of the remote listing")
	demo := flag.Bool("demo", false, "animate from synthetic energy while nothing is playing")
	snapshot := flag.String("snapshot", "", "write one static circuit frame to this PNG file and exit")
	width := flag.Int("width", 0, "snapshot width in pixels (default 1280)")
	height := flag.Int("height", 0, "snapshot height in pixels (default 720)")
	debug := flag.Bool("debug", false, "include source locations in the log")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Dir:        *dir,
		Demo:       *demo,
		Snapshot:   *snapshot,
		Width:      *width,
		Height:     *height,
		Debug:      *debug,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "circuitplayer: %v\n", err)
		return 1
	}
	return 0
}
