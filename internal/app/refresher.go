package app

import (
	"context"
	"log"
	"time"

	"github.com/anodegrind/circuitplayer/internal/state"
	"github.com/anodegrind/circuitplayer/internal/tracks"
)

const (
	defaultRefreshInterval = 10 * time.Minute
	retryInterval          = 2 * time.Second
	maxBackoff             = 30 * time.Second
)

// StartRefresher launches a background goroutine that keeps the store's
// track listing current. Failed refreshes retry with exponential backoff;
// successful ones wait the full interval. It returns immediately.
func StartRefresher(ctx context.Context, store *state.Store, src tracks.Source, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	go func() {
		for {
			wait := interval
			if err := refresh(ctx, store, src); err != nil {
				failures := store.Snapshot().ConsecutiveFailures
				wait = calculateBackoff(failures-1, retryInterval)
				log.Printf("track refresh failed (retry in %s): %v", wait, err)
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, src tracks.Source) error {
	list, err := src.FetchTracks(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		store.Update(nil, err)
		return err
	}
	store.Update(list, nil)
	log.Printf("loaded %d tracks", len(list))
	return nil
}

// calculateBackoff doubles base for every failure beyond the first, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for range failures {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
