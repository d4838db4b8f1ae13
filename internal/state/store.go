package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/anodegrind/circuitplayer/internal/tracks"
)

// Snapshot represents the latest track listing available to the UI.
type Snapshot struct {
	Tracks              []tracks.Track
	Loaded              bool // at least one listing succeeded
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive refresh failures
	Version             int // bumped on every successful listing
}

// IsOffline returns true when the catalog has been unreachable for multiple
// refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored listing. When err is non-nil the previous
// tracks are kept but the error is recorded for visibility.
func (s *Store) Update(list []tracks.Track, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Tracks = slices.Clone(list)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	s.snapshot.Version++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Tracks = slices.Clone(s.snapshot.Tracks)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
