package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/anodegrind/circuitplayer/internal/tracks"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Update([]tracks.Track{{Name: "one"}, {Name: "two"}}, nil)

	snap := s.Snapshot()
	if !snap.Loaded || len(snap.Tracks) != 2 || snap.Tracks[0].Name != "one" {
		t.Fatalf("snapshot = %#v, want 2 loaded tracks", snap)
	}
	if snap.Version != 1 {
		t.Fatalf("Version = %d, want 1", snap.Version)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Tracks[0].Name = "mutated"
	if got := s.Snapshot().Tracks[0].Name; got != "one" {
		t.Fatalf("Snapshot should clone tracks; got %q want one", got)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]tracks.Track{{Name: "kept"}}, nil)

	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if len(snap.Tracks) != 1 || snap.Tracks[0].Name != "kept" {
		t.Fatalf("tracks changed on error: %#v", snap.Tracks)
	}
	if snap.Version != 1 {
		t.Fatalf("Version = %d, want 1 after failed refresh", snap.Version)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	tests := []struct {
		err          error
		wantFailures int
		wantOffline  bool
	}{
		{errors.New("fail 1"), 1, false},
		{errors.New("fail 2"), 2, true},
		{errors.New("fail 3"), 3, true},
		{nil, 0, false},
	}
	for i, tt := range tests {
		s.Update(nil, tt.err)
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != tt.wantFailures {
			t.Fatalf("step %d: ConsecutiveFailures = %d, want %d", i, snap.ConsecutiveFailures, tt.wantFailures)
		}
		if snap.IsOffline() != tt.wantOffline {
			t.Fatalf("step %d: IsOffline() = %v, want %v", i, snap.IsOffline(), tt.wantOffline)
		}
	}
}

func TestStore_EmptyListingIsLoaded(t *testing.T) {
	var s Store
	if s.Snapshot().Loaded {
		t.Fatal("zero store should not be loaded")
	}
	s.Update(nil, nil)
	snap := s.Snapshot()
	if !snap.Loaded || len(snap.Tracks) != 0 {
		t.Fatalf("snapshot = %#v, want loaded and empty", snap)
	}
}
