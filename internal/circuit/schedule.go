package circuit

import (
	"sync"
	"time"
)

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = time.Second / 60

// FrameScheduler runs fn once on the next frame. The returned cancel func
// drops the request if it has not run yet.
type FrameScheduler interface {
	RequestFrame(fn func()) (cancel func())
}

// TimerScheduler runs each frame on a timer goroutine after Interval.
type TimerScheduler struct {
	Interval time.Duration
}

// RequestFrame implements FrameScheduler.
func (s TimerScheduler) RequestFrame(fn func()) func() {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	t := time.AfterFunc(interval, fn)
	return func() { t.Stop() }
}

// ManualScheduler holds at most one pending frame until the host runs it.
type ManualScheduler struct {
	mu      sync.Mutex
	pending func()
	seq     uint64
}

// RequestFrame implements FrameScheduler. A newer request replaces an older
// one.
func (s *ManualScheduler) RequestFrame(fn func()) func() {
	s.mu.Lock()
	s.seq++
	id := s.seq
	s.pending = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.seq == id {
			s.pending = nil
		}
	}
}

// Pending reports whether a frame is waiting to run.
func (s *ManualScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// RunPending runs the waiting frame, if any, on the caller's goroutine.
func (s *ManualScheduler) RunPending() bool {
	s.mu.Lock()
	fn := s.pending
	s.pending = nil
	s.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}
