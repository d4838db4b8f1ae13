// Package audio turns played samples into the spectrum levels and the
// normalized energy scalar that drive the visualizers.
package audio

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

// Tap is a streamer wrapper that copies a mono mix of every streamed sample
// into a ring buffer for analysis. It sits between the volume control and
// the output, so the analyzer sees what is actually heard. One Tap outlives
// the tracks streamed through it; Attach switches between them.
type Tap struct {
	s    beep.Streamer
	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
	seen int
}

// NewTap wraps s with a ring buffer of bufSize samples. s may be nil until
// the first Attach.
func NewTap(s beep.Streamer, bufSize int) *Tap {
	bufSize = max(bufSize, 1)
	return &Tap{
		s:    s,
		buf:  make([]float64, bufSize),
		size: bufSize,
	}
}

// Stream passes audio through while capturing it. A detached tap is drained.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	if t.s == nil {
		return 0, false
	}
	n, ok := t.s.Stream(samples)
	t.mu.Lock()
	for i := range n {
		t.buf[t.pos] = (samples[i][0] + samples[i][1]) / 2
		t.pos = (t.pos + 1) % t.size
	}
	t.seen = min(t.seen+n, t.size)
	t.mu.Unlock()
	return n, ok
}

// Err returns the wrapped streamer's error.
func (t *Tap) Err() error {
	if t.s == nil {
		return nil
	}
	return t.s.Err()
}

// Attach replaces the wrapped streamer and forgets captured audio so the
// analysis never mixes two tracks. Callers must keep the output from
// streaming the tap meanwhile.
func (t *Tap) Attach(s beep.Streamer) {
	t.s = s
	t.Reset()
}

// Samples returns up to the last n captured samples in chronological order.
// It returns fewer than n when less audio has been captured.
func (t *Tap) Samples(n int) []float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	n = min(n, t.seen)
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	start := (t.pos - n + t.size) % t.size
	for i := range n {
		out[i] = t.buf[(start+i)%t.size]
	}
	return out
}

// Reset forgets captured audio, e.g. after a seek.
func (t *Tap) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.buf)
	t.pos = 0
	t.seen = 0
}
