package player

import "github.com/gopxl/beep/v2"

// endNotifier reports the end of its source once and then streams silence,
// which keeps the output chain alive so the track can be replayed after a
// seek.
type endNotifier struct {
	s     beep.Streamer
	onEnd func()
	ended bool
}

func newEndNotifier(s beep.Streamer, onEnd func()) *endNotifier {
	return &endNotifier{s: s, onEnd: onEnd}
}

func (e *endNotifier) Stream(samples [][2]float64) (int, bool) {
	n := 0
	if !e.ended {
		var ok bool
		n, ok = e.s.Stream(samples)
		if !ok || n < len(samples) {
			e.ended = true
			if e.onEnd != nil {
				e.onEnd()
			}
		}
	}
	clear(samples[n:])
	return len(samples), true
}

func (e *endNotifier) Err() error {
	return e.s.Err()
}

func (e *endNotifier) done() bool {
	return e.ended
}

func (e *endNotifier) reset(s beep.Streamer) {
	e.s = s
	e.ended = false
}
