package circuit

import (
	"math/rand/v2"
	"testing"
)

type fixedContainer struct {
	w, h int
}

func (c *fixedContainer) Size() (int, int) { return c.w, c.h }

type drawCall struct {
	op   string
	x, y float64
	r    float64
}

type stubSurface struct {
	w, h   int
	calls  []drawCall
	clears int
}

func (s *stubSurface) Size() (int, int) { return s.w, s.h }
func (s *stubSurface) SetSize(w, h int) { s.w, s.h = w, h }
func (s *stubSurface) Context() Context { return s }
func (s *stubSurface) ClearRect(x, y, w, h float64) {
	s.clears++
	s.calls = s.calls[:0]
	s.calls = append(s.calls, drawCall{op: "clear"})
}
func (s *stubSurface) FillRect(x, y, w, h float64, fill Fill) {
	s.calls = append(s.calls, drawCall{op: "rect"})
}
func (s *stubSurface) Line(x0, y0, x1, y1 float64, stroke Stroke) {
	s.calls = append(s.calls, drawCall{op: "edge", x: x0, y: y0})
}
func (s *stubSurface) QuadraticCurve(x0, y0, cpx, cpy, x1, y1 float64, stroke Stroke) {
	s.calls = append(s.calls, drawCall{op: "edge", x: x0, y: y0})
}
func (s *stubSurface) Arc(x, y, r float64, fill Fill) {
	s.calls = append(s.calls, drawCall{op: "arc", x: x, y: y, r: r})
}

func (s *stubSurface) count(op string) int {
	n := 0
	for _, c := range s.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newTestAnimator(t *testing.T, w, h int, opts Options, extra ...Option) (*Animator, *stubSurface, *ManualScheduler) {
	t.Helper()
	surface := &stubSurface{}
	sched := &ManualScheduler{}
	options := append([]Option{WithScheduler(sched), WithRand(seeded(42))}, extra...)
	a, err := New(&fixedContainer{w: w, h: h}, surface, opts, options...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(a.Stop)
	return a, surface, sched
}
