package audio

import (
	"sync"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Noise is a synthetic energy source for running the visualizers without
// audio. It drifts smoothly through [0,1] on opensimplex noise.
type Noise struct {
	mu    sync.Mutex
	gen   opensimplex.Noise
	start time.Time
	now   func() time.Time
	rate  float64
}

// NewNoise seeds the generator. rate is noise units per second.
func NewNoise(seed int64, rate float64) *Noise {
	if rate <= 0 {
		rate = 0.8
	}
	return &Noise{
		gen:   opensimplex.New(seed),
		start: time.Now(),
		now:   time.Now,
		rate:  rate,
	}
}

// Energy implements circuit.EnergySource.
func (n *Noise) Energy() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	t := n.now().Sub(n.start).Seconds() * n.rate
	return clamp01((n.gen.Eval2(t, 0.5) + 1) / 2)
}

// Levels fakes n spectrum bars that share the energy envelope.
func (n *Noise) Levels(count int) []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	t := n.now().Sub(n.start).Seconds() * n.rate
	out := make([]float64, max(count, 0))
	for i := range out {
		out[i] = clamp01((n.gen.Eval2(t, float64(i)*0.15) + 1) / 2)
	}
	return out
}
