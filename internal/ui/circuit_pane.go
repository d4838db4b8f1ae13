package ui

import (
	"math/rand/v2"

	"github.com/anodegrind/circuitplayer/internal/canvas"
	"github.com/anodegrind/circuitplayer/internal/circuit"
)

// circuitPane hosts the animator on a braille surface. Frames advance only
// when the UI tick runs the pending frame, so drawing never races View.
type circuitPane struct {
	opts   circuit.Options
	energy circuit.EnergySource
	rng    *rand.Rand

	region  *canvas.Region
	surface *canvas.Braille
	sched   *circuit.ManualScheduler
	anim    *circuit.Animator
	err     error
}

func newCircuitPane(opts circuit.Options, energy circuit.EnergySource, rng *rand.Rand) *circuitPane {
	return &circuitPane{
		opts:   opts,
		energy: energy,
		rng:    rng,
		sched:  &circuit.ManualScheduler{},
	}
}

// resize fits the pane to cols x rows cells. The animator is created on the
// first resize, once the terminal size is known.
func (c *circuitPane) resize(cols, rows int) {
	w, h := canvas.DotSize(cols, rows)
	if c.anim == nil {
		if c.err != nil {
			return
		}
		c.region = canvas.NewRegion(w, h)
		c.surface = canvas.NewBraille(cols, rows)
		options := []circuit.Option{circuit.WithScheduler(c.sched)}
		if c.opts.AudioReactive && c.energy != nil {
			options = append(options, circuit.WithEnergySource(c.energy))
		}
		if c.rng != nil {
			options = append(options, circuit.WithRand(c.rng))
		}
		c.anim, c.err = circuit.New(c.region, c.surface, c.opts, options...)
		return
	}
	if cw, ch := c.region.Size(); cw == w && ch == h {
		return
	}
	c.region.Set(w, h)
	c.anim.HandleResize()
}

// frame runs the pending animation frame, if any.
func (c *circuitPane) frame() {
	c.sched.RunPending()
}

func (c *circuitPane) stats() circuit.Stats {
	if c.anim == nil {
		return circuit.Stats{}
	}
	return c.anim.Stats()
}

func (c *circuitPane) stop() {
	if c.anim != nil {
		c.anim.Stop()
	}
}

func (c *circuitPane) view() string {
	if c.surface == nil {
		return ""
	}
	return c.surface.Render()
}
