package circuit

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

const (
	curveChance    = 0.3
	curveMaxOffset = 10
	pulseGlowScale = 3
	nodeGlowScale  = 1.5
)

// Animator renders the circuit diagram and advances its pulses.
type Animator struct {
	mu sync.Mutex

	container Container
	surface   Surface
	opts      Options
	colors    palette
	energy    EnergySource
	scheduler FrameScheduler
	rng       *rand.Rand
	jitter    *rand.Rand

	g       graph
	running bool
	cancel  func()
	frames  uint64
	draws   uint64
}

// Option customizes an Animator's collaborators.
type Option func(*Animator)

// WithEnergySource sets the polled audio energy source.
func WithEnergySource(src EnergySource) Option {
	return func(a *Animator) { a.energy = src }
}

// WithScheduler sets the frame scheduler. The default is a TimerScheduler
// at DefaultFrameInterval.
func WithScheduler(s FrameScheduler) Option {
	return func(a *Animator) { a.scheduler = s }
}

// WithRand sets the random source for layout and pulses. Edge curve jitter
// draws from a generator seeded from it.
func WithRand(r *rand.Rand) Option {
	return func(a *Animator) { a.rng = r }
}

// Stats summarizes the current state.
type Stats struct {
	Nodes  int
	Edges  int
	Pulses int
	Frames uint64
	Draws  uint64
}

// New sizes surface to container, builds the graph and either starts the
// frame loop or draws one static frame.
func New(container Container, surface Surface, opts Options, options ...Option) (*Animator, error) {
	if container == nil || surface == nil {
		return nil, fmt.Errorf("circuit: container and surface are required")
	}
	colors, err := opts.palette()
	if err != nil {
		return nil, fmt.Errorf("circuit: %w", err)
	}

	a := &Animator{
		container: container,
		surface:   surface,
		opts:      opts.normalized(),
		colors:    colors,
	}
	for _, o := range options {
		o(a)
	}
	if a.scheduler == nil {
		a.scheduler = TimerScheduler{Interval: DefaultFrameInterval}
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	a.jitter = rand.New(rand.NewPCG(a.rng.Uint64(), a.rng.Uint64()))

	a.mu.Lock()
	defer a.mu.Unlock()

	a.rebuild()
	if a.opts.Animate {
		a.running = true
		a.cancel = a.scheduler.RequestFrame(a.tick)
	} else {
		a.draw()
	}
	return a, nil
}

// Options returns the normalized options.
func (a *Animator) Options() Options {
	return a.opts
}

// HandleResize resizes the surface to the container and rebuilds the graph
// when Responsive is set. A static animator redraws immediately.
func (a *Animator) HandleResize() {
	if !a.opts.Responsive {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rebuild()
	if !a.opts.Animate {
		a.draw()
	}
}

// Stop cancels the pending frame. It is safe to call more than once.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.running = false
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// Running reports whether the frame loop is active.
func (a *Animator) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Stats returns counts of the current graph and loop.
func (a *Animator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Stats{
		Nodes:  len(a.g.nodes),
		Edges:  a.g.edgeCount(),
		Pulses: len(a.g.pulses),
		Frames: a.frames,
		Draws:  a.draws,
	}
}

// Nodes returns a copy of the node set.
func (a *Animator) Nodes() []Node {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Node, len(a.g.nodes))
	copy(out, a.g.nodes)
	return out
}

// Edges returns a copy of the outgoing edge lists.
func (a *Animator) Edges() [][]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([][]int, len(a.g.edges))
	for i, e := range a.g.edges {
		out[i] = append([]int(nil), e...)
	}
	return out
}

// Pulses returns a copy of the active pulses.
func (a *Animator) Pulses() []Pulse {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Pulse, len(a.g.pulses))
	copy(out, a.g.pulses)
	return out
}

// rebuild must hold a.mu.
func (a *Animator) rebuild() {
	w, h := a.container.Size()
	w, h = max(w, 0), max(h, 0)
	a.surface.SetSize(w, h)
	a.g = buildGraph(a.rng, float64(w), float64(h), a.opts, a.colors.line)
}

func (a *Animator) tick() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	a.update(a.energyFactor())
	a.draw()
	a.cancel = a.scheduler.RequestFrame(a.tick)
}

// energyFactor is 1 unless audio reactivity is on and a source is present.
func (a *Animator) energyFactor() float64 {
	if !a.opts.AudioReactive || a.energy == nil {
		return 1
	}
	return 1 + readEnergy(a.energy)*a.opts.Reactivity
}

// update advances pulses by speed×factor, retires arrivals, chains new
// pulses from arrival nodes and applies the floor spawn. Must hold a.mu.
func (a *Animator) update(factor float64) {
	a.frames++

	active := make([]Pulse, 0, len(a.g.pulses)+1)
	var arrivals []int
	for _, p := range a.g.pulses {
		p.Progress = math.Max(0, p.Progress+p.Speed*factor)
		if p.Progress >= 1 {
			arrivals = append(arrivals, p.Target)
			continue
		}
		active = append(active, p)
	}
	a.g.pulses = active

	for _, node := range arrivals {
		if a.rng.Float64() < pulseChainChance {
			a.g.spawn(a.rng, node, a.opts.PulseSpeed, a.colors.line)
		}
	}

	if len(a.g.nodes) > 0 && a.rng.Float64() < floorSpawnChance*factor && len(a.g.pulses) < floorSpawnMaxPulses {
		a.g.spawn(a.rng, a.rng.IntN(len(a.g.nodes)), a.opts.PulseSpeed, a.colors.line)
	}
}

// draw renders edges, pulses, then nodes. It only reads graph state. Must
// hold a.mu.
func (a *Animator) draw() {
	a.draws++

	ctx := a.surface.Context()
	w, h := a.surface.Size()
	ctx.ClearRect(0, 0, float64(w), float64(h))
	if !a.colors.background.IsTransparent() {
		ctx.FillRect(0, 0, float64(w), float64(h), Solid(a.colors.background))
	}

	nodes := a.g.nodes
	stroke := Stroke{Color: a.colors.line, Width: a.opts.LineWidth}
	for i, start := range nodes {
		for _, j := range a.g.edges[i] {
			end := nodes[j]
			if a.jitter.Float64() < curveChance {
				offset := 2*curveMaxOffset*a.jitter.Float64() - curveMaxOffset
				midX := (start.X+end.X)/2 + offset
				midY := (start.Y+end.Y)/2 + offset
				ctx.QuadraticCurve(start.X, start.Y, midX, midY, end.X, end.Y, stroke)
				continue
			}
			ctx.Line(start.X, start.Y, end.X, end.Y, stroke)
		}
	}

	size := a.opts.NodeSize
	for _, p := range a.g.pulses {
		x, y := p.Position(nodes)
		glow := NewRadialGradient(x, y, size*pulseGlowScale)
		glow.AddColorStop(0, p.Color)
		glow.AddColorStop(1, Transparent)
		ctx.Arc(x, y, size*pulseGlowScale, Fill{Gradient: glow})
		ctx.Arc(x, y, size/2, Solid(White))
	}

	for _, n := range nodes {
		glow := NewRadialGradient(n.X, n.Y, n.Size*nodeGlowScale)
		glow.AddColorStop(0, a.colors.node)
		glow.AddColorStop(1, Transparent)
		ctx.Arc(n.X, n.Y, n.Size*nodeGlowScale, Fill{Gradient: glow})
		ctx.Arc(n.X, n.Y, n.Size, Solid(a.colors.node))
	}
}
