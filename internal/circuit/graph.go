package circuit

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
)

const (
	seedPulses          = 5
	candidatesPerUnit   = 3
	nodeSizeJitter      = 0.5
	pulseBaseSpeed      = 0.01
	pulseSpeedRange     = 0.02
	pulseChainChance    = 0.7
	floorSpawnChance    = 0.05
	floorSpawnMaxPulses = 20
)

// Node is a fixed point of the diagram.
type Node struct {
	X, Y float64
	Size float64
}

// Pulse is a signal travelling from Source to Target. Progress stays in
// [0,1) while the pulse is active.
type Pulse struct {
	Source   int
	Target   int
	Progress float64
	Speed    float64
	Color    Color
}

// Position interpolates the pulse between its endpoints.
func (p Pulse) Position(nodes []Node) (x, y float64) {
	start, end := nodes[p.Source], nodes[p.Target]
	return start.X + (end.X-start.X)*p.Progress, start.Y + (end.Y-start.Y)*p.Progress
}

// graph is replaced as a whole on rebuild.
type graph struct {
	nodes  []Node
	edges  [][]int
	pulses []Pulse
}

type neighbour struct {
	index    int
	distance float64
}

// buildGraph lays out nodes, connects nearest neighbours and seeds pulses.
func buildGraph(rng *rand.Rand, width, height float64, opts Options, pulseColor Color) graph {
	count := min(opts.NodeCount, MaxNodes)
	if count < 0 {
		count = 0
	}

	g := graph{
		nodes: make([]Node, count),
		edges: make([][]int, count),
	}
	for i := range g.nodes {
		g.nodes[i] = Node{
			X:    rng.Float64() * width,
			Y:    rng.Float64() * height,
			Size: opts.NodeSize + rng.Float64()*opts.NodeSize*nodeSizeJitter,
		}
	}

	limit := int(math.Ceil(candidatesPerUnit * opts.Complexity))
	candidates := make([]neighbour, 0, count)
	for i, node := range g.nodes {
		candidates = candidates[:0]
		for j, other := range g.nodes {
			if j == i {
				continue
			}
			candidates = append(candidates, neighbour{index: j, distance: math.Hypot(node.X-other.X, node.Y-other.Y)})
		}
		slices.SortStableFunc(candidates, func(a, b neighbour) int {
			return cmp.Compare(a.distance, b.distance)
		})
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}

		edges := make([]int, 0, len(candidates))
		for _, c := range candidates {
			if rng.Float64() < opts.Complexity {
				edges = append(edges, c.index)
			}
		}
		g.edges[i] = edges
	}

	if count > 0 {
		for range seedPulses {
			g.spawn(rng, rng.IntN(count), opts.PulseSpeed, pulseColor)
		}
	}
	return g
}

// spawn starts a pulse on a random outgoing edge of source. Nodes without
// edges spawn nothing.
func (g *graph) spawn(rng *rand.Rand, source int, multiplier float64, c Color) {
	if source < 0 || source >= len(g.edges) {
		return
	}
	out := g.edges[source]
	if len(out) == 0 {
		return
	}
	g.pulses = append(g.pulses, Pulse{
		Source:   source,
		Target:   out[rng.IntN(len(out))],
		Progress: 0,
		Speed:    (pulseBaseSpeed + rng.Float64()*pulseSpeedRange) * multiplier,
		Color:    c,
	})
}

func (g graph) edgeCount() int {
	n := 0
	for _, out := range g.edges {
		n += len(out)
	}
	return n
}
