// Package circuit animates a procedurally generated circuit diagram whose
// signal pulses react to live audio energy.
//
// # Overview
//
// An Animator owns a random planar graph of nodes sized to its drawing
// surface. Each node connects to a subset of its nearest neighbours, and
// pulses travel along those directed edges. When a pulse arrives it may
// respawn from the arrival node, which chains signals across the graph. A
// low-probability floor spawn keeps the graph from going dark.
//
// # Graph Construction
//
//  1. min(NodeCount, MaxNodes) nodes at uniform positions in [0,w)×[0,h)
//  2. per node, the ceil(3×Complexity) nearest other nodes are candidates
//  3. each candidate becomes an outgoing edge with probability Complexity
//  4. five pulses are seeded from random nodes
//
// The graph is rebuilt wholesale on every resize. The previous value is
// replaced, never appended to, so a frame never sees a half-built graph.
//
// # Frame Loop
//
// With Animate enabled the animator asks its FrameScheduler for a frame,
// updates pulses, draws, and asks again. TimerScheduler runs frames on a
// timer goroutine; ManualScheduler leaves the pending frame to the host,
// which is how the terminal UI drives it from bubbletea ticks. Stop
// cancels the pending frame. With Animate disabled exactly one static frame
// is drawn and nothing is scheduled.
//
// # Audio Reactivity
//
// When AudioReactive is set, the EnergySource is polled once per frame and
//
//	energyFactor = 1 + energy × Reactivity
//
// scales both pulse speed and the floor spawn probability. A missing source,
// a panicking source, or a NaN reading counts as zero energy. The factor is
// not clamped.
//
// # Drawing
//
// The animator draws through the Surface and Context interfaces only:
// edges first, then pulses, then nodes on top. See the canvas package for
// the raster and braille implementations.
package circuit
