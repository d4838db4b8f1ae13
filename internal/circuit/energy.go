package circuit

import "math"

// EnergySource returns the current normalized audio energy, nominally in
// [0,1]. It is polled once per frame and must be cheap; it should return 0
// when nothing is playing.
type EnergySource interface {
	Energy() float64
}

// EnergyFunc adapts a plain accessor to EnergySource.
type EnergyFunc func() float64

// Energy calls f.
func (f EnergyFunc) Energy() float64 { return f() }

// readEnergy never lets a misbehaving source stop the frame loop.
func readEnergy(src EnergySource) (energy float64) {
	if src == nil {
		return 0
	}
	defer func() {
		if recover() != nil {
			energy = 0
		}
	}()
	energy = src.Energy()
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return 0
	}
	return energy
}
