package circuit

import (
	"fmt"
	"math"
	"strings"
)

// MaxNodes caps the node count to keep the O(n²) neighbour search cheap.
const MaxNodes = 100

// Options configure an Animator. They are fixed at construction.
type Options struct {
	LineColor       string  // edge and pulse color
	BackgroundColor string  // surface fill, "transparent" for none
	NodeColor       string  // node fill
	LineWidth       float64 // edge stroke width
	NodeSize        float64 // base node radius
	NodeCount       int     // target node count, capped at MaxNodes
	Speed           float64 // accepted but not applied to motion
	PulseSpeed      float64 // multiplier on per-pulse random speed
	Complexity      float64 // 0-1, candidate edge count and inclusion probability
	Animate         bool    // continuous loop instead of one static frame
	Responsive      bool    // rebuild on container resize
	AudioReactive   bool    // poll the energy source each frame
	Reactivity      float64 // energy scale in the energy factor
}

// DefaultOptions returns the stock orange-on-transparent look.
func DefaultOptions() Options {
	return Options{
		LineColor:       "rgba(255, 107, 0, 0.7)",
		BackgroundColor: "transparent",
		NodeColor:       "rgba(255, 107, 0, 0.9)",
		LineWidth:       2,
		NodeSize:        4,
		NodeCount:       20,
		Speed:           0.5,
		PulseSpeed:      3,
		Complexity:      0.7,
		Animate:         true,
		Responsive:      true,
		AudioReactive:   false,
		Reactivity:      0.5,
	}
}

// palette holds the parsed colors.
type palette struct {
	line       Color
	background Color
	node       Color
}

// Validate reports colors that cannot be parsed. Numeric extremes are not
// errors; they are normalized when the animator is built.
func (o Options) Validate() error {
	_, err := o.palette()
	return err
}

func (o Options) palette() (palette, error) {
	var p palette
	var err error
	if p.line, err = ParseColor(o.LineColor); err != nil {
		return palette{}, fmt.Errorf("line color: %w", err)
	}
	bg := o.BackgroundColor
	if strings.TrimSpace(bg) == "" {
		bg = "transparent"
	}
	if p.background, err = ParseColor(bg); err != nil {
		return palette{}, fmt.Errorf("background color: %w", err)
	}
	if p.node, err = ParseColor(o.NodeColor); err != nil {
		return palette{}, fmt.Errorf("node color: %w", err)
	}
	return p, nil
}

// normalized clamps values into their valid ranges.
func (o Options) normalized() Options {
	if o.NodeCount < 0 {
		o.NodeCount = 0
	}
	if o.NodeCount > MaxNodes {
		o.NodeCount = MaxNodes
	}
	o.Complexity = clamp01(finiteOr(o.Complexity, 0))
	o.LineWidth = math.Max(0, finiteOr(o.LineWidth, 0))
	o.NodeSize = math.Max(0, finiteOr(o.NodeSize, 0))
	o.PulseSpeed = math.Max(0, finiteOr(o.PulseSpeed, 0))
	o.Speed = finiteOr(o.Speed, 0)
	o.Reactivity = finiteOr(o.Reactivity, 0)
	return o
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
