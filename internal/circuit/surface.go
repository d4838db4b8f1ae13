package circuit

import "math"

// Container reports the pixel size the drawing surface should fill.
type Container interface {
	Size() (width, height int)
}

// Surface is a resizable drawing target.
type Surface interface {
	Size() (width, height int)
	SetSize(width, height int)
	Context() Context
}

// Context is the minimal 2D drawing capability the animator needs.
type Context interface {
	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64, fill Fill)
	Line(x0, y0, x1, y1 float64, stroke Stroke)
	QuadraticCurve(x0, y0, cpx, cpy, x1, y1 float64, stroke Stroke)
	Arc(x, y, r float64, fill Fill)
}

// Stroke styles lines and curves.
type Stroke struct {
	Color Color
	Width float64
}

// Fill is a solid color, or a radial gradient when Gradient is set.
type Fill struct {
	Color    Color
	Gradient *RadialGradient
}

// Solid returns a single-color fill.
func Solid(c Color) Fill {
	return Fill{Color: c}
}

// At returns the fill color at (x, y).
func (f Fill) At(x, y float64) Color {
	if f.Gradient != nil {
		return f.Gradient.ColorAt(x, y)
	}
	return f.Color
}

// ColorStop pins a color at an offset in [0,1] along a gradient.
type ColorStop struct {
	Offset float64
	Color  Color
}

// RadialGradient fades outwards from (X, Y) to Radius.
type RadialGradient struct {
	X, Y   float64
	Radius float64
	Stops  []ColorStop
}

// NewRadialGradient returns a gradient without stops.
func NewRadialGradient(x, y, radius float64) *RadialGradient {
	return &RadialGradient{X: x, Y: y, Radius: radius}
}

// AddColorStop appends a stop. Stops must be added in ascending offset order.
func (g *RadialGradient) AddColorStop(offset float64, c Color) {
	g.Stops = append(g.Stops, ColorStop{Offset: clamp01(offset), Color: c})
}

// ColorAt samples the gradient at (x, y).
func (g *RadialGradient) ColorAt(x, y float64) Color {
	if len(g.Stops) == 0 {
		return Transparent
	}
	t := 1.0
	if g.Radius > 0 {
		t = clamp01(math.Hypot(x-g.X, y-g.Y) / g.Radius)
	}
	first := g.Stops[0]
	if t <= first.Offset {
		return first.Color
	}
	for i := 1; i < len(g.Stops); i++ {
		prev, next := g.Stops[i-1], g.Stops[i]
		if t <= next.Offset {
			span := next.Offset - prev.Offset
			if span <= 0 {
				return next.Color
			}
			return prev.Color.Lerp(next.Color, (t-prev.Offset)/span)
		}
	}
	return g.Stops[len(g.Stops)-1].Color
}
