// Package canvas provides concrete drawing surfaces for the circuit
// animator: an RGBA raster, a braille terminal view over it, and PNG export.
package canvas

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/anodegrind/circuitplayer/internal/circuit"
)

// pixel is premultiplied RGBA in [0,1].
type pixel struct {
	r, g, b, a float64
}

// Raster is a software surface implementing circuit.Surface and
// circuit.Context. Each stroke or fill touches a pixel at most once, so
// translucent strokes do not darken where segments overlap.
type Raster struct {
	width, height int
	pix           []pixel
	marks         []uint32
	stamp         uint32
}

var (
	_ circuit.Surface = (*Raster)(nil)
	_ circuit.Context = (*Raster)(nil)
)

// NewRaster allocates a cleared raster.
func NewRaster(width, height int) *Raster {
	r := &Raster{}
	r.SetSize(width, height)
	return r
}

// Size implements circuit.Surface.
func (r *Raster) Size() (int, int) {
	return r.width, r.height
}

// SetSize reallocates and clears the raster.
func (r *Raster) SetSize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	r.width, r.height = width, height
	r.pix = make([]pixel, width*height)
	r.marks = make([]uint32, width*height)
	r.stamp = 0
}

// Context implements circuit.Surface.
func (r *Raster) Context() circuit.Context {
	return r
}

// ClearRect resets the covered pixels to transparent.
func (r *Raster) ClearRect(x, y, w, h float64) {
	x0, y0, x1, y1 := r.clip(x, y, x+w, y+h)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			r.pix[py*r.width+px] = pixel{}
		}
	}
}

// FillRect composites fill over the covered pixels.
func (r *Raster) FillRect(x, y, w, h float64, fill circuit.Fill) {
	x0, y0, x1, y1 := r.clip(x, y, x+w, y+h)
	r.begin()
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			r.plot(px, py, fill.At(float64(px)+0.5, float64(py)+0.5))
		}
	}
}

// Line strokes a straight segment.
func (r *Raster) Line(x0, y0, x1, y1 float64, stroke circuit.Stroke) {
	r.begin()
	r.segment(x0, y0, x1, y1, stroke)
}

// QuadraticCurve strokes a quadratic Bézier through control point (cpx, cpy).
func (r *Raster) QuadraticCurve(x0, y0, cpx, cpy, x1, y1 float64, stroke circuit.Stroke) {
	r.begin()
	length := math.Hypot(cpx-x0, cpy-y0) + math.Hypot(x1-cpx, y1-cpy)
	steps := int(math.Ceil(length / 2))
	steps = min(max(steps, 4), 64)

	px, py := x0, y0
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		nx := u*u*x0 + 2*u*t*cpx + t*t*x1
		ny := u*u*y0 + 2*u*t*cpy + t*t*y1
		r.segment(px, py, nx, ny, stroke)
		px, py = nx, ny
	}
}

// Arc fills a full circle. Circles smaller than a pixel still cover the
// pixel holding their center.
func (r *Raster) Arc(x, y, radius float64, fill circuit.Fill) {
	r.begin()
	if radius <= 0.5 {
		r.plot(int(math.Floor(x)), int(math.Floor(y)), fill.At(x, y))
		return
	}
	x0, y0, x1, y1 := r.clip(x-radius, y-radius, x+radius+1, y+radius+1)
	r2 := radius * radius
	for py := y0; py < y1; py++ {
		cy := float64(py) + 0.5
		for px := x0; px < x1; px++ {
			cx := float64(px) + 0.5
			if (cx-x)*(cx-x)+(cy-y)*(cy-y) > r2 {
				continue
			}
			r.plot(px, py, fill.At(cx, cy))
		}
	}
}

// At returns the straight-alpha color of a pixel.
func (r *Raster) At(x, y int) circuit.Color {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return circuit.Transparent
	}
	p := r.pix[y*r.width+x]
	if p.a <= 0 {
		return circuit.Transparent
	}
	return circuit.Color{Color: colorful.Color{R: p.r / p.a, G: p.g / p.a, B: p.b / p.a}, A: p.a}
}

// Image converts the raster to an image.RGBA (premultiplied, like the raster).
func (r *Raster) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			p := r.pix[y*r.width+x]
			img.SetRGBA(x, y, color.RGBA{R: to8(p.r), G: to8(p.g), B: to8(p.b), A: to8(p.a)})
		}
	}
	return img
}

// WritePNG encodes the raster as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	return png.Encode(w, r.Image())
}

// begin starts a new coverage pass.
func (r *Raster) begin() {
	r.stamp++
	if r.stamp == 0 {
		clear(r.marks)
		r.stamp = 1
	}
}

func (r *Raster) segment(x0, y0, x1, y1 float64, stroke circuit.Stroke) {
	length := math.Hypot(x1-x0, y1-y0)
	steps := max(int(math.Ceil(length*2)), 1)
	half := stroke.Width / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + (x1-x0)*t
		y := y0 + (y1-y0)*t
		if half <= 0.5 {
			r.plot(int(math.Floor(x)), int(math.Floor(y)), stroke.Color)
			continue
		}
		r.disc(x, y, half, stroke.Color)
	}
}

func (r *Raster) disc(x, y, radius float64, c circuit.Color) {
	x0, y0, x1, y1 := r.clip(x-radius, y-radius, x+radius+1, y+radius+1)
	r2 := radius * radius
	for py := y0; py < y1; py++ {
		cy := float64(py) + 0.5
		for px := x0; px < x1; px++ {
			cx := float64(px) + 0.5
			if (cx-x)*(cx-x)+(cy-y)*(cy-y) <= r2 {
				r.plot(px, py, c)
			}
		}
	}
}

// plot composites c over the pixel once per coverage pass (source-over).
func (r *Raster) plot(x, y int, c circuit.Color) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height || c.IsTransparent() {
		return
	}
	i := y*r.width + x
	if r.marks[i] == r.stamp {
		return
	}
	r.marks[i] = r.stamp

	a := math.Min(c.A, 1)
	dst := r.pix[i]
	keep := 1 - a
	r.pix[i] = pixel{
		r: c.R*a + dst.r*keep,
		g: c.G*a + dst.g*keep,
		b: c.B*a + dst.b*keep,
		a: a + dst.a*keep,
	}
}

func (r *Raster) clip(x0, y0, x1, y1 float64) (int, int, int, int) {
	ix0 := max(int(math.Floor(x0)), 0)
	iy0 := max(int(math.Floor(y0)), 0)
	ix1 := min(int(math.Ceil(x1)), r.width)
	iy1 := min(int(math.Ceil(y1)), r.height)
	return ix0, iy0, ix1, iy1
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
