package canvas

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/anodegrind/circuitplayer/internal/circuit"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

const (
	dotsPerCol = 2
	dotsPerRow = 4

	// defaultThreshold is the minimum coverage alpha for a dot to light.
	defaultThreshold = 0.2
)

// Braille renders a Raster as Unicode braille, one raster pixel per dot.
// Each terminal cell is a 2x4 dot grid colored by the mean of its lit dots.
type Braille struct {
	*Raster
	Threshold float64

	styles map[string]lipgloss.Style
}

// NewBraille returns a braille surface covering cols x rows terminal cells.
func NewBraille(cols, rows int) *Braille {
	b := &Braille{
		Raster:    NewRaster(0, 0),
		Threshold: defaultThreshold,
		styles:    make(map[string]lipgloss.Style),
	}
	b.SetSize(cols*dotsPerCol, rows*dotsPerRow)
	return b
}

var _ circuit.Surface = (*Braille)(nil)

// Context implements circuit.Surface.
func (b *Braille) Context() circuit.Context {
	return b.Raster
}

// DotSize converts a cell grid to dot dimensions.
func DotSize(cols, rows int) (width, height int) {
	return max(cols, 0) * dotsPerCol, max(rows, 0) * dotsPerRow
}

// Cells returns the terminal grid the raster covers.
func (b *Braille) Cells() (cols, rows int) {
	w, h := b.Size()
	return (w + dotsPerCol - 1) / dotsPerCol, (h + dotsPerRow - 1) / dotsPerRow
}

// Render draws the raster as colored braille lines. Runs of cells sharing a
// color are styled together.
func (b *Braille) Render() string {
	cols, rows := b.Cells()
	lines := make([]string, rows)
	for row := range rows {
		var line strings.Builder
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				line.WriteString(run.String())
			} else {
				line.WriteString(b.style(runColor).Render(run.String()))
			}
			run.Reset()
		}

		for col := range cols {
			ch, hex := b.cell(col, row)
			if hex != runColor {
				flush()
				runColor = hex
			}
			run.WriteRune(ch)
		}
		flush()
		lines[row] = line.String()
	}
	return strings.Join(lines, "\n")
}

// cell returns the braille rune and hex color of one terminal cell. Empty
// cells render as a plain space with no color.
func (b *Braille) cell(col, row int) (rune, string) {
	var pattern uint
	var sum colorful.Color
	lit := 0
	for dx := range dotsPerCol {
		for dy := range dotsPerRow {
			c := b.At(col*dotsPerCol+dx, row*dotsPerRow+dy)
			if c.A < b.Threshold {
				continue
			}
			pattern |= 1 << brailleBits[dx][dy]
			sum.R += c.R
			sum.G += c.G
			sum.B += c.B
			lit++
		}
	}
	if lit == 0 {
		return ' ', ""
	}
	n := float64(lit)
	mean := colorful.Color{R: sum.R / n, G: sum.G / n, B: sum.B / n}
	return rune(0x2800 + pattern), mean.Clamped().Hex()
}

func (b *Braille) style(hex string) lipgloss.Style {
	if s, ok := b.styles[hex]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	b.styles[hex] = s
	return s
}

// Region is a mutable circuit.Container for hosts that learn their size
// from events, such as terminal resizes.
type Region struct {
	width, height int
}

// NewRegion returns a region of the given size.
func NewRegion(width, height int) *Region {
	return &Region{width: width, height: height}
}

// Set updates the region size.
func (r *Region) Set(width, height int) {
	r.width, r.height = width, height
}

// Size implements circuit.Container.
func (r *Region) Size() (int, int) {
	return r.width, r.height
}
