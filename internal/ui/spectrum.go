package ui

import (
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	spectrumBars = 64

	// Analyser levels are byte magnitudes over 128, so a full-scale bin
	// reaches 255/128.
	byteScale      = 255.0 / 128.0
	barScale       = 5.0
	barMinHeight   = 0.1
	barMaxHeight   = byteScale * barScale
	springFreq     = 8.0
	springDamping  = 0.6
	hueStart       = 15.0
	hueSpan        = 60.0
	lightnessBase  = 0.4
	lightnessScale = 0.2
)

var partialBlocks = []rune(" ▁▂▃▄▅▆▇█")

// spectrum smooths analyser levels into bar heights with one spring per bar.
type spectrum struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
	value  []float64
}

func newSpectrum(fps int) *spectrum {
	return &spectrum{
		spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), springFreq, springDamping),
		pos:    make([]float64, spectrumBars),
		vel:    make([]float64, spectrumBars),
		value:  make([]float64, spectrumBars),
	}
}

// barHeight converts a level in [0,1] to a bar height, never below the
// minimum that keeps silent bars visible.
func barHeight(level float64) float64 {
	h := level * byteScale * barScale
	if h <= 0 {
		return barMinHeight
	}
	return h
}

// step moves every bar toward its target. Missing levels count as silence.
func (s *spectrum) step(levels []float64) {
	for i := range s.pos {
		level := 0.0
		if i < len(levels) {
			level = levels[i]
		}
		s.value[i] = level * byteScale
		target := barHeight(level) / barMaxHeight
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], target)
	}
}

// heights returns the smoothed heights as fractions of the view.
func (s *spectrum) heights() []float64 {
	out := make([]float64, len(s.pos))
	for i, p := range s.pos {
		out[i] = max(0, min(1, p))
	}
	return out
}

// barColor is the bar's hue by index with lightness by loudness.
func (s *spectrum) barColor(i int) string {
	hue := float64(i)/float64(len(s.pos))*hueSpan + hueStart
	l := lightnessBase + s.value[i]*lightnessScale
	return colorful.Hsl(hue, 1, min(l, 1)).Clamped().Hex()
}

// view draws the bars bottom-up in rows lines, spreading them over width
// cells.
func (s *spectrum) view(width, rows int) string {
	if width <= 0 || rows <= 0 {
		return ""
	}
	n := len(s.pos)
	cols := make([]int, width) // bar index per cell, -1 for a gap
	barWidth := max(width/n, 1)
	for x := range cols {
		cols[x] = -1
		if bar := x / barWidth; bar < n && (barWidth == 1 || x%barWidth != barWidth-1) {
			cols[x] = bar
		}
	}

	heights := s.heights()
	styles := make([]lipgloss.Style, n)
	for i := range styles {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(s.barColor(i)))
	}

	lines := make([]string, rows)
	for r := range rows {
		level := rows - 1 - r // 0 is the bottom line
		var b strings.Builder
		for _, bar := range cols {
			if bar < 0 {
				b.WriteByte(' ')
				continue
			}
			eighths := int(heights[bar]*float64(rows*8)) - level*8
			eighths = max(0, min(8, eighths))
			if eighths == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(styles[bar].Render(string(partialBlocks[eighths])))
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}
