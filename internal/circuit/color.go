package circuit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with straight (non-premultiplied) alpha.
type Color struct {
	colorful.Color
	A float64
}

// Transparent is the zero color.
var Transparent = Color{}

// White is the solid core color of a pulse.
var White = Color{Color: colorful.Color{R: 1, G: 1, B: 1}, A: 1}

var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#ff0000",
	"green":  "#008000",
	"blue":   "#0000ff",
	"orange": "#ffa500",
}

// IsTransparent reports whether the color contributes nothing when drawn.
func (c Color) IsTransparent() bool {
	return c.A <= 0
}

// Lerp interpolates towards o. A fully transparent end keeps the other end's
// hue so fading out does not darken through black.
func (c Color) Lerp(o Color, t float64) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return o
	}
	rgb := c.BlendRgb(o.Color, t)
	switch {
	case c.IsTransparent():
		rgb = o.Color
	case o.IsTransparent():
		rgb = c.Color
	}
	return Color{Color: rgb, A: c.A + (o.A-c.A)*t}
}

// ParseColor understands the CSS forms used in configuration: #rgb,
// #rrggbb, rgb(r, g, b), rgba(r, g, b, a), a few names and "transparent".
func ParseColor(value string) (Color, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return Color{}, fmt.Errorf("empty color")
	}
	if s == "transparent" {
		return Transparent, nil
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}

	if strings.HasPrefix(s, "#") {
		if len(s) == 4 {
			s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", value, err)
		}
		return Color{Color: c, A: 1}, nil
	}

	var args string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		args = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		args = s[len("rgb(") : len(s)-1]
	default:
		return Color{}, fmt.Errorf("unsupported color %q", value)
	}

	parts := strings.Split(args, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("parse color %q: want 3 or 4 components, got %d", value, len(parts))
	}
	nums := make([]float64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", value, err)
		}
		nums[i] = n
	}
	alpha := 1.0
	if len(nums) == 4 {
		alpha = clamp01(nums[3])
	}
	return Color{
		Color: colorful.Color{R: clamp01(nums[0] / 255), G: clamp01(nums[1] / 255), B: clamp01(nums[2] / 255)},
		A:     alpha,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
