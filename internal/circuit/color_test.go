package circuit

import (
	"math"
	"testing"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		r, g, b float64
		a       float64
	}{
		{"rgba(255, 107, 0, 0.7)", 1, 107.0 / 255, 0, 0.7},
		{"rgb(0,0,255)", 0, 0, 1, 1},
		{"#fff", 1, 1, 1, 1},
		{"#FF6600", 1, 0x66 / 255.0, 0, 1},
		{"white", 1, 1, 1, 1},
		{"transparent", 0, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			c, err := ParseColor(tc.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) returned error: %v", tc.in, err)
			}
			if !near(c.R, tc.r) || !near(c.G, tc.g) || !near(c.B, tc.b) || !near(c.A, tc.a) {
				t.Fatalf("ParseColor(%q) = %+v, want rgba(%v %v %v %v)", tc.in, c, tc.r, tc.g, tc.b, tc.a)
			}
		})
	}
}

func TestParseColor_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "#12", "rgba(1,2)", "hsl(1,2,3)", "rgb(a,b,c)"} {
		if _, err := ParseColor(in); err == nil {
			t.Fatalf("ParseColor(%q) returned nil error", in)
		}
	}
}

func TestRadialGradient_FadesToTransparent(t *testing.T) {
	orange, _ := ParseColor("rgba(255, 107, 0, 0.8)")
	g := NewRadialGradient(0, 0, 10)
	g.AddColorStop(0, orange)
	g.AddColorStop(1, Transparent)

	center := g.ColorAt(0, 0)
	if !near(center.A, 0.8) {
		t.Fatalf("center alpha = %v, want 0.8", center.A)
	}
	mid := g.ColorAt(5, 0)
	if !near(mid.A, 0.4) || !near(mid.R, orange.R) {
		t.Fatalf("mid = %+v, want half alpha with orange hue", mid)
	}
	if edge := g.ColorAt(20, 0); !edge.IsTransparent() {
		t.Fatalf("outside = %+v, want transparent", edge)
	}
}

func TestFillAt_Solid(t *testing.T) {
	if got := Solid(White).At(3, 4); got != White {
		t.Fatalf("Solid.At = %+v, want white", got)
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
