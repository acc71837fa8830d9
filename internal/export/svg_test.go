package export

import (
	"strings"
	"testing"

	"github.com/san-kum/gravity/internal/render"
)

func TestFrameToSVG(t *testing.T) {
	f := render.Frame{
		Width:  200,
		Height: 100,
		Bodies: []render.Sprite{
			{Name: "Far", X: 10, Y: 10, Depth: 5, Color: 0x0000FF, Radius: 3},
			{Name: "A&B", X: 50, Y: 40, Depth: -1, Color: 0xFF0000, Radius: 0},
		},
		Trails: []render.Segment{{X0: 0, Y0: 0, X1: 5, Y1: 5, Color: 0x00FF00, Alpha: 255}},
	}
	svg := FrameToSVG(f)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not a complete svg document:\n%s", svg)
	}
	if !strings.Contains(svg, `width="200" height="100"`) {
		t.Error("missing frame size")
	}
	if !strings.Contains(svg, `stroke="#00ff00" stroke-opacity="1.000"`) {
		t.Error("missing trail segment")
	}
	if !strings.Contains(svg, `r="1.0" fill="#ff0000"`) {
		t.Error("zero radius should be drawn as one pixel")
	}
	if !strings.Contains(svg, "A&amp;B") {
		t.Error("names must be escaped")
	}
	if strings.Index(svg, "A&amp;B") > strings.Index(svg, "Far") {
		t.Error("bodies should be drawn in depth order")
	}
}

func TestFrameToSVGEmpty(t *testing.T) {
	if got := FrameToSVG(render.Frame{}); got != "" {
		t.Errorf("expected empty output for zero-size frame, got %q", got)
	}
}

func TestDriftToSVG(t *testing.T) {
	if got := DriftToSVG([]float64{1}, 100, 50, "#fff"); got != "" {
		t.Errorf("single point should produce nothing, got %q", got)
	}

	svg := DriftToSVG([]float64{0, 1e-9, 2e-9}, 100, 50, "#ffff00")
	if !strings.Contains(svg, `stroke="#ffff00"`) {
		t.Error("missing stroke color")
	}
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments:\n%s", svg)
	}
	if !strings.Contains(svg, "M0.0,") || !strings.Contains(svg, " L100.0,") {
		t.Errorf("path should span the full width:\n%s", svg)
	}
}
