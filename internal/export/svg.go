// Package export writes frames and drift series as standalone SVG files.
package export

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/gravity/internal/config"
	"github.com/san-kum/gravity/internal/render"
)

const background = "#0a0a0a"

// FrameToSVG draws a captured frame: trails first, then bodies
// in depth order with their names.
func FrameToSVG(f render.Frame) string {
	if f.Width <= 0 || f.Height <= 0 {
		return ""
	}

	var sb strings.Builder
	writeHeader(&sb, f.Width, f.Height)

	sb.WriteString("<g stroke-width=\"1\">\n")
	for _, s := range f.Trails {
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.3f"/>
`, s.X0, s.Y0, s.X1, s.Y1, hex(s.Color), float64(s.Alpha)/255)
	}
	sb.WriteString("</g>\n")

	bodies := append([]render.Sprite(nil), f.Bodies...)
	sort.SliceStable(bodies, func(i, j int) bool { return bodies[i].Depth < bodies[j].Depth })

	sb.WriteString("<g font-family=\"monospace\" font-size=\"11\">\n")
	for _, b := range bodies {
		r := math.Max(b.Radius, 1)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, b.X, b.Y, r, hex(b.Color))
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#a0a0a0">%s</text>
`, b.X+r+2, b.Y-r-2, html.EscapeString(b.Name))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// DriftToSVG plots a series against its index, scaled to fill the image.
func DriftToSVG(series []float64, width, height int, strokeColor string) string {
	if len(series) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	minY, maxY := series[0], series[0]
	for _, v := range series {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	stepX := float64(width) / float64(len(series)-1)

	var sb strings.Builder
	writeHeader(&sb, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i, v := range series {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func writeHeader(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

func hex(rgb uint32) string {
	return config.UnpackRGB(rgb).Hex()
}
