package report

import (
	"github.com/guptarohit/asciigraph"
)

// Plot draws a series as an ascii chart. Series longer than width are
// downsampled by striding.
func Plot(series []float64, width, height int, caption string) string {
	if len(series) == 0 {
		return ""
	}
	data := series
	if width > 0 && len(data) > width {
		stride := (len(data) + width - 1) / width
		data = make([]float64, 0, width)
		for i := 0; i < len(series); i += stride {
			data = append(data, series[i])
		}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
