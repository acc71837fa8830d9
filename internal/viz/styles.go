package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/gravity/internal/config"
	"github.com/san-kum/gravity/internal/dynamo"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(panelWidth)
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff")).
			MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	subtle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))

	statusRunning  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusStarting = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	statusStopped  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

var background = colorful.Color{}

func statusBadge(s dynamo.Status) string {
	label := strings.ToUpper(s.String())
	switch s {
	case dynamo.Running:
		return statusRunning.Render(label)
	case dynamo.Stopped:
		return statusStopped.Render(label)
	}
	return statusStarting.Render(label)
}

// bodyColor is the terminal color of a 0xRRGGBB body color.
func bodyColor(rgb uint32) string {
	return config.UnpackRGB(rgb).Hex()
}

// fadedColor blends rgb into the background by alpha/255.
func fadedColor(rgb uint32, alpha uint8) string {
	c := background.BlendRgb(config.UnpackRGB(rgb), float64(alpha)/255)
	return c.Clamped().Hex()
}

// Decorative separator
func separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return subtle.Render(left + " ◆ " + right)
}
