// Package viz is the terminal front end: a braille canvas of the bodies and
// their trails beside a status panel.
package viz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/mlange-42/ark/ecs"
	"github.com/san-kum/gravity/internal/camera"
	"github.com/san-kum/gravity/internal/dynamo"
	"github.com/san-kum/gravity/internal/render"
	"github.com/san-kum/gravity/internal/world"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	panelWidth    = 46
	relativeRows  = 8
)

type TickMsg time.Time

// Clock reports how far the simulation has run.
type Clock interface {
	Elapsed() float64
}

// History is a series plotted in the panel.
type History interface {
	History() []float64
}

type Options struct {
	FPS      int
	FirstDay int
	Clock    Clock
	Drift    History
	// Ready is closed after the first frame has been drawn.
	Ready  chan<- struct{}
	Logger *slog.Logger
}

// Model renders frames captured from the world and forwards key presses to
// it. The world is the only shared state.
type Model struct {
	world         *world.World
	opts          Options
	width, height int
	canvas        *Canvas
	frame         render.Frame
	names         map[ecs.Entity]string
	readyOnce     *sync.Once
	showHelp      bool
	err           error
}

func NewModel(w *world.World, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := Model{
		world:     w,
		opts:      opts,
		width:     defaultWidth,
		height:    defaultHeight,
		readyOnce: &sync.Once{},
		names:     make(map[ecs.Entity]string),
	}
	m.canvas = NewCanvas(m.canvasSize())
	w.Read(func(v *world.View) {
		for _, b := range v.Bodies() {
			m.names[b.Entity] = b.Name
		}
	})
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and redraws on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas = NewCanvas(m.canvasSize())
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "?" {
			m.showHelp = !m.showHelp
			return m, nil
		}
		a := render.KeyAction(msg.String())
		if err := render.Apply(m.world, a); err != nil {
			m.opts.Logger.Warn("input rejected", "key", msg.String(), "err", err)
			m.err = err
		}
		if a == render.ActQuit {
			return m, tea.Quit
		}
		return m, nil
	case TickMsg:
		if m.world.Status() == dynamo.Stopped {
			return m, tea.Quit
		}
		m.redraw()
		if m.opts.Ready != nil {
			m.readyOnce.Do(func() { close(m.opts.Ready) })
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) canvasSize() (w, h int) {
	return max(m.width-panelWidth-6, 10), max(m.height-2, 5)
}

func (m *Model) redraw() {
	pw, ph := m.canvas.PixelSize()
	m.frame = render.Capture(m.world, pw, ph, m.opts.Logger)
	m.canvas.Clear()
	for _, s := range m.frame.Trails {
		m.canvas.DrawLine(int(s.X0), int(s.Y0), int(s.X1), int(s.Y1), fadedColor(s.Color, s.Alpha))
	}
	for _, b := range m.frame.Bodies {
		r := int(math.Round(b.Radius / 2))
		m.canvas.Disc(int(b.X), int(b.Y), r, bodyColor(b.Color))
	}
}

// Day is the simulated day currently in progress.
func (m Model) Day() int {
	if m.opts.Clock == nil {
		return m.opts.FirstDay
	}
	return m.opts.FirstDay + int(m.opts.Clock.Elapsed()/dynamo.SecondsPerDay)
}

func (m Model) followLabel() string {
	label := camera.Name(m.frame.Follow)
	if t, ok := m.frame.Follow.(camera.Target); ok {
		label += " " + m.names[t.Entity]
	}
	return label
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(titleStyle.Render("GRAVITY") + "\n")
	s.WriteString(labelStyle.Render("Status") + statusBadge(m.world.Status()) + "\n")
	s.WriteString(labelStyle.Render("Day") + valueStyle.Render(fmt.Sprintf("%d", m.Day())) + "\n")
	s.WriteString(labelStyle.Render("Follow") + valueStyle.Render(m.followLabel()) + "\n")
	s.WriteString(labelStyle.Render("Radius") + valueStyle.Render(fmt.Sprintf("%.2f Gm", m.frame.ViewRadius)) + "\n")
	z, x := m.frame.Rotation.Radians()
	s.WriteString(labelStyle.Render("Rotation") + valueStyle.Render(fmt.Sprintf("z %.0f° x %.0f°", z*180/math.Pi, x*180/math.Pi)) + "\n")
	if m.frame.Err != nil {
		s.WriteString(statusStopped.Render(m.frame.Err.Error()) + "\n")
	}

	s.WriteString("\n" + separator(panelWidth-4) + "\n")
	s.WriteString(fmt.Sprintf("%-12s %12s %12s\n", "body", "|r| Gm", "|v| km/s"))
	for i, r := range m.frame.Relative {
		if i == relativeRows {
			s.WriteString(subtle.Render(fmt.Sprintf("… %d more", len(m.frame.Relative)-i)) + "\n")
			break
		}
		s.WriteString(valueStyle.Render(fmt.Sprintf("%-12.12s %12.3f %12.3f", r.Name, r.Distance, r.Speed)) + "\n")
	}

	if m.opts.Drift != nil {
		if hist := m.opts.Drift.History(); len(hist) > 1 {
			chart := asciigraph.Plot(tail(hist, 3*(panelWidth-10)),
				asciigraph.Height(4),
				asciigraph.Width(panelWidth-20),
				asciigraph.Caption("energy drift"))
			s.WriteString(graphStyle.Render(chart) + "\n")
		}
	}

	if m.showHelp {
		s.WriteString(helpStyle.Render("←↑↓→ pan   +/- zoom\nx/X z/Z rotate\nc center of mass   s stationary\nt/tab next target   q quit"))
	} else {
		s.WriteString(helpStyle.Render("?:Help Q:Quit"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
}

func tail(xs []float64, n int) []float64 {
	if len(xs) > n {
		return xs[len(xs)-n:]
	}
	return xs
}

// Run shows the model until the user quits, the world stops or ctx is
// cancelled. Quitting from the terminal stops the world.
func Run(ctx context.Context, w *world.World, opts Options) error {
	p := tea.NewProgram(NewModel(w, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	w.Stop()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil) {
		return nil
	}
	return err
}
