// Package gui is the windowed front end, drawn with raylib. Raylib must be
// driven from the main OS thread, so Run blocks the caller.
package gui

import (
	"context"
	"log/slog"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"github.com/san-kum/gravity/internal/dynamo"
	"github.com/san-kum/gravity/internal/render"
	"github.com/san-kum/gravity/internal/world"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColWarn    = rl.NewColor(230, 80, 80, 255)
)

const panelWidth = 300

type Clock interface {
	Elapsed() float64
}

type History interface {
	History() []float64
}

type Options struct {
	Width, Height int
	FPS           int
	FirstDay      int
	Clock         Clock
	Drift         History
	// Ready is closed after the first frame has been drawn.
	Ready  chan<- struct{}
	Logger *slog.Logger
}

type App struct {
	world *world.World
	opts  Options
	log   *slog.Logger
	frame render.Frame
	names map[ecs.Entity]string
	ready bool
}

func NewApp(w *world.World, opts Options) *App {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	a := &App{world: w, opts: opts, log: opts.Logger, names: make(map[ecs.Entity]string)}
	w.Read(func(v *world.View) {
		for _, b := range v.Bodies() {
			a.names[b.Entity] = b.Name
		}
	})
	return a
}

// initWindow opens a resizable window and disables the default exit key;
// quitting goes through the input actions.
func (a *App) initWindow() {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(a.opts.Width), int32(a.opts.Height), "gravity")
	rl.SetTargetFPS(int32(a.opts.FPS))
	rl.SetExitKey(0)
}

// Run opens the window and draws until it is closed, the world stops or
// ctx is cancelled. It always leaves the world stopped.
func Run(ctx context.Context, w *world.World, opts Options) error {
	a := NewApp(w, opts)
	a.initWindow()
	defer rl.CloseWindow()
	defer w.Stop()
	a.RunLoop(ctx)
	return nil
}

func (a *App) RunLoop(ctx context.Context) {
	for !rl.WindowShouldClose() {
		if ctx.Err() != nil || a.world.Status() == dynamo.Stopped {
			return
		}
		a.Update()
		a.Draw()
		if !a.ready && a.opts.Ready != nil {
			close(a.opts.Ready)
			a.ready = true
		}
	}
}

// Update applies pending key presses and captures the next frame.
func (a *App) Update() {
	for _, act := range pendingActions() {
		if err := render.Apply(a.world, act); err != nil {
			a.log.Warn("input rejected", "err", err)
		}
	}
	w := int(rl.GetScreenWidth()) - panelWidth
	a.frame = render.Capture(a.world, max(w, 1), int(rl.GetScreenHeight()), a.log)
}

var specialKeys = map[int32]string{
	rl.KeyLeft:       "left",
	rl.KeyRight:      "right",
	rl.KeyUp:         "up",
	rl.KeyDown:       "down",
	rl.KeyTab:        "tab",
	rl.KeyEscape:     "esc",
	rl.KeyKpAdd:      "+",
	rl.KeyKpSubtract: "-",
}

// pendingActions drains this frame's key presses. Printable keys come from
// the character queue so that shifted letters keep their case.
func pendingActions() []render.Action {
	var out []render.Action
	keys := make([]int32, 0, len(specialKeys))
	for k := range specialKeys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		if rl.IsKeyPressed(k) {
			out = append(out, render.KeyAction(specialKeys[k]))
		}
	}
	for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
		out = append(out, render.KeyAction(string(rune(c))))
	}
	return out
}
