package gui

import (
	"fmt"
	"math"
	"sort"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/gravity/internal/camera"
	"github.com/san-kum/gravity/internal/dynamo"
	"github.com/san-kum/gravity/internal/render"
)

func rgba(rgb uint32, alpha uint8) rl.Color {
	return rl.NewColor(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb), alpha)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.drawSim()
	a.drawPanel()
	rl.EndDrawing()
}

// drawSim draws trails first, then bodies from back to front.
func (a *App) drawSim() {
	for _, s := range a.frame.Trails {
		rl.DrawLineV(
			rl.NewVector2(float32(s.X0), float32(s.Y0)),
			rl.NewVector2(float32(s.X1), float32(s.Y1)),
			rgba(s.Color, s.Alpha),
		)
	}
	bodies := append([]render.Sprite(nil), a.frame.Bodies...)
	sort.SliceStable(bodies, func(i, j int) bool { return bodies[i].Depth < bodies[j].Depth })
	for _, b := range bodies {
		rl.DrawCircleV(rl.NewVector2(float32(b.X), float32(b.Y)), float32(math.Max(b.Radius, 1)), rgba(b.Color, 255))
	}
}

func (a *App) drawPanel() {
	x := float32(rl.GetScreenWidth() - panelWidth)
	h := float32(rl.GetScreenHeight())
	rl.DrawRectangle(int32(x), 0, panelWidth, int32(h), rl.NewColor(18, 18, 18, 255))
	rl.DrawLine(int32(x), 0, int32(x), int32(h), ColTextDim)

	px, py := x+20, float32(20)
	a.drawText("gravity", px, py, 24, ColSelect)
	status := a.world.Status()
	col := ColSelect
	if status != dynamo.Running {
		col = ColTextDim
	}
	a.drawText(status.String(), px+180, py+6, 16, col)
	py += 40

	day := a.opts.FirstDay
	if a.opts.Clock != nil {
		day += int(a.opts.Clock.Elapsed() / dynamo.SecondsPerDay)
	}
	a.drawText(fmt.Sprintf("day %d", day), px, py, 16, ColAccent)
	py += 22
	a.drawText(fmt.Sprintf("follow  %s", a.followLabel()), px, py, 16, ColAccent)
	py += 22
	a.drawText(fmt.Sprintf("radius  %.2f Gm", a.frame.ViewRadius), px, py, 16, ColAccent)
	py += 22
	if a.frame.Err != nil {
		a.drawText("target lost", px, py, 16, ColWarn)
	}
	py += 28

	bw := float32(125)
	if gui.Button(rl.Rectangle{X: px, Y: py, Width: bw, Height: 28}, "Stationary") {
		a.apply(render.ActStationary)
	}
	if gui.Button(rl.Rectangle{X: px + bw + 10, Y: py, Width: bw, Height: 28}, "Center of mass") {
		a.apply(render.ActCenterOfMass)
	}
	py += 36
	if gui.Button(rl.Rectangle{X: px, Y: py, Width: bw, Height: 28}, "Next target") {
		a.apply(render.ActNextTarget)
	}
	if gui.Button(rl.Rectangle{X: px + bw + 10, Y: py, Width: bw, Height: 28}, "Quit") {
		a.apply(render.ActQuit)
	}
	py += 48

	a.drawText("body           |r| Gm    |v| km/s", px, py, 14, ColText)
	py += 20
	for _, r := range a.frame.Relative {
		if py > h-140 {
			break
		}
		a.drawText(fmt.Sprintf("%-12.12s %9.3f %9.3f", r.Name, r.Distance, r.Speed), px, py, 14, ColAccent)
		py += 18
	}

	a.drawTelemetry(px, h-110, panelWidth-40, 60)
	a.drawText("arrows pan  +/- zoom  x/z rotate", px, h-30, 12, ColTextDim)
}

func (a *App) apply(act render.Action) {
	if err := render.Apply(a.world, act); err != nil {
		a.log.Warn("input rejected", "err", err)
	}
}

func (a *App) followLabel() string {
	label := camera.Name(a.frame.Follow)
	if t, ok := a.frame.Follow.(camera.Target); ok {
		label += " " + a.names[t.Entity]
	}
	return label
}

// drawTelemetry plots the energy drift history as a line strip.
func (a *App) drawTelemetry(x, y float32, width, height float32) {
	if a.opts.Drift == nil {
		return
	}
	hist := a.opts.Drift.History()
	if len(hist) < 2 {
		return
	}

	minVal, maxVal := hist[0], hist[0]
	for _, v := range hist {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(hist))
	for i, val := range hist {
		px := x + float32(i)/float32(len(hist)-1)*width
		norm := (val - minVal) / (maxVal - minVal)
		points[i] = rl.NewVector2(px, y+height-float32(norm)*height)
	}
	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("energy drift %.2e", hist[len(hist)-1]), x, y+height+6, 12, ColText)
}

func (a *App) drawText(text string, x, y float32, size int32, color rl.Color) {
	rl.DrawText(text, int32(x), int32(y), size, color)
}
