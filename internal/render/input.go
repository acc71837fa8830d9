package render

import (
	"github.com/san-kum/gravity/internal/camera"
	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// Action is a user command shared by the terminal and window front ends.
type Action int

const (
	ActNone Action = iota
	ActNudgeLeft
	ActNudgeRight
	ActNudgeUp
	ActNudgeDown
	ActZoomIn
	ActZoomOut
	ActRotateXUp
	ActRotateXDown
	ActRotateZUp
	ActRotateZDown
	ActCenterOfMass
	ActStationary
	ActNextTarget
	ActQuit
)

// Input steps.
const (
	NudgeStep = 1.0  // Gm
	ZoomStep  = 10.0 // Gm
)

var keyActions = map[string]Action{
	"left":   ActNudgeLeft,
	"right":  ActNudgeRight,
	"up":     ActNudgeUp,
	"down":   ActNudgeDown,
	"+":      ActZoomIn,
	"=":      ActZoomIn,
	"-":      ActZoomOut,
	"x":      ActRotateXUp,
	"X":      ActRotateXDown,
	"z":      ActRotateZUp,
	"Z":      ActRotateZDown,
	"c":      ActCenterOfMass,
	"s":      ActStationary,
	"t":      ActNextTarget,
	"tab":    ActNextTarget,
	"q":      ActQuit,
	"esc":    ActQuit,
	"ctrl+c": ActQuit,
}

// KeyAction maps a key name as reported by bubbletea.
func KeyAction(key string) Action {
	return keyActions[key]
}

// Apply performs a on the world. Quit stops the run.
func Apply(w *world.World, a Action) error {
	switch a {
	case ActNone:
		return nil
	case ActQuit:
		w.Stop()
		return nil
	}

	var err error
	w.Write(func(tx *world.Txn) {
		switch a {
		case ActNudgeLeft:
			tx.Nudge(r3.Vec{X: -NudgeStep})
		case ActNudgeRight:
			tx.Nudge(r3.Vec{X: NudgeStep})
		case ActNudgeUp:
			tx.Nudge(r3.Vec{Y: -NudgeStep})
		case ActNudgeDown:
			tx.Nudge(r3.Vec{Y: NudgeStep})
		case ActZoomIn:
			tx.Zoom(-ZoomStep)
		case ActZoomOut:
			tx.Zoom(ZoomStep)
		case ActRotateXUp:
			tx.Rotate(0, 1)
		case ActRotateXDown:
			tx.Rotate(0, -1)
		case ActRotateZUp:
			tx.Rotate(1, 0)
		case ActRotateZDown:
			tx.Rotate(-1, 0)
		case ActCenterOfMass:
			err = tx.SetFollow(camera.CenterOfMass{})
		case ActStationary:
			err = tx.SetFollow(camera.Stationary{})
		case ActNextTarget:
			err = tx.SetFollow(camera.NextTarget(tx.Follow(), tx.Entities()))
		}
	})
	return err
}
