// Package integrators advances a single body through one time step given
// the field it moves in.
package integrators

import "gonum.org/v1/gonum/spatial/r3"

// AccelFunc returns the acceleration in km/s² at a position in Gm.
type AccelFunc func(r r3.Vec) (r3.Vec, error)

// Integrator advances position (Gm) and velocity (km/s) by dt seconds.
type Integrator interface {
	Step(r0, v0 r3.Vec, dt float64, accel AccelFunc) (r, v r3.Vec, err error)
}
