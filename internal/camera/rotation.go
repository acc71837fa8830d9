package camera

import (
	"github.com/san-kum/gravity/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rotation is the view orientation as two wrapping step counters. Each step
// is 2π/256 radians.
type Rotation struct {
	Z, X uint8
}

// Rotate adds dz and dx steps, wrapping around a full turn.
func (r Rotation) Rotate(dz, dx int) Rotation {
	return Rotation{Z: r.Z + uint8(dz), X: r.X + uint8(dx)}
}

// Matrix maps world coordinates into view coordinates: R_x(x)·R_z(z).
func (r Rotation) Matrix() *r3.Mat {
	m := r3.NewMat(nil)
	m.Mul(rotX(int(r.X)), rotZ(int(r.Z)))
	return m
}

// Reverse maps view coordinates back into world coordinates:
// R_z(-z)·R_x(-x).
func (r Rotation) Reverse() *r3.Mat {
	m := r3.NewMat(nil)
	m.Mul(rotZ(-int(r.Z)), rotX(-int(r.X)))
	return m
}

// Radians returns the z and x angles.
func (r Rotation) Radians() (z, x float64) {
	return dynamo.RotationTable.Angle(int(r.Z)), dynamo.RotationTable.Angle(int(r.X))
}

func rotX(step int) *r3.Mat {
	s, c := dynamo.RotationTable.SinCos(step)
	return r3.NewMat([]float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

func rotZ(step int) *r3.Mat {
	s, c := dynamo.RotationTable.SinCos(step)
	return r3.NewMat([]float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}
