package integrators

import (
	"github.com/san-kum/gravity/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// EulerRichardson is the midpoint predictor-corrector. The field is sampled
// at the start of the step and at the predicted midpoint.
type EulerRichardson struct{}

func NewEulerRichardson() *EulerRichardson {
	return &EulerRichardson{}
}

func (EulerRichardson) Step(r0, v0 r3.Vec, dt float64, accel AccelFunc) (r3.Vec, r3.Vec, error) {
	a0, err := accel(r0)
	if err != nil {
		return r0, v0, err
	}

	vMid := r3.Add(v0, r3.Scale(0.5*dt, a0))
	rMid := r3.Add(r0, r3.Scale(0.5*dt/dynamo.KmPerGm, v0))

	aMid, err := accel(rMid)
	if err != nil {
		return r0, v0, err
	}

	r := r3.Add(r0, r3.Scale(dt/dynamo.KmPerGm, vMid))
	v := r3.Add(v0, r3.Scale(dt, aMid))
	return r, v, nil
}
