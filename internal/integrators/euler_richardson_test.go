package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/gravity/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestEulerRichardsonConstantField(t *testing.T) {
	integ := NewEulerRichardson()
	g := r3.Vec{Z: -0.01}
	field := func(r3.Vec) (r3.Vec, error) { return g, nil }

	r0 := r3.Vec{X: 1}
	v0 := r3.Vec{X: 2}
	dt := 100.0

	r, v, err := integ.Step(r0, v0, dt, field)
	if err != nil {
		t.Fatal(err)
	}

	// Exact for a uniform field: r = r0 + (v0·dt + ½·g·dt²)/1e6.
	want := r3.Add(r0, r3.Scale(1/dynamo.KmPerGm, r3.Add(r3.Scale(dt, v0), r3.Scale(0.5*dt*dt, g))))
	if r3.Norm(r3.Sub(r, want)) > 1e-12 {
		t.Errorf("position: got %v, want %v", r, want)
	}
	wantV := r3.Add(v0, r3.Scale(dt, g))
	if r3.Norm(r3.Sub(v, wantV)) > 1e-12 {
		t.Errorf("velocity: got %v, want %v", v, wantV)
	}
}

func TestEulerRichardsonZeroStep(t *testing.T) {
	integ := NewEulerRichardson()
	field := func(r r3.Vec) (r3.Vec, error) { return r3.Scale(-1, r), nil }
	r0, v0 := r3.Vec{X: 3, Y: 4}, r3.Vec{Z: 1}
	r, v, _ := integ.Step(r0, v0, 0, field)
	if r != r0 || v != v0 {
		t.Errorf("dt=0 moved the body: %v %v", r, v)
	}
}

// Harmonic oscillator in mixed units; the error at a quarter period should
// fall by ~4x when dt halves.
func TestEulerRichardsonSecondOrder(t *testing.T) {
	const k = 1e-6
	field := func(r r3.Vec) (r3.Vec, error) {
		return r3.Scale(-k*dynamo.KmPerGm, r), nil
	}
	quarter := math.Pi / 2 / math.Sqrt(k)
	run := func(n int) float64 {
		integ := NewEulerRichardson()
		r, v := r3.Vec{X: 1}, r3.Vec{}
		dt := quarter / float64(n)
		for i := 0; i < n; i++ {
			r, v, _ = integ.Step(r, v, dt, field)
		}
		return math.Abs(r.X)
	}
	e1 := run(32)
	e2 := run(64)
	if e2 > e1/3 {
		t.Errorf("error did not shrink quadratically: n=32 -> %g, n=64 -> %g", e1, e2)
	}
}
