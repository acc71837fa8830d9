package physics

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"
	"github.com/san-kum/gravity/internal/dynamo"
	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// G is the gravitational constant in km·s⁻²·Gm²/(10^24 kg).
const G = 6.674e-8

type coincidenceError struct {
	other string
}

func (e *coincidenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.other, dynamo.ErrCoincidentBodies)
}

func (e *coincidenceError) Unwrap() error { return dynamo.ErrCoincidentBodies }

// Acceleration returns the field in km/s² at r produced by every massive body
// except self.
func Acceleration(massive []world.PointMass, self ecs.Entity, r r3.Vec) (r3.Vec, error) {
	var a r3.Vec
	for _, m := range massive {
		if m.Entity == self {
			continue
		}
		d := r3.Sub(r, m.Position)
		dist2 := r3.Norm2(d)
		if dist2 == 0 {
			return r3.Vec{}, &coincidenceError{other: m.Name}
		}
		a = r3.Add(a, r3.Scale(-G*m.Mass/(dist2*math.Sqrt(dist2)), d))
	}
	return a, nil
}

// CircularSpeed is the speed in km/s of a circular orbit of radius d Gm
// around mass m.
func CircularSpeed(m, d float64) float64 {
	return math.Sqrt(G * m * dynamo.KmPerGm / d)
}

// OrbitalPeriod is the period in seconds of a circular orbit of radius d Gm
// around mass m.
func OrbitalPeriod(m, d float64) float64 {
	return 2 * math.Pi * d * dynamo.KmPerGm / CircularSpeed(m, d)
}
