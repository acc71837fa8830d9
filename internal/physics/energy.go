package physics

import (
	"math"

	"github.com/san-kum/gravity/internal/dynamo"
	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// Energy returns the kinetic and potential energy of a snapshot in
// 10^24 kg·km²/s². Fixed bodies carry no kinetic energy.
func Energy(s world.Snapshot) (kinetic, potential float64) {
	for _, m := range s.Movers {
		kinetic += 0.5 * m.Mass * r3.Norm2(m.Velocity)
	}
	for i := 0; i < len(s.Massive); i++ {
		for j := i + 1; j < len(s.Massive); j++ {
			a, b := s.Massive[i], s.Massive[j]
			d := r3.Norm(r3.Sub(a.Position, b.Position))
			if d == 0 {
				return kinetic, math.Inf(-1)
			}
			potential -= G * a.Mass * b.Mass * dynamo.KmPerGm / d
		}
	}
	return kinetic, potential
}

// TotalEnergy is kinetic plus potential energy.
func TotalEnergy(s world.Snapshot) float64 {
	k, p := Energy(s)
	return k + p
}

// Momentum returns the total linear momentum of the movers in
// 10^24 kg·km/s.
func Momentum(s world.Snapshot) r3.Vec {
	var p r3.Vec
	for _, m := range s.Movers {
		p = r3.Add(p, r3.Scale(m.Mass, m.Velocity))
	}
	return p
}
