package metrics

import (
	"github.com/san-kum/gravity/internal/physics"
	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// MomentumDrift is the largest change of total momentum seen, relative to
// the sum of the movers' momentum magnitudes at the first observation.
type MomentumDrift struct {
	name     string
	initial  r3.Vec
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string {
	return m.name
}

func (m *MomentumDrift) Observe(s world.Snapshot, t float64) {
	p := physics.Momentum(s)
	if m.samples == 0 {
		m.initial = p
		for _, mv := range s.Movers {
			m.scale += mv.Mass * r3.Norm(mv.Velocity)
		}
	}
	m.samples++
	if m.scale == 0 {
		return
	}
	if d := r3.Norm(r3.Sub(p, m.initial)) / m.scale; d > m.maxDrift {
		m.maxDrift = d
	}
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.initial = r3.Vec{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
