package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravity/internal/physics"
	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
)

func orbit(v float64) world.Snapshot {
	star := world.PointMass{Name: "star", Mass: 1000}
	probe := world.PointMass{Name: "probe", Mass: 1, Position: r3.Vec{X: 2}}
	return world.Snapshot{
		Massive: []world.PointMass{star, probe},
		Movers:  []world.Mover{{PointMass: probe, Velocity: r3.Vec{Y: v}}},
	}
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()
	s := orbit(5)
	m.Observe(s, 0)
	m.Observe(s, 1)
	want := physics.TotalEnergy(s)
	if math.Abs(m.Value()-want) > 1e-12*math.Abs(want) {
		t.Errorf("got %v, want %v", m.Value(), want)
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(2)
	m.Observe(orbit(5), 0)
	if m.Value() != 0 {
		t.Errorf("first observation drift %v, want 0", m.Value())
	}
	m.Observe(orbit(6), 1)
	m.Observe(orbit(5), 2)

	e0 := physics.TotalEnergy(orbit(5))
	e1 := physics.TotalEnergy(orbit(6))
	want := math.Abs(e1-e0) / math.Abs(e0)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("got max drift %v, want %v", m.Value(), want)
	}
	h := m.History()
	if len(h) != 2 || h[1] != 0 {
		t.Errorf("history %v, want last two points ending in 0", h)
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()
	m.Observe(orbit(5), 0)
	m.Observe(orbit(4), 1)
	// |Δp| = 1, scale = 5.
	if math.Abs(m.Value()-0.2) > 1e-12 {
		t.Errorf("got %v, want 0.2", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}
