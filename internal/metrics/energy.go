package metrics

import (
	"math"
	"sync"

	"github.com/san-kum/gravity/internal/physics"
	"github.com/san-kum/gravity/internal/world"
)

// Energy is the mean total energy over all observations.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s world.Snapshot, t float64) {
	e.totalEnergy += physics.TotalEnergy(s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the relative deviation of total energy from its first
// observation. Value is the largest drift seen. History may be read while
// the run is in progress.
type EnergyDrift struct {
	name          string
	mu            sync.Mutex
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	history       []float64
	limit         int
}

// NewEnergyDrift keeps at most limit history points; zero keeps all.
func NewEnergyDrift(limit int) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		limit: limit,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s world.Snapshot, t float64) {
	energy := physics.TotalEnergy(s)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++

	drift := 0.0
	if e.initialEnergy != 0 {
		drift = math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
	e.history = append(e.history, drift)
	if e.limit > 0 && len(e.history) > e.limit {
		e.history = e.history[len(e.history)-e.limit:]
	}
}

func (e *EnergyDrift) Value() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxDrift
}

// Current is the latest total energy.
func (e *EnergyDrift) Current() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentEnergy
}

// History returns a copy of the drift per observation.
func (e *EnergyDrift) History() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]float64(nil), e.history...)
}

func (e *EnergyDrift) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
	e.history = nil
}
