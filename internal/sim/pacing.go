package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/gravity/internal/dynamo"
)

const (
	// DefaultMaxStep is ten simulated minutes.
	DefaultMaxStep = 600.0
	DefaultBudget  = 990 * time.Microsecond
)

// Pacing splits the simulated time owed per millisecond of wall time into
// equal sub-steps no longer than the maximum step.
type Pacing struct {
	DaysPerMs float64
	Ratio     float64
	Steps     int
	Timestep  float64 // seconds
}

func NewPacing(daysPerSecond, maxStep float64) (Pacing, error) {
	if !(daysPerSecond > 0) || math.IsInf(daysPerSecond, 0) {
		return Pacing{}, fmt.Errorf("days per second %v: %w", daysPerSecond, dynamo.ErrInvalidPacing)
	}
	if !(maxStep > 0) || math.IsInf(maxStep, 0) {
		return Pacing{}, fmt.Errorf("max step %v: %w", maxStep, dynamo.ErrInvalidPacing)
	}
	p := Pacing{DaysPerMs: daysPerSecond / 1000}
	p.Ratio = p.DaysPerMs * dynamo.SecondsPerDay / maxStep
	p.Steps = int(math.Floor(p.Ratio)) + 1
	p.Timestep = maxStep * p.Ratio / float64(p.Steps)
	return p, nil
}

// PerTick is the simulated time in seconds covered by one tick.
func (p Pacing) PerTick() float64 {
	return p.Timestep * float64(p.Steps)
}

func (p Pacing) String() string {
	return fmt.Sprintf("Δt=%.6gd ratio=%.4g n=%d timestep=%.4gs", p.DaysPerMs, p.Ratio, p.Steps, p.Timestep)
}
