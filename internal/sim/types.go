package sim

import (
	"time"

	"github.com/san-kum/gravity/internal/world"
)

// Stepper advances the world by one physics step.
type Stepper interface {
	Step(dt float64) error
	StepWithTrails(dt float64) error
}

// Metric accumulates a scalar over the run.
type Metric interface {
	Name() string
	Observe(s world.Snapshot, t float64)
	Value() float64
	Reset()
}

// Observer is told about finished days and about the end of the run.
type Observer interface {
	OnDay(r DayReport)
	OnStop(r DayReport)
}

type DayReport struct {
	Day     int
	Elapsed float64 // simulated seconds since the start
	Steps   int     // physics steps taken during the day
	Wall    time.Duration
}

type Config struct {
	DaysPerSecond float64
	// MaxStep is the largest physics sub-step in seconds.
	MaxStep  float64
	FirstDay int
	LastDay  int
	// Budget is the wall time per tick of n sub-steps.
	Budget time.Duration
	// Unpaced runs without sleeping between steps.
	Unpaced bool
	// Ready, when set, holds the run in the starting state until it is
	// closed.
	Ready <-chan struct{}
}

func DefaultConfig() Config {
	return Config{
		DaysPerSecond: 1,
		MaxStep:       DefaultMaxStep,
		FirstDay:      1,
		LastDay:       365,
		Budget:        DefaultBudget,
	}
}

type Result struct {
	Days        int
	Steps       int
	Elapsed     float64
	Wall        time.Duration
	Interrupted bool
	Metrics     map[string]float64
}
