package dynamo

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a position or velocity that is NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidTimestep indicates a negative integration step.
	ErrInvalidTimestep = errors.New("dynamo: timestep must not be negative")

	// ErrCoincidentBodies indicates two massive bodies sharing one position,
	// where the gravitational field is undefined.
	ErrCoincidentBodies = errors.New("dynamo: coincident massive bodies")

	// ErrEntityNotFound indicates a follow target that is not in the world.
	ErrEntityNotFound = errors.New("dynamo: entity not found")

	// ErrInvalidPacing indicates a non-positive production rate or sub-step.
	ErrInvalidPacing = errors.New("dynamo: invalid pacing parameters")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Bodies  []string
	Wrapped error
}

func (e *SimulationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "step %d (t=%.0fs)", e.Step, e.Time)
	if len(e.Bodies) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Bodies, ", "))
	}
	b.WriteString(": ")
	b.WriteString(e.Wrapped.Error())
	return b.String()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
