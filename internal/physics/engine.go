package physics

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/san-kum/gravity/internal/dynamo"
	"github.com/san-kum/gravity/internal/integrators"
	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultMinChunk is the smallest number of movers handed to one worker.
const DefaultMinChunk = 8

type Engine struct {
	world    *world.World
	integ    integrators.Integrator
	minChunk int
	log      *slog.Logger

	buffers updatePool

	// Written by the stepping goroutine, read by any.
	steps   atomic.Int64
	elapsed atomic.Uint64 // float64 bits
}

type Option func(*Engine)

func WithIntegrator(i integrators.Integrator) Option {
	return func(e *Engine) { e.integ = i }
}

func WithMinChunk(n int) Option {
	return func(e *Engine) { e.minChunk = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func NewEngine(w *world.World, opts ...Option) *Engine {
	e := &Engine{
		world:    w,
		integ:    integrators.NewEulerRichardson(),
		minChunk: DefaultMinChunk,
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Step advances every movable body by dt seconds. A zero dt does nothing.
// On error nothing is written.
func (e *Engine) Step(dt float64) error {
	return e.step(dt, false)
}

// StepWithTrails is Step followed by a trail sample taken inside the same
// critical section as the commit.
func (e *Engine) StepWithTrails(dt float64) error {
	return e.step(dt, true)
}

// Steps is the number of committed steps.
func (e *Engine) Steps() int { return int(e.steps.Load()) }

// Elapsed is the simulated time in seconds covered by committed steps.
func (e *Engine) Elapsed() float64 { return math.Float64frombits(e.elapsed.Load()) }

func (e *Engine) step(dt float64, sampleTrails bool) error {
	if dt < 0 || math.IsNaN(dt) {
		return e.fail(nil, fmt.Errorf("dt=%v: %w", dt, dynamo.ErrInvalidTimestep))
	}
	if dt == 0 {
		return nil
	}

	snap := e.world.Snapshot()
	updates := e.buffers.Get(len(snap.Movers))
	defer e.buffers.Put(updates)

	err := dynamo.ParallelFor(len(snap.Movers), e.minChunk, func(start, end int) error {
		for i := start; i < end; i++ {
			m := &snap.Movers[i]
			field := func(r r3.Vec) (r3.Vec, error) {
				return Acceleration(snap.Massive, m.Entity, r)
			}
			r, v, err := e.integ.Step(m.Position, m.Velocity, dt, field)
			if err != nil {
				var ce *coincidenceError
				if errors.As(err, &ce) {
					return e.fail([]string{m.Name, ce.other}, dynamo.ErrCoincidentBodies)
				}
				return e.fail([]string{m.Name}, err)
			}
			if !finite(r) || !finite(v) {
				return e.fail([]string{m.Name}, dynamo.ErrInvalidState)
			}
			updates[i] = world.Update{Entity: m.Entity, Position: r, Velocity: v}
		}
		return nil
	})
	if err != nil {
		e.log.Error("step failed", "err", err)
		return err
	}

	e.world.Commit(updates, sampleTrails)
	e.steps.Add(1)
	e.elapsed.Store(math.Float64bits(e.Elapsed() + dt))
	return nil
}

func (e *Engine) fail(bodies []string, err error) error {
	return &dynamo.SimulationError{Step: e.Steps(), Time: e.Elapsed(), Bodies: bodies, Wrapped: err}
}

func finite(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}
