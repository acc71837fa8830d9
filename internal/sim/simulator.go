// Package sim paces the physics engine against wall time, day by day.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/gravity/internal/dynamo"
	"github.com/san-kum/gravity/internal/world"
)

type Simulator struct {
	world     *world.World
	stepper   Stepper
	metrics   []Metric
	observers []Observer
	log       *slog.Logger
}

func New(w *world.World, stepper Stepper, log *slog.Logger) *Simulator {
	if log == nil {
		log = slog.Default()
	}
	return &Simulator{
		world:     w,
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       log,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// run carries the loop state of one Run call.
type run struct {
	cfg      Config
	pacing   Pacing
	result   *Result
	day      int
	acc      float64 // simulated seconds into the current day
	since    float64 // simulated seconds since the last trail sample
	every    float64 // simulated seconds between trail samples
	dayWall  time.Time
	daySteps int
}

// Run drives the engine from cfg.FirstDay to cfg.LastDay. It returns early
// when the world is stopped by another task or ctx is cancelled; both count
// as a graceful stop and return a nil error. A failed step stops the world
// and is returned.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	pacing, err := NewPacing(cfg.DaysPerSecond, cfg.MaxStep)
	if err != nil {
		return nil, err
	}

	r := &run{
		cfg:    cfg,
		pacing: pacing,
		result: &Result{Metrics: make(map[string]float64)},
		day:    cfg.FirstDay,
		every:  dynamo.SecondsPerDay / s.world.TrailDensity(),
	}
	r.dayWall = time.Now()

	for _, m := range s.metrics {
		m.Reset()
	}

	if cfg.Ready != nil {
		select {
		case <-cfg.Ready:
		case <-s.world.Stopped():
		case <-ctx.Done():
		}
	}
	s.world.SetRunning()
	s.log.Info("simulation started", "pacing", pacing.String(), "first_day", cfg.FirstDay, "last_day", cfg.LastDay)

	s.observe(0)
	start := time.Now()
	defer func() { r.result.Wall = time.Since(start) }()

	for ; r.day <= cfg.LastDay; r.day++ {
		if s.halted(ctx) {
			return s.finish(r, true), nil
		}
		r.dayWall = time.Now()
		r.daySteps = 0
		for r.acc < dynamo.SecondsPerDay {
			if s.halted(ctx) {
				return s.finish(r, true), nil
			}
			if err := s.tick(ctx, r); err != nil {
				s.world.Stop()
				s.finish(r, false)
				return r.result, err
			}
		}
		r.acc -= dynamo.SecondsPerDay
		s.endDay(r)
	}

	r.day = cfg.LastDay
	return s.finish(r, false), nil
}

// tick runs one burst of n sub-steps, pacing each one against the budget.
func (s *Simulator) tick(ctx context.Context, r *run) error {
	n, dt := r.pacing.Steps, r.pacing.Timestep
	slot := r.cfg.Budget / time.Duration(n)
	for i := 0; i < n; i++ {
		begin := time.Now()
		r.since += dt
		var err error
		if r.since >= r.every {
			r.since -= r.every
			err = s.stepper.StepWithTrails(dt)
		} else {
			err = s.stepper.Step(dt)
		}
		if err != nil {
			return fmt.Errorf("day %d: %w", r.day, err)
		}
		r.acc += dt
		r.daySteps++
		r.result.Steps++
		r.result.Elapsed += dt
		if !r.cfg.Unpaced {
			sleepUntil(ctx, begin.Add(slot))
		}
	}
	return nil
}

func (s *Simulator) endDay(r *run) {
	r.result.Days++
	s.observe(r.result.Elapsed)
	rep := DayReport{Day: r.day, Elapsed: r.result.Elapsed, Steps: r.daySteps, Wall: time.Since(r.dayWall)}
	s.log.Debug("day complete",
		"day", r.day,
		"wall", rep.Wall,
		"steps_per_sec", float64(rep.Steps)/rep.Wall.Seconds(),
	)
	for _, o := range s.observers {
		o.OnDay(rep)
	}
}

func (s *Simulator) finish(r *run, interrupted bool) *Result {
	s.world.Stop()
	r.result.Interrupted = interrupted
	for _, m := range s.metrics {
		r.result.Metrics[m.Name()] = m.Value()
	}
	rep := DayReport{Day: r.day, Elapsed: r.result.Elapsed, Steps: r.daySteps, Wall: time.Since(r.dayWall)}
	for _, o := range s.observers {
		o.OnStop(rep)
	}
	s.log.Info("simulation stopped",
		"day", r.day,
		"days", r.result.Days,
		"steps", r.result.Steps,
		"interrupted", interrupted,
	)
	return r.result
}

func (s *Simulator) observe(t float64) {
	if len(s.metrics) == 0 {
		return
	}
	snap := s.world.Snapshot()
	for _, m := range s.metrics {
		m.Observe(snap, t)
	}
}

func (s *Simulator) halted(ctx context.Context) bool {
	if s.world.Status() == dynamo.Stopped {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.LastDay < cfg.FirstDay {
		return fmt.Errorf("last day %d before first day %d", cfg.LastDay, cfg.FirstDay)
	}
	if !cfg.Unpaced && cfg.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %v", cfg.Budget)
	}
	return nil
}

func sleepUntil(ctx context.Context, t time.Time) {
	d := time.Until(t)
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
