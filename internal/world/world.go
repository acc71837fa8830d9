// Package world holds the shared simulation state: the bodies, the camera
// parameters and the run status.
//
// Bodies and camera fields sit behind one readers-writer lock. Use [World.Read]
// for shared access and [World.Write] for exclusive access; the handles passed
// to the callbacks must not escape them. The run status is an atomic and may
// be read without the lock.
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/mlange-42/ark/ecs"
	"github.com/san-kum/gravity/internal/camera"
	"github.com/san-kum/gravity/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// View radius defaults, in gigametres.
var (
	DefaultViewRadius    = 1.1 * math.Sqrt2 * 149.6
	DefaultMinViewRadius = 0.01
	DefaultMaxViewRadius = 1e5
)

// DefaultTrailDensity is the number of trail samples per simulated day.
const DefaultTrailDensity = 5.0

var ErrInvalidBody = errors.New("world: invalid body")

// BodySpec describes a body to create.
type BodySpec struct {
	Name     string
	Mass     float64
	Position r3.Vec
	Velocity r3.Vec
	// Movable bodies get a Velocity component and are advanced by the
	// engine. Others only contribute gravity.
	Movable  bool
	Color    uint32
	PxRadius float64
	// TrailLen is the trail capacity. Zero means no trail.
	TrailLen int
}

type Options struct {
	ViewRadius    float64
	MinViewRadius float64
	MaxViewRadius float64
	TrailDensity  float64
	Logger        *slog.Logger
}

type World struct {
	mu  sync.RWMutex
	ecs *ecs.World

	// Append-only; entities are never removed.
	entities []ecs.Entity
	index    map[ecs.Entity]int

	base       *ecs.Map3[Tag, Color, PxRadius]
	tags       *ecs.Map1[Tag]
	masses     *ecs.Map1[Mass]
	positions  *ecs.Map1[Position]
	velocities *ecs.Map1[Velocity]
	colors     *ecs.Map1[Color]
	radii      *ecs.Map1[PxRadius]
	trails     *ecs.Map1[Trail]
	trailed    *ecs.Filter2[Position, Trail]

	viewRadius float64
	minRadius  float64
	maxRadius  float64
	rotation   camera.Rotation
	follow     camera.Follow

	density float64
	status  *dynamo.StatusFlag
	log     *slog.Logger
}

func New(opts Options) *World {
	if opts.ViewRadius <= 0 {
		opts.ViewRadius = DefaultViewRadius
	}
	if opts.MinViewRadius <= 0 {
		opts.MinViewRadius = DefaultMinViewRadius
	}
	if opts.MaxViewRadius <= 0 {
		opts.MaxViewRadius = DefaultMaxViewRadius
	}
	if opts.MaxViewRadius < opts.MinViewRadius {
		opts.MaxViewRadius = opts.MinViewRadius
	}
	if opts.TrailDensity <= 0 {
		opts.TrailDensity = DefaultTrailDensity
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	w := ecs.NewWorld()
	return &World{
		ecs:        w,
		index:      make(map[ecs.Entity]int),
		base:       ecs.NewMap3[Tag, Color, PxRadius](w),
		tags:       ecs.NewMap1[Tag](w),
		masses:     ecs.NewMap1[Mass](w),
		positions:  ecs.NewMap1[Position](w),
		velocities: ecs.NewMap1[Velocity](w),
		colors:     ecs.NewMap1[Color](w),
		radii:      ecs.NewMap1[PxRadius](w),
		trails:     ecs.NewMap1[Trail](w),
		trailed:    ecs.NewFilter2[Position, Trail](w),
		viewRadius: clamp(opts.ViewRadius, opts.MinViewRadius, opts.MaxViewRadius),
		minRadius:  opts.MinViewRadius,
		maxRadius:  opts.MaxViewRadius,
		follow:     camera.Stationary{},
		density:    opts.TrailDensity,
		status:     dynamo.NewStatusFlag(),
		log:        opts.Logger,
	}
}

// Populate creates one body per spec. It must be called before the run
// starts.
func (w *World) Populate(specs []BodySpec) ([]ecs.Entity, error) {
	if s := w.Status(); s != dynamo.Starting {
		return nil, fmt.Errorf("world: populate while %s: %w", s, dynamo.ErrInvalidState)
	}
	for _, s := range specs {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	created := make([]ecs.Entity, 0, len(specs))
	for _, s := range specs {
		e := w.base.NewEntity(&Tag{Name: s.Name}, &Color{RGB: s.Color}, &PxRadius{Value: s.PxRadius})
		w.masses.Add(e, &Mass{Value: s.Mass})
		w.positions.Add(e, &Position{s.Position})
		if s.Movable {
			w.velocities.Add(e, &Velocity{s.Velocity})
		}
		if s.TrailLen > 0 {
			tr := NewTrail(s.TrailLen, s.Position)
			w.trails.Add(e, &tr)
		}
		w.index[e] = len(w.entities)
		w.entities = append(w.entities, e)
		created = append(created, e)
		w.log.Debug("registered body", "name", s.Name, "movable", s.Movable, "trail", s.TrailLen)
	}
	return created, nil
}

func (s BodySpec) validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidBody)
	case !(s.Mass >= 0) || math.IsInf(s.Mass, 0):
		return fmt.Errorf("%w: %s: mass %v", ErrInvalidBody, s.Name, s.Mass)
	case !finite(s.Position) || !finite(s.Velocity):
		return fmt.Errorf("%w: %s: non-finite position or velocity", ErrInvalidBody, s.Name)
	case s.PxRadius < 0:
		return fmt.Errorf("%w: %s: negative px radius", ErrInvalidBody, s.Name)
	case s.TrailLen < 0:
		return fmt.Errorf("%w: %s: negative trail length", ErrInvalidBody, s.Name)
	}
	return nil
}

// Read runs fn while holding the shared lock.
func (w *World) Read(fn func(v *View)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	fn(&View{w: w})
}

// Write runs fn while holding the exclusive lock.
func (w *World) Write(fn func(tx *Txn)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&Txn{View{w: w}})
}

// Len is the number of bodies.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}

// TrailDensity is the number of trail samples taken per simulated day.
func (w *World) TrailDensity() float64 { return w.density }

func (w *World) Status() dynamo.Status { return w.status.Load() }

// SetRunning moves the world from starting to running. Population must be
// complete by then.
func (w *World) SetRunning() bool { return w.status.Advance(dynamo.Running) }

// Stop moves the world to stopped. Every task polls for it and exits.
func (w *World) Stop() bool { return w.status.Advance(dynamo.Stopped) }

// Running is closed once the world has left starting.
func (w *World) Running() <-chan struct{} { return w.status.Running() }

// Stopped is closed once the world is stopped.
func (w *World) Stopped() <-chan struct{} { return w.status.Stopped() }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
