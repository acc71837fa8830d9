// Package camera resolves the viewing origin of the renderer and converts
// screen-relative input into world-space displacements.
package camera

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"github.com/san-kum/gravity/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Source is the world state a follow policy is resolved against.
type Source interface {
	Position(e ecs.Entity) (r3.Vec, bool)
	CenterOfMass() r3.Vec
}

// Follow is one of Stationary, CenterOfMass or Target.
type Follow interface {
	isFollow()
}

// Stationary keeps the origin at a fixed point.
type Stationary struct {
	Offset r3.Vec
}

// CenterOfMass tracks the mass-weighted centroid of all massive bodies.
type CenterOfMass struct {
	Offset r3.Vec
}

// Target tracks a single body.
type Target struct {
	Entity ecs.Entity
	Offset r3.Vec
}

func (Stationary) isFollow()   {}
func (CenterOfMass) isFollow() {}
func (Target) isFollow()       {}

// Resolve returns the absolute position of the viewing origin. It does not
// modify f.
func Resolve(src Source, f Follow) (r3.Vec, error) {
	switch f := f.(type) {
	case Stationary:
		return f.Offset, nil
	case CenterOfMass:
		return r3.Add(src.CenterOfMass(), f.Offset), nil
	case Target:
		p, ok := src.Position(f.Entity)
		if !ok {
			return r3.Vec{}, fmt.Errorf("follow target %v: %w", f.Entity, dynamo.ErrEntityNotFound)
		}
		return r3.Add(p, f.Offset), nil
	case nil:
		return r3.Vec{}, nil
	default:
		panic(fmt.Sprintf("camera: unknown follow policy %T", f))
	}
}

// Switch returns the policy that replaces cur when the user selects next.
// Leaving a moving policy for Stationary pins the origin where it was, so
// the view does not jump.
func Switch(src Source, cur, next Follow) (Follow, error) {
	if _, ok := next.(Stationary); !ok {
		return next, nil
	}
	switch cur.(type) {
	case CenterOfMass, Target:
		origin, err := Resolve(src, cur)
		if err != nil {
			return cur, err
		}
		return Stationary{Offset: origin}, nil
	}
	return next, nil
}

// Offset returns the offset carried by f.
func Offset(f Follow) r3.Vec {
	switch f := f.(type) {
	case Stationary:
		return f.Offset
	case CenterOfMass:
		return f.Offset
	case Target:
		return f.Offset
	}
	return r3.Vec{}
}

// WithOffset returns a copy of f with its offset replaced.
func WithOffset(f Follow, off r3.Vec) Follow {
	switch f := f.(type) {
	case CenterOfMass:
		f.Offset = off
		return f
	case Target:
		f.Offset = off
		return f
	}
	return Stationary{Offset: off}
}

// Nudge moves the offset of f by a screen-space delta. The delta is turned
// into world space with the reverse of the current view rotation.
func Nudge(f Follow, screen r3.Vec, rot Rotation) Follow {
	world := rot.Reverse().MulVec(screen)
	return WithOffset(f, r3.Add(Offset(f), world))
}

// Name is a short label for f.
func Name(f Follow) string {
	switch f.(type) {
	case CenterOfMass:
		return "center of mass"
	case Target:
		return "target"
	}
	return "stationary"
}

// NextTarget cycles the follow target through entities in order. Any
// non-target policy starts at the first entity. The offset is reset.
func NextTarget(f Follow, entities []ecs.Entity) Follow {
	if len(entities) == 0 {
		return f
	}
	t, ok := f.(Target)
	if !ok {
		return Target{Entity: entities[0]}
	}
	for i, e := range entities {
		if e == t.Entity {
			return Target{Entity: entities[(i+1)%len(entities)]}
		}
	}
	return Target{Entity: entities[0]}
}
