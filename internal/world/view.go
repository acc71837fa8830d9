package world

import (
	"github.com/mlange-42/ark/ecs"
	"github.com/san-kum/gravity/internal/camera"
	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a copy of one body's attributes.
type Body struct {
	Entity   ecs.Entity
	Name     string
	Mass     float64
	Position r3.Vec
	Velocity r3.Vec
	Movable  bool
	Color    uint32
	PxRadius float64
	TrailLen int
}

// View reads the world under the shared lock. Component maps are only read
// here; queries, which touch the ECS bookkeeping, are kept to Txn.
type View struct {
	w *World
}

// Entities returns the bodies in creation order.
func (v *View) Entities() []ecs.Entity {
	return append([]ecs.Entity(nil), v.w.entities...)
}

func (v *View) Body(e ecs.Entity) (Body, bool) {
	if _, ok := v.w.index[e]; !ok {
		return Body{}, false
	}
	w := v.w
	b := Body{
		Entity:   e,
		Name:     w.tags.Get(e).Name,
		Color:    w.colors.Get(e).RGB,
		PxRadius: w.radii.Get(e).Value,
	}
	if w.masses.Has(e) {
		b.Mass = w.masses.Get(e).Value
	}
	if w.positions.Has(e) {
		b.Position = w.positions.Get(e).Vec
	}
	if w.velocities.Has(e) {
		b.Velocity = w.velocities.Get(e).Vec
		b.Movable = true
	}
	if w.trails.Has(e) {
		b.TrailLen = w.trails.Get(e).Len()
	}
	return b, true
}

// Bodies copies every body in creation order.
func (v *View) Bodies() []Body {
	out := make([]Body, 0, len(v.w.entities))
	for _, e := range v.w.entities {
		b, _ := v.Body(e)
		out = append(out, b)
	}
	return out
}

// Position implements camera.Source.
func (v *View) Position(e ecs.Entity) (r3.Vec, bool) {
	if _, ok := v.w.index[e]; !ok || !v.w.positions.Has(e) {
		return r3.Vec{}, false
	}
	return v.w.positions.Get(e).Vec, true
}

// CenterOfMass is the mass-weighted centroid of the massive bodies, or the
// zero vector when there is no mass. It implements camera.Source.
func (v *View) CenterOfMass() r3.Vec {
	var sum r3.Vec
	total := 0.0
	for _, e := range v.w.entities {
		if !v.w.masses.Has(e) || !v.w.positions.Has(e) {
			continue
		}
		m := v.w.masses.Get(e).Value
		sum = r3.Add(sum, r3.Scale(m, v.w.positions.Get(e).Vec))
		total += m
	}
	if total == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/total, sum)
}

// Trail copies the trail of e, newest first. It is nil when e has none.
func (v *View) Trail(e ecs.Entity) []r3.Vec {
	if _, ok := v.w.index[e]; !ok || !v.w.trails.Has(e) {
		return nil
	}
	return v.w.trails.Get(e).Points()
}

func (v *View) ViewRadius() float64 {
	return v.w.viewRadius
}

func (v *View) Rotation() camera.Rotation {
	return v.w.rotation
}

func (v *View) Follow() camera.Follow {
	return v.w.follow
}

// Origin resolves the current follow policy.
func (v *View) Origin() (r3.Vec, error) {
	return camera.Resolve(v, v.w.follow)
}

// Txn modifies the world under the exclusive lock.
type Txn struct {
	View
}

// SetViewRadius sets the view radius, clamped to its bounds.
func (tx *Txn) SetViewRadius(r float64) {
	tx.w.viewRadius = clamp(r, tx.w.minRadius, tx.w.maxRadius)
}

// Zoom changes the view radius by delta gigametres.
func (tx *Txn) Zoom(delta float64) {
	tx.SetViewRadius(tx.w.viewRadius + delta)
}

// Rotate turns the view by dz and dx steps.
func (tx *Txn) Rotate(dz, dx int) {
	tx.w.rotation = tx.w.rotation.Rotate(dz, dx)
}

// SetFollow switches the follow policy. Leaving a moving policy for a
// stationary one keeps the origin in place.
func (tx *Txn) SetFollow(next camera.Follow) error {
	f, err := camera.Switch(&tx.View, tx.w.follow, next)
	if err != nil {
		return err
	}
	tx.w.follow = f
	return nil
}

// Nudge moves the follow offset by a screen-space delta in gigametres.
func (tx *Txn) Nudge(screen r3.Vec) {
	tx.w.follow = camera.Nudge(tx.w.follow, screen, tx.w.rotation)
}

// SampleTrails pushes the current position of every trailed body.
func (tx *Txn) SampleTrails() {
	q := tx.w.trailed.Query()
	for q.Next() {
		pos, tr := q.Get()
		tr.Push(pos.Vec)
	}
}
