package world

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

// PointMass is a massive body as seen by the gravity sum.
type PointMass struct {
	Entity   ecs.Entity
	Name     string
	Mass     float64
	Position r3.Vec
}

// Mover is a movable body at the start of a step.
type Mover struct {
	PointMass
	Velocity r3.Vec
}

// Snapshot is a consistent copy of the dynamic state.
type Snapshot struct {
	Massive []PointMass
	Movers  []Mover
}

// Update is the new state of one mover.
type Update struct {
	Entity   ecs.Entity
	Position r3.Vec
	Velocity r3.Vec
}

// Snapshot copies the massive and movable sets under the shared lock.
func (w *World) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var s Snapshot
	for _, e := range w.entities {
		if !w.masses.Has(e) || !w.positions.Has(e) {
			continue
		}
		pm := PointMass{
			Entity:   e,
			Name:     w.tags.Get(e).Name,
			Mass:     w.masses.Get(e).Value,
			Position: w.positions.Get(e).Vec,
		}
		s.Massive = append(s.Massive, pm)
		if w.velocities.Has(e) {
			s.Movers = append(s.Movers, Mover{PointMass: pm, Velocity: w.velocities.Get(e).Vec})
		}
	}
	return s
}

// Commit writes the updates in one exclusive critical section. When
// sampleTrails is set the trails are sampled inside the same section, after
// the positions they record.
func (w *World) Commit(updates []Update, sampleTrails bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, u := range updates {
		if _, ok := w.index[u.Entity]; !ok {
			continue
		}
		w.positions.Get(u.Entity).Vec = u.Position
		if w.velocities.Has(u.Entity) {
			w.velocities.Get(u.Entity).Vec = u.Velocity
		}
	}
	if sampleTrails {
		(&Txn{View{w: w}}).SampleTrails()
	}
}
