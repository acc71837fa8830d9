package world

import "gonum.org/v1/gonum/spatial/r3"

// Tag is the display name of a body.
type Tag struct {
	Name string
}

// Mass in 10^24 kg.
type Mass struct {
	Value float64
}

// Position in gigametres.
type Position struct {
	r3.Vec
}

// Velocity in km/s.
type Velocity struct {
	r3.Vec
}

// Color is a 0xRRGGBB value.
type Color struct {
	RGB uint32
}

// PxRadius is the on-screen radius in pixels.
type PxRadius struct {
	Value float64
}

// Trail is a fixed-capacity history of positions, newest first. Pushing a
// sample drops the oldest one, so the length never changes.
type Trail struct {
	points []r3.Vec
	head   int
}

// NewTrail returns a trail of the given capacity filled with start.
func NewTrail(capacity int, start r3.Vec) Trail {
	pts := make([]r3.Vec, capacity)
	for i := range pts {
		pts[i] = start
	}
	return Trail{points: pts}
}

// Len is the capacity of the trail.
func (t *Trail) Len() int { return len(t.points) }

// Push adds p at the front and evicts the back.
func (t *Trail) Push(p r3.Vec) {
	n := len(t.points)
	if n == 0 {
		return
	}
	t.head = (t.head - 1 + n) % n
	t.points[t.head] = p
}

// At returns the i-th sample, 0 being the newest.
func (t *Trail) At(i int) r3.Vec {
	return t.points[(t.head+i)%len(t.points)]
}

// Points copies the samples, newest first.
func (t *Trail) Points() []r3.Vec {
	out := make([]r3.Vec, len(t.points))
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}
