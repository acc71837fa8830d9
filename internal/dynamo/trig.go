package dynamo

import "math"

// TrigTable holds sin/cos for n evenly spaced angles over a full turn.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// RotationTable resolves the 8-bit rotation counters, one entry per step.
var RotationTable = NewTrigTable(256)

// NewTrigTable creates a precomputed trig lookup table
func NewTrigTable(n int) *TrigTable {
	t := &TrigTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}

	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		t.sin[i] = math.Sin(angle)
		t.cos[i] = math.Cos(angle)
	}

	return t
}

// Len is the number of steps in a full turn.
func (t *TrigTable) Len() int { return t.n }

// Angle returns the angle in radians of step i.
func (t *TrigTable) Angle(i int) float64 {
	return float64(t.index(i)) * 2 * math.Pi / float64(t.n)
}

// SinCos returns sin and cos of step i. Steps wrap in both directions.
func (t *TrigTable) SinCos(i int) (sin, cos float64) {
	i = t.index(i)
	return t.sin[i], t.cos[i]
}

func (t *TrigTable) index(i int) int {
	i %= t.n
	if i < 0 {
		i += t.n
	}
	return i
}
