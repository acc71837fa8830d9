package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravity/internal/dynamo"
)

func TestPacing(t *testing.T) {
	tests := []struct {
		dps      float64
		steps    int
		timestep float64
	}{
		{dps: 1, steps: 1, timestep: 86.4},
		{dps: 2, steps: 1, timestep: 172.8},
		{dps: 10, steps: 2, timestep: 432},
		{dps: 1000, steps: 145, timestep: 86400.0 / 145},
	}
	for _, tt := range tests {
		p, err := NewPacing(tt.dps, DefaultMaxStep)
		if err != nil {
			t.Fatalf("dps=%v: %v", tt.dps, err)
		}
		if p.Steps != tt.steps {
			t.Errorf("dps=%v: got %d steps, want %d", tt.dps, p.Steps, tt.steps)
		}
		if math.Abs(p.Timestep-tt.timestep) > 1e-9 {
			t.Errorf("dps=%v: got timestep %v, want %v", tt.dps, p.Timestep, tt.timestep)
		}
		if p.Timestep > DefaultMaxStep {
			t.Errorf("dps=%v: timestep %v exceeds max step", tt.dps, p.Timestep)
		}
		owed := p.DaysPerMs * dynamo.SecondsPerDay
		if math.Abs(p.PerTick()-owed) > 1e-9*owed {
			t.Errorf("dps=%v: n*timestep = %v, want %v", tt.dps, p.PerTick(), owed)
		}
	}
}

func TestPacingRejectsBadInput(t *testing.T) {
	for _, c := range [][2]float64{{0, 600}, {-1, 600}, {1, 0}, {math.NaN(), 600}, {math.Inf(1), 600}} {
		if _, err := NewPacing(c[0], c[1]); !errors.Is(err, dynamo.ErrInvalidPacing) {
			t.Errorf("NewPacing(%v, %v): got %v, want ErrInvalidPacing", c[0], c[1], err)
		}
	}
}
