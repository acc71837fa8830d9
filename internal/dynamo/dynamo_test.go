package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 64, 1001} {
		var hits = make([]int32, n)
		err := ParallelFor(n, 4, func(start, end int) error {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("n=%d: unexpected error %v", n, err)
		}
		for i, h := range hits {
			if h != 1 {
				t.Errorf("n=%d: index %d visited %d times, want 1", n, i, h)
			}
		}
	}
}

func TestParallelForReturnsError(t *testing.T) {
	boom := errors.New("boom")
	err := ParallelFor(100, 1, func(start, end int) error {
		if start == 0 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}

func TestStatusFlagMonotonic(t *testing.T) {
	f := NewStatusFlag()
	if f.Load() != Starting {
		t.Fatalf("got %v, want starting", f.Load())
	}
	if !f.Advance(Running) {
		t.Fatal("starting -> running should advance")
	}
	select {
	case <-f.Running():
	default:
		t.Error("running channel not closed")
	}
	if f.Advance(Starting) || f.Advance(Running) {
		t.Error("flag moved backwards or repeated a transition")
	}
	if !f.Advance(Stopped) {
		t.Fatal("running -> stopped should advance")
	}
	select {
	case <-f.Stopped():
	default:
		t.Error("stopped channel not closed")
	}
	if f.Load() != Stopped {
		t.Errorf("got %v, want stopped", f.Load())
	}
}

func TestStatusFlagSkipRunning(t *testing.T) {
	f := NewStatusFlag()
	f.Advance(Stopped)
	select {
	case <-f.Running():
	default:
		t.Error("stopping from starting must release running waiters")
	}
}

func TestTrigTableWraps(t *testing.T) {
	tbl := NewTrigTable(256)
	s, c := tbl.SinCos(64)
	if math.Abs(s-1) > 1e-12 || math.Abs(c) > 1e-12 {
		t.Errorf("quarter turn: got (%v, %v), want (1, 0)", s, c)
	}
	s1, c1 := tbl.SinCos(-10)
	s2, c2 := tbl.SinCos(246)
	if s1 != s2 || c1 != c2 {
		t.Errorf("negative step did not wrap: (%v,%v) vs (%v,%v)", s1, c1, s2, c2)
	}
}

func TestSimulationErrorUnwrap(t *testing.T) {
	err := &SimulationError{Step: 3, Time: 1800, Bodies: []string{"Earth", "Moon"}, Wrapped: ErrCoincidentBodies}
	if !errors.Is(err, ErrCoincidentBodies) {
		t.Error("expected wrapped sentinel")
	}
	want := "step 3 (t=1800s) [Earth, Moon]: dynamo: coincident massive bodies"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
