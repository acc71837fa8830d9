package render

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"github.com/san-kum/gravity/internal/camera"
	"github.com/san-kum/gravity/internal/dynamo"
	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
)

func newWorld(t *testing.T) (*world.World, []ecs.Entity) {
	t.Helper()
	w := world.New(world.Options{ViewRadius: 100})
	es, err := w.Populate([]world.BodySpec{
		{Name: "Sun", Mass: 1000, Color: 0xFFDD00, PxRadius: 8},
		{Name: "Rock", Mass: 1, Position: r3.Vec{X: 50}, Velocity: r3.Vec{Y: 3}, Movable: true, Color: 0x888888, PxRadius: 2, TrailLen: 4},
	})
	if err != nil {
		t.Fatal(err)
	}
	return w, es
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCapture_Projection(t *testing.T) {
	w, _ := newWorld(t)
	f := Capture(w, 200, 100, nil)

	if !near(f.Scale, 0.5) {
		t.Fatalf("expected scale 0.5, got %f", f.Scale)
	}
	if len(f.Bodies) != 2 {
		t.Fatalf("expected 2 sprites, got %d", len(f.Bodies))
	}
	sun, rock := f.Bodies[0], f.Bodies[1]
	if !near(sun.X, 100) || !near(sun.Y, 50) {
		t.Errorf("sun should be centered, got (%f, %f)", sun.X, sun.Y)
	}
	if !near(rock.X, 125) || !near(rock.Y, 50) {
		t.Errorf("rock expected at (125, 50), got (%f, %f)", rock.X, rock.Y)
	}
	if rock.Radius != 2 || rock.Color != 0x888888 {
		t.Errorf("unexpected sprite attrs %+v", rock)
	}
	if f.FollowName != "stationary" || f.Err != nil {
		t.Errorf("unexpected follow %q %v", f.FollowName, f.Err)
	}
}

func TestCapture_Rotation(t *testing.T) {
	w, _ := newWorld(t)
	// A quarter turn about z maps +x onto +y.
	w.Write(func(tx *world.Txn) { tx.Rotate(64, 0) })
	f := Capture(w, 200, 200, nil)
	x, y := f.ToScreen(r3.Vec{X: 50})
	if !near(x, 100) || !near(y, 150) {
		t.Errorf("expected (100, 150), got (%f, %f)", x, y)
	}
}

func TestCapture_FollowTarget(t *testing.T) {
	w, es := newWorld(t)
	w.Write(func(tx *world.Txn) {
		if err := tx.SetFollow(camera.Target{Entity: es[1]}); err != nil {
			t.Fatal(err)
		}
	})
	f := Capture(w, 200, 200, nil)
	if f.Origin != (r3.Vec{X: 50}) {
		t.Errorf("origin should be the target, got %v", f.Origin)
	}
	for _, r := range f.Relative {
		if r.Name == "Rock" && (r.Distance != 0 || r.Speed != 0) {
			t.Errorf("target should be at rest relative to itself, got %+v", r)
		}
		if r.Name == "Sun" && !near(r.Speed, 3) {
			t.Errorf("sun relative speed expected 3, got %f", r.Speed)
		}
	}
}

func TestCapture_Culls(t *testing.T) {
	w, _ := newWorld(t)
	w.Write(func(tx *world.Txn) { tx.SetViewRadius(1) })
	f := Capture(w, 100, 100, nil)
	if len(f.Bodies) != 1 || f.Bodies[0].Name != "Sun" {
		t.Errorf("expected only the sun on screen, got %+v", f.Bodies)
	}
	if len(f.Relative) != 2 {
		t.Errorf("relative table should list every body, got %d", len(f.Relative))
	}
}

func TestCapture_Trail(t *testing.T) {
	w, _ := newWorld(t)
	f := Capture(w, 200, 200, nil)
	if len(f.Trails) != 3 {
		t.Fatalf("expected 3 segments for 4 trail points, got %d", len(f.Trails))
	}
	for i := 1; i < len(f.Trails); i++ {
		if f.Trails[i].Alpha >= f.Trails[i-1].Alpha {
			t.Errorf("alpha should fade along the trail: %d then %d", f.Trails[i-1].Alpha, f.Trails[i].Alpha)
		}
	}
}

func TestTrailAlpha(t *testing.T) {
	if a := TrailAlpha(0, 10); a != 200 {
		t.Errorf("expected 200 at the head, got %d", a)
	}
	if a := TrailAlpha(10, 10); a != 1 {
		t.Errorf("expected 1 at the tail, got %d", a)
	}
}

func TestApply(t *testing.T) {
	w, es := newWorld(t)

	if err := Apply(w, KeyAction("+")); err != nil {
		t.Fatal(err)
	}
	if err := Apply(w, KeyAction("left")); err != nil {
		t.Fatal(err)
	}
	if err := Apply(w, KeyAction("tab")); err != nil {
		t.Fatal(err)
	}
	w.Read(func(v *world.View) {
		if v.ViewRadius() != 90 {
			t.Errorf("expected view radius 90, got %f", v.ViewRadius())
		}
		tgt, ok := v.Follow().(camera.Target)
		if !ok || tgt.Entity != es[0] {
			t.Errorf("expected first body targeted, got %v", v.Follow())
		}
	})

	if err := Apply(w, KeyAction("s")); err != nil {
		t.Fatal(err)
	}
	w.Read(func(v *world.View) {
		if _, ok := v.Follow().(camera.Stationary); !ok {
			t.Errorf("expected stationary, got %T", v.Follow())
		}
	})

	if KeyAction("F13") != ActNone {
		t.Error("unknown keys should map to no action")
	}
	if err := Apply(w, KeyAction("q")); err != nil {
		t.Fatal(err)
	}
	if w.Status() != dynamo.Stopped {
		t.Errorf("quit should stop the world, got %s", w.Status())
	}
}

func TestApply_NudgeKeepsOffset(t *testing.T) {
	w, _ := newWorld(t)
	if err := Apply(w, ActNudgeDown); err != nil {
		t.Fatal(err)
	}
	f := Capture(w, 100, 100, nil)
	if f.Origin != (r3.Vec{Y: NudgeStep}) {
		t.Errorf("expected origin moved by one step, got %v", f.Origin)
	}
	if f.Err != nil {
		t.Error(f.Err)
	}
}
