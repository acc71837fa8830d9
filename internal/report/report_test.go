package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/gravity/internal/sim"
	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
)

func newWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New(world.Options{})
	_, err := w.Populate([]world.BodySpec{
		{Name: "Sun", Mass: 1989000, PxRadius: 5},
		{Name: "Earth", Mass: 5.97, Position: r3.Vec{Y: 149.6}, Velocity: r3.Vec{X: 29.8}, Movable: true, PxRadius: 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("CSV"); err != nil || f != FormatCSV {
		t.Errorf("expected csv, got %q %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRows_MovableOnly(t *testing.T) {
	rows := Rows(newWorld(t), 7)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Name != "Earth" || r.Day != 7 {
		t.Errorf("unexpected row %+v", r)
	}
	if math.Abs(r.Distance-149.6) > 1e-9 || math.Abs(r.Speed-29.8) > 1e-9 {
		t.Errorf("expected |r|=149.6 |v|=29.8, got %f %f", r.Distance, r.Speed)
	}
}

func TestDump_Table(t *testing.T) {
	var buf bytes.Buffer
	d := NewDump(newWorld(t), &buf, FormatTable, 2, nil)

	d.OnDay(sim.DayReport{Day: 1, Elapsed: 86400})
	if buf.Len() != 0 {
		t.Fatal("day 1 should be skipped with every=2")
	}
	d.OnDay(sim.DayReport{Day: 2, Elapsed: 2 * 86400})
	out := buf.String()
	for _, want := range []string{"DAY 2", "Obj name", "Earth", "(0.000, 149.600, 0.000)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Sun") {
		t.Error("fixed body should not be dumped")
	}

	// Stop right after a dumped day does not repeat it.
	d.OnStop(sim.DayReport{Day: 2, Elapsed: 2 * 86400})
	if strings.Count(buf.String(), "DAY 2") != 1 {
		t.Error("final dump repeated the last day")
	}
	d.OnStop(sim.DayReport{Day: 3, Elapsed: 2.5 * 86400})
	if !strings.Contains(buf.String(), "DAY 3") {
		t.Error("expected final dump on stop")
	}
	if d.Err() != nil {
		t.Fatal(d.Err())
	}
}

func TestDump_CSV(t *testing.T) {
	var buf bytes.Buffer
	d := NewDump(newWorld(t), &buf, FormatCSV, 1, nil)
	d.OnDay(sim.DayReport{Day: 1, Elapsed: 86400})
	d.OnDay(sim.DayReport{Day: 2, Elapsed: 2 * 86400})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "day,name,mass_yg") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "2,Earth,") {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestDump_FinalOnly(t *testing.T) {
	var buf bytes.Buffer
	d := NewDump(newWorld(t), &buf, FormatTable, 0, nil)
	d.OnDay(sim.DayReport{Day: 1, Elapsed: 86400})
	if buf.Len() != 0 {
		t.Fatal("every=0 should not dump per day")
	}
	d.OnStop(sim.DayReport{Day: 1, Elapsed: 86400})
	if !strings.Contains(buf.String(), "DAY 1") {
		t.Error("expected final dump")
	}
}

func TestPlot(t *testing.T) {
	series := make([]float64, 500)
	for i := range series {
		series[i] = float64(i % 17)
	}
	out := Plot(series, 60, 5, "drift")
	if !strings.Contains(out, "drift") {
		t.Error("expected caption in plot")
	}
	if Plot(nil, 60, 5, "x") != "" {
		t.Error("expected empty plot for empty series")
	}
}
