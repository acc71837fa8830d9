// Package report writes per-day state dumps of the movable bodies.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gocarina/gocsv"
	"github.com/san-kum/gravity/internal/sim"
	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown dump format %q (want table or csv)", s)
}

// Row is one movable body at the end of a day.
type Row struct {
	Day      int     `csv:"day"`
	Name     string  `csv:"name"`
	Mass     float64 `csv:"mass_yg"`
	X        float64 `csv:"x_gm"`
	Y        float64 `csv:"y_gm"`
	Z        float64 `csv:"z_gm"`
	VX       float64 `csv:"vx_kms"`
	VY       float64 `csv:"vy_kms"`
	VZ       float64 `csv:"vz_kms"`
	Distance float64 `csv:"r_gm"`
	Speed    float64 `csv:"v_kms"`
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Dump is a sim.Observer that writes the movable bodies every Every days
// and once more when the run stops.
type Dump struct {
	world  *world.World
	out    io.Writer
	format Format
	every  int
	log    *slog.Logger

	headerWritten bool
	lastElapsed   float64
	dumped        bool
	err           error
}

var _ sim.Observer = (*Dump)(nil)

// NewDump writes to out. every == 0 only dumps at the end of the run.
func NewDump(w *world.World, out io.Writer, format Format, every int, log *slog.Logger) *Dump {
	if log == nil {
		log = slog.Default()
	}
	return &Dump{world: w, out: out, format: format, every: every, log: log}
}

func (d *Dump) OnDay(r sim.DayReport) {
	if d.every <= 0 || r.Day%d.every != 0 {
		return
	}
	d.write(r)
}

func (d *Dump) OnStop(r sim.DayReport) {
	if d.dumped && r.Elapsed == d.lastElapsed {
		return
	}
	d.write(r)
}

// Err is the first write error, if any.
func (d *Dump) Err() error { return d.err }

func (d *Dump) write(r sim.DayReport) {
	if d.err != nil {
		return
	}
	rows := Rows(d.world, r.Day)
	var err error
	switch d.format {
	case FormatCSV:
		err = d.writeCSV(rows)
	default:
		_, err = io.WriteString(d.out, Table(r.Day, rows)+"\n")
	}
	if err != nil {
		d.err = fmt.Errorf("dump day %d: %w", r.Day, err)
		d.log.Error("dump failed", "day", r.Day, "err", err)
		return
	}
	d.dumped = true
	d.lastElapsed = r.Elapsed
}

func (d *Dump) writeCSV(rows []Row) error {
	if !d.headerWritten {
		if err := gocsv.Marshal(rows, d.out); err != nil {
			return err
		}
		d.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, d.out)
}

// Rows reads the movable bodies under the shared lock.
func Rows(w *world.World, day int) []Row {
	var rows []Row
	w.Read(func(v *world.View) {
		for _, b := range v.Bodies() {
			if !b.Movable {
				continue
			}
			rows = append(rows, Row{
				Day:      day,
				Name:     b.Name,
				Mass:     b.Mass,
				X:        b.Position.X,
				Y:        b.Position.Y,
				Z:        b.Position.Z,
				VX:       b.Velocity.X,
				VY:       b.Velocity.Y,
				VZ:       b.Velocity.Z,
				Distance: r3.Norm(b.Position),
				Speed:    r3.Norm(b.Velocity),
			})
		}
	})
	return rows
}

// Table renders rows under a "DAY n" title.
func Table(day int, rows []Row) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Obj name", "mass", "position", "velocity", "|r|", "|v|").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(
			r.Name,
			fmt.Sprintf("%.4g", r.Mass),
			formatVec(r.X, r.Y, r.Z),
			formatVec(r.VX, r.VY, r.VZ),
			fmt.Sprintf("%.3f", r.Distance),
			fmt.Sprintf("%.3f", r.Speed),
		)
	}
	return titleStyle.Render(fmt.Sprintf("DAY %d", day)) + "\n" + t.String()
}

func formatVec(x, y, z float64) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", x, y, z)
}
