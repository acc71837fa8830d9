package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gravity/internal/config"
	"github.com/san-kum/gravity/internal/storage"
)

func TestFlagAliases(t *testing.T) {
	for _, args := range [][]string{
		{"--dps", "2.5", "--fps", "0"},
		{"--days-per-second", "2.5", "--framerate", "0"},
		{"-d", "2.5", "-f", "0"},
	} {
		cmd := newRootCmd()
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if daysPerSecond != 2.5 || frameRate != 0 {
			t.Errorf("%v: got dps=%v fps=%d", args, daysPerSecond, frameRate)
		}
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(nil) != 0 {
		t.Error("nil error should exit 0")
	}
	if exitCode(errors.New("boom")) != 1 {
		t.Error("plain errors should exit 1")
	}
	wrapped := errors.Join(errors.New("ctx"), &config.ConfigError{Kind: config.KindPxRadius})
	if got := exitCode(wrapped); got != 8 {
		t.Errorf("expected 8, got %d", got)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHelpExitsZero(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "days-per-second") {
		t.Errorf("help should list flags:\n%s", out)
	}
}

func TestBadFlag(t *testing.T) {
	_, err := execute(t, "--no-such-flag")
	if exitCode(err) != 1 {
		t.Errorf("expected exit 1, got %d (%v)", exitCode(err), err)
	}
}

func TestMissingDataset(t *testing.T) {
	_, err := execute(t, "--fps", "0", filepath.Join(t.TempDir(), "missing.toml"))
	if exitCode(err) != 1 {
		t.Errorf("expected exit 1, got %d (%v)", exitCode(err), err)
	}
	_, err = execute(t, "--fps", "0", filepath.Join(t.TempDir(), "planets.ini"))
	if exitCode(err) != 1 {
		t.Errorf("missing file takes precedence over extension, got %d", exitCode(err))
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"NAME", "solar", "binary", "earth-moon"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHeadlessRunSaves(t *testing.T) {
	dir := t.TempDir()
	save := filepath.Join(dir, "final.yaml")
	_, err := execute(t,
		"--fps", "0",
		"--dps", "1000",
		"--days", "2",
		"--dump-every", "0",
		"--log-file", filepath.Join(dir, "run.log"),
		"--preset", "earth-moon",
		"--save", save,
		"--svg", filepath.Join(dir, "final.svg"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(save); err != nil {
		t.Fatalf("expected saved state: %v", err)
	}
	ds, err := config.Load(save)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 2 {
		t.Errorf("expected 2 bodies in checkpoint, got %d", ds.Len())
	}
	svg, err := os.ReadFile(filepath.Join(dir, "final.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "Moon") {
		t.Error("final frame should show the Moon")
	}
}

func TestRecordedRunIsListed(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "runs")
	_, err := execute(t,
		"--fps", "0",
		"--dps", "1000",
		"--days", "3",
		"--dump-every", "0",
		"--log-file", filepath.Join(dir, "run.log"),
		"--preset", "earth-moon",
		"--data", data,
		"--record",
	)
	if err != nil {
		t.Fatal(err)
	}

	runs, err := storage.New(data).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.Dataset != "earth-moon" || run.Days != 3 || run.Bodies != 2 {
		t.Errorf("unexpected metadata: %+v", run)
	}

	points, err := storage.New(data).LoadDrift(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 4 || points[0].Day != 0 || points[3].Day != 3 {
		t.Errorf("unexpected drift points: %+v", points)
	}

	out, err := execute(t, "runs", "--data", data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, run.ID) {
		t.Errorf("runs output missing %s:\n%s", run.ID, out)
	}

	out, err = execute(t, "runs", "show", run.ID, "--data", data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Moon") || !strings.Contains(out, "DAY 3") {
		t.Errorf("show output missing final state:\n%s", out)
	}
}
