package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/san-kum/gravity/internal/config"
	"github.com/san-kum/gravity/internal/export"
	"github.com/san-kum/gravity/internal/gui"
	"github.com/san-kum/gravity/internal/metrics"
	"github.com/san-kum/gravity/internal/physics"
	"github.com/san-kum/gravity/internal/render"
	"github.com/san-kum/gravity/internal/report"
	"github.com/san-kum/gravity/internal/sim"
	"github.com/san-kum/gravity/internal/storage"
	"github.com/san-kum/gravity/internal/viz"
	"github.com/san-kum/gravity/internal/world"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	driftHistory = 4096
	svgSize      = 1024
)

func runSimulation(cmd *cobra.Command, args []string) error {
	headless := frameRate == 0
	if !headless && uiMode != "tui" && uiMode != "window" {
		return fmt.Errorf("unknown ui %q (want tui or window)", uiMode)
	}
	format, err := report.ParseFormat(dumpFormat)
	if err != nil {
		return err
	}
	if frameRate < 0 {
		return fmt.Errorf("framerate must not be negative, got %d", frameRate)
	}
	if days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", days)
	}

	log, closeLog, err := newLogger(headless)
	if err != nil {
		return err
	}
	defer closeLog()

	ds, err := loadDataset(args)
	if err != nil {
		return err
	}

	radius := viewRadius
	if !cmd.Flags().Changed("radius") && ds.Defaults.ViewRadius > 0 {
		radius = ds.Defaults.ViewRadius
	}
	w := world.New(world.Options{
		ViewRadius:   radius,
		TrailDensity: ds.Defaults.TrailDensity,
		Logger:       log,
	})
	if _, err := w.Populate(ds.BodySpecs()); err != nil {
		return err
	}

	engine := physics.NewEngine(w, physics.WithLogger(log))
	simulator := sim.New(w, engine, log)
	drift := metrics.NewEnergyDrift(driftHistory)
	momentum := metrics.NewMomentumDrift()
	energy := metrics.NewEnergy()
	simulator.AddMetric(drift)
	simulator.AddMetric(momentum)
	simulator.AddMetric(energy)

	// The terminal UI owns stdout until it exits; dumps are held back.
	var dumpOut io.Writer = os.Stdout
	var held bytes.Buffer
	if !headless && uiMode == "tui" {
		dumpOut = &held
	}
	dump := report.NewDump(w, dumpOut, format, dumpEvery, log)
	simulator.AddObserver(dump)

	cfg := sim.DefaultConfig()
	cfg.DaysPerSecond = daysPerSecond
	cfg.LastDay = cfg.FirstDay + days - 1
	var ready chan struct{}
	if !headless {
		ready = make(chan struct{})
		cfg.Ready = ready
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	var result *sim.Result
	g.Go(func() error {
		res, err := simulator.Run(gctx, cfg)
		result = res
		return err
	})

	switch {
	case headless:
	case uiMode == "tui":
		g.Go(func() error {
			return viz.Run(gctx, w, viz.Options{
				FPS:      frameRate,
				FirstDay: cfg.FirstDay,
				Clock:    engine,
				Drift:    drift,
				Ready:    ready,
				Logger:   log,
			})
		})
	default:
		// raylib needs the main thread.
		err := gui.Run(gctx, w, gui.Options{
			FPS:      frameRate,
			FirstDay: cfg.FirstDay,
			Clock:    engine,
			Drift:    drift,
			Ready:    ready,
			Logger:   log,
		})
		if err != nil {
			w.Stop()
			return errors.Join(err, g.Wait())
		}
	}

	runErr := g.Wait()
	if held.Len() > 0 {
		if _, err := held.WriteTo(os.Stdout); err != nil {
			log.Error("flush dumps", "err", err)
		}
	}
	if runErr != nil {
		return runErr
	}
	if err := dump.Err(); err != nil {
		return err
	}

	if result != nil {
		log.Info("run summary",
			"days", result.Days,
			"steps", result.Steps,
			"wall", result.Wall,
			"interrupted", result.Interrupted,
			"energy_drift", result.Metrics[drift.Name()],
			"momentum_drift", result.Metrics[momentum.Name()],
			"mean_energy", result.Metrics[energy.Name()],
			"final_energy", drift.Current(),
		)
	}

	if savePath != "" {
		if err := saveState(w, ds, savePath); err != nil {
			return err
		}
		log.Info("saved final state", "path", savePath)
	}
	if recordRun && result != nil {
		id, err := recordResult(w, args, cfg, ds, result, drift)
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		log.Info("recorded run", "id", id, "dir", dataDir)
	}
	if svgPath != "" {
		frame := render.Capture(w, svgSize, svgSize, log)
		if err := os.WriteFile(svgPath, []byte(export.FrameToSVG(frame)), 0644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		log.Info("wrote final frame", "path", svgPath)
	}
	if plotDrift {
		if out := report.Plot(drift.History(), 80, 10, "energy drift per day"); out != "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
	}
	return nil
}

func loadDataset(args []string) (*config.Dataset, error) {
	switch {
	case preset != "" && len(args) > 0:
		return nil, errors.New("pass either a dataset file or --preset, not both")
	case preset != "":
		ds, err := config.GetPreset(preset)
		if err != nil {
			return nil, err
		}
		if ds == nil {
			return nil, fmt.Errorf("unknown preset %q, see 'gravity presets'", preset)
		}
		return ds, nil
	case len(args) == 0:
		return nil, &config.ConfigError{Kind: config.KindMissingFile, Err: errors.New("no dataset given")}
	}
	return config.Load(args[0])
}

func recordResult(w *world.World, args []string, cfg sim.Config, ds *config.Dataset, result *sim.Result, drift *metrics.EnergyDrift) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}

	name := preset
	if len(args) > 0 {
		name = args[0]
	}
	pacing, err := sim.NewPacing(cfg.DaysPerSecond, cfg.MaxStep)
	if err != nil {
		return "", err
	}
	meta := storage.RunMetadata{
		Dataset:       name,
		DaysPerSecond: cfg.DaysPerSecond,
		Timestep:      pacing.Timestep,
		Bodies:        ds.Len(),
		Days:          result.Days,
		Steps:         result.Steps,
		Elapsed:       result.Elapsed,
		WallSeconds:   result.Wall.Seconds(),
		Interrupted:   result.Interrupted,
		Metrics:       result.Metrics,
	}

	last := cfg.FirstDay + result.Days - 1
	history := drift.History()
	// The first observation is taken before the first day runs.
	first := cfg.FirstDay - 1 + result.Days + 1 - len(history)
	points := make([]storage.DriftPoint, len(history))
	for i, d := range history {
		points[i] = storage.DriftPoint{Day: first + i, Drift: d}
	}
	return st.Save(meta, report.Rows(w, last), points)
}

func saveState(w *world.World, ds *config.Dataset, path string) error {
	var bodies []world.Body
	w.Read(func(v *world.View) { bodies = v.Bodies() })
	out := config.FromBodies(ds.Defaults, w.TrailDensity(), bodies)
	if err := config.Save(path, out); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// newLogger writes to stderr when headless. With a front end up it writes
// to --log-file, or nowhere.
func newLogger(headless bool) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var out io.Writer = io.Discard
	closeFn := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	case headless:
		out = os.Stderr
	}

	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	return log, closeFn, nil
}
