package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/gravity/internal/config"
	"github.com/san-kum/gravity/internal/export"
	"github.com/san-kum/gravity/internal/report"
	"github.com/san-kum/gravity/internal/storage"
	"github.com/san-kum/gravity/internal/world"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	daysPerSecond float64
	frameRate     int
	viewRadius    float64
	days          int
	dumpEvery     int
	dumpFormat    string
	uiMode        string
	preset        string
	savePath      string
	plotDrift     bool
	logFile       string
	logLevel      string
	dataDir       string
	recordRun     bool
	svgPath       string
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gravity: %v\n", err)
	}
	os.Exit(exitCode(err))
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gravity [dataset]",
		Short:         "real-time gravity simulation of a star system",
		Long:          "Simulates the bodies of a TOML, YAML or JSON dataset with Euler-Richardson steps paced against wall time.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSimulation,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravity", "run archive directory")

	f := rootCmd.Flags()
	f.SetNormalizeFunc(normalizeFlags)
	f.Float64VarP(&daysPerSecond, "days-per-second", "d", 1, "simulated days per wall-clock second (alias --dps)")
	f.IntVarP(&frameRate, "framerate", "f", 60, "frames per second, 0 runs headless (alias --fps)")
	f.Float64VarP(&viewRadius, "radius", "r", world.DefaultViewRadius, "initial view radius in Gm")
	f.IntVar(&days, "days", 365, "number of days to simulate")
	f.IntVar(&dumpEvery, "dump-every", 1, "dump every n days, 0 dumps only at the end")
	f.StringVar(&dumpFormat, "dump-format", "table", "dump format: table or csv")
	f.StringVar(&uiMode, "ui", "tui", "front end: tui or window")
	f.StringVar(&preset, "preset", "", "use a built-in dataset instead of a file")
	f.StringVar(&savePath, "save", "", "write the final state to a .toml or .yaml file")
	f.BoolVar(&plotDrift, "plot", false, "plot the energy drift after the run")
	f.StringVar(&logFile, "log-file", "", "log file, used while a front end owns the terminal")
	f.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	f.BoolVar(&recordRun, "record", false, "archive the run under --data")
	f.StringVar(&svgPath, "svg", "", "write the final frame as an SVG image")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in datasets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list archived runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "print the final state and energy drift of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&svgPath, "svg", "", "write the energy drift as an SVG chart")
	runsCmd.AddCommand(showCmd)
	rootCmd.AddCommand(presetsCmd, runsCmd)
	return rootCmd
}

// normalizeFlags maps the short long-form aliases onto their flags.
func normalizeFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "dps":
		name = "days-per-second"
	case "fps":
		name = "framerate"
	}
	return pflag.NormalizedName(name)
}

// exitCode is 0 on success, the category code for dataset errors and 1
// otherwise.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *config.ConfigError
	if errors.As(err, &ce) {
		return ce.ExitCode()
	}
	return 1
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tVIEW RADIUS")
	for _, name := range config.ListPresets() {
		ds, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		radius := "-"
		if ds.Defaults.ViewRadius > 0 {
			radius = fmt.Sprintf("%g Gm", ds.Defaults.ViewRadius)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, ds.Len(), radius)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATASET\tTIME\tDAYS\tDPS\tSTEPS\tDRIFT")
	for _, run := range runs {
		days := fmt.Sprintf("%d", run.Days)
		if run.Interrupted {
			days += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%d\t%.3e\n",
			run.ID,
			run.Dataset,
			run.Timestamp.Format("2006-01-02 15:04"),
			days,
			run.DaysPerSecond,
			run.Steps,
			run.Metrics["energy_drift"],
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}
	rows, err := st.LoadFinal(meta.ID)
	if err != nil {
		return err
	}
	points, err := st.LoadDrift(meta.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s  %d days  %d steps  wall %.1fs\n\n",
		meta.ID, meta.Dataset, meta.Days, meta.Steps, meta.WallSeconds)
	if len(rows) > 0 {
		fmt.Fprintln(out, report.Table(rows[0].Day, rows))
	}
	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = p.Drift
	}
	if plot := report.Plot(series, 80, 10, "energy drift per day"); plot != "" {
		fmt.Fprintln(out, plot)
	}
	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.DriftToSVG(series, 800, 300, "#ffff00")), 0644); err != nil {
			return err
		}
	}
	return nil
}
