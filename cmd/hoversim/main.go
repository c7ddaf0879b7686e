package main

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/hoversim/internal/config"
	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/heli"
	"github.com/san-kum/hoversim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	preset      string
	controller  string
	dt          float64
	maxSteps    int
	seed        int64
	noiseScale  float64
	renormalize bool
	episodes    int
	action      []float64
	randScale   float64
	overrides   map[string]string
	replayRun   string
	pngDir      string

	// analysis
	columns   []string
	column    string
	xAxis     string
	yAxis     string
	outDir    string
	divSteps  int
	divEps    float64
	benchRuns int

	// studies
	trials   int
	channels []string
	span     float64
	param    string
	paramMin float64
	paramMax float64
	numSteps int

	// live view
	theme    string
	gifPath  string
	tickRate time.Duration
)

// main registers the hoversim commands and runs the interactive preset menu
// when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "hoversim",
		Short: "helicopter hover simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(config.DefaultAirframe, experiment.NewRegistry())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hoversim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [airframe]",
		Short: "run hover episodes and save them",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEpisodes,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().IntVar(&episodes, "episodes", config.DefaultEpisodes, "number of episodes")
	runCmd.Flags().StringVar(&replayRun, "replay", "", "run id whose actions the replay controller plays back")
	runCmd.Flags().StringVar(&pngDir, "png", "", "also render plots of the first episode into this directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot columns of a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "columns", []string{"x", "y", "z", "cost"}, "columns to plot")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of two columns",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xAxis, "x-axis", "z", "column for the x axis")
	phaseCmd.Flags().StringVar(&yAxis, "y-axis", "w", "column for the y axis")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print the run trace as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print the full run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and statistics of one column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "w", "column to analyze")

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render PNG plots and an SVG ground track of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&outDir, "out", "", "output directory (default: the run directory)")

	stabilityCmd := &cobra.Command{
		Use:   "stability [airframe]",
		Short: "perturbation growth rates around the hover trim",
		Args:  cobra.MaximumNArgs(1),
		RunE:  stabilityReport,
	}
	stabilityCmd.Flags().IntVar(&divSteps, "steps", 100, "control steps per estimate")
	stabilityCmd.Flags().Float64Var(&divEps, "eps", 1e-6, "initial perturbation")

	liveCmd := &cobra.Command{
		Use:   "live [airframe]",
		Short: "fly an episode in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))
	liveCmd.Flags().StringVar(&gifPath, "gif", "hover.gif", "path for recorded GIFs")
	liveCmd.Flags().DurationVar(&tickRate, "tick", time.Duration(heli.ControlPeriod*float64(time.Second)), "wall time per control step")

	presetsCmd := &cobra.Command{
		Use:   "presets [airframe]",
		Short: "list presets of an airframe",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	airframesCmd := &cobra.Command{
		Use:   "airframes",
		Short: "list airframes and their coefficients",
		Args:  cobra.NoArgs,
		RunE:  listAirframes,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [airframe]",
		Short: "benchmark simulator throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchAirframe,
	}
	benchCmd.Flags().IntVar(&benchRuns, "steps", 10000, "control steps per measurement")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [airframe]",
		Short: "survival statistics over many seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addConfigFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")

	sweepCmd := &cobra.Command{
		Use:   "sweep [airframe]",
		Short: "sweep one airframe coefficient",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&param, "param", "w_coll", fmt.Sprintf("coefficient to sweep %v", heli.ParamNames()))
	sweepCmd.Flags().Float64Var(&paramMin, "min", -60, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", -20, "last value")
	sweepCmd.Flags().IntVar(&numSteps, "points", 5, "number of values")
	sweepCmd.Flags().IntVar(&episodes, "episodes", 8, "episodes per value")

	trimCmd := &cobra.Command{
		Use:   "trim [airframe]",
		Short: "grid search for the constant action with the lowest episode cost",
		Args:  cobra.MaximumNArgs(1),
		RunE:  searchTrim,
	}
	addConfigFlags(trimCmd)
	trimCmd.Flags().StringSliceVar(&channels, "channels", []string{"collective"}, fmt.Sprintf("channels to search %v", heli.ActionNames()))
	trimCmd.Flags().Float64Var(&span, "span", 0.1, "half width of each channel range around the trim")
	trimCmd.Flags().IntVar(&numSteps, "points", 5, "values per channel")
	trimCmd.Flags().IntVar(&episodes, "episodes", 1, "episodes per grid point")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		analyzeCmd, renderCmd, stabilityCmd, liveCmd, presetsCmd, airframesCmd, benchCmd,
		monteCarloCmd, sweepCmd, trimCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&controller, "controller", config.DefaultController, "action source")
	cmd.Flags().Float64Var(&dt, "dt", heli.DefaultDt, "integration sub-step")
	cmd.Flags().IntVar(&maxSteps, "steps", heli.DefaultMaxSteps, "control step budget per episode")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: from config or clock)")
	cmd.Flags().Float64Var(&noiseScale, "noise", config.DefaultNoiseScale, "noise standard deviation multiplier")
	cmd.Flags().BoolVar(&renormalize, "renormalize", false, "renormalize the orientation after every sub-step")
	cmd.Flags().Float64SliceVar(&action, "action", nil, "constant action: aileron,elevator,rudder,collective")
	cmd.Flags().Float64Var(&randScale, "scale", config.DefaultRandomScale, "random controller spread")
	cmd.Flags().StringToStringVar(&overrides, "set", nil, "override airframe coefficients, e.g. w_drag=-0.6")
}
