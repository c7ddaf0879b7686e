package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/san-kum/hoversim/internal/config"
	"github.com/san-kum/hoversim/internal/control"
	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/export"
	"github.com/san-kum/hoversim/internal/heli"
	"github.com/san-kum/hoversim/internal/storage"
	"github.com/san-kum/hoversim/internal/viz"
	"github.com/spf13/cobra"
)

func airframeArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.DefaultAirframe
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// resolveConfig layers the run settings: defaults (or the stored run named
// by --replay), then --preset, then --config, then any flag set on the
// command line. An airframe argument overrides the one named in the config
// file or the stored run.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	airframe := airframeArg(args)
	cfg := config.DefaultConfig()
	cfg.Airframe = airframe

	if replayRun != "" {
		meta, err := storage.New(dataDir).Load(replayRun)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", replayRun, err)
		}
		cfg = meta.ReplayConfig()
		if len(args) > 0 {
			cfg.Airframe = airframe
		}
	}

	if preset != "" {
		p := config.GetPreset(cfg.Airframe, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Airframe))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Airframe = airframe
		}
	}

	flags := cmd.Flags()
	if flags.Changed("controller") {
		cfg.Controller = controller
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("noise") {
		cfg.NoiseScale = noiseScale
	}
	if flags.Changed("renormalize") {
		cfg.Renormalize = renormalize
	}
	if flags.Changed("episodes") {
		cfg.Episodes = episodes
	}
	if flags.Changed("action") {
		cfg.ControllerParams.Action = action
	}
	if flags.Changed("scale") {
		cfg.ControllerParams.Scale = randScale
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	} else if cfg.Seed == 0 && replayRun == "" {
		cfg.Seed = time.Now().UnixNano()
	}

	if len(overrides) > 0 {
		merged := make(map[string]float64, len(cfg.Overrides)+len(overrides))
		for k, v := range cfg.Overrides {
			merged[k] = v
		}
		for name, raw := range overrides {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("--set %s: %w", name, err)
			}
			merged[name] = v
		}
		cfg.Overrides = merged
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRegistry returns the controller registry. With --replay the replay
// controller plays back the actions of a stored run.
func newRegistry(st *storage.Store) (*experiment.Registry, error) {
	registry := experiment.NewRegistry()
	if replayRun == "" {
		return registry, nil
	}
	actions, err := st.LoadActions(replayRun)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", replayRun, err)
	}
	registry.Register("replay", func(experiment.ControllerParams) experiment.Controller {
		return control.NewReplay(actions)
	})
	return registry, nil
}

func runEpisodes(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry, err := newRegistry(st)
	if err != nil {
		return err
	}

	fmt.Printf("running %s with %s controller (%d episode(s), seed %d)...\n",
		cfg.Airframe, cfg.Controller, cfg.Episodes, cfg.Seed)
	start := time.Now()

	ens := experiment.NewEnsemble(func(s int64) (*experiment.Experiment, error) {
		return registry.Build(cfg, s)
	}, cfg.Episodes, cfg.Seed)
	results, err := ens.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("completed in %v\n\n", elapsed)

	meta := storage.RunMetadata{
		Airframe:    cfg.Airframe,
		Controller:  cfg.Controller,
		Dt:          cfg.Dt,
		MaxSteps:    cfg.MaxSteps,
		NoiseScale:  cfg.NoiseScale,
		Renormalize: cfg.Renormalize,
		Overrides:   cfg.Overrides,
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSEED\tSTEPS\tFLIGHT\tTERMINAL\tCOST")
	ids := make([]string, len(results))
	for i, res := range results {
		id, err := st.Save(meta, res)
		if err != nil {
			return err
		}
		ids[i] = id
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1fs\t%v\t%.2f\n",
			id, res.Seed, res.Steps, res.Duration(), res.Terminal, res.TotalCost)
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "%s: %v\n", id, e)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) == 1 {
		fmt.Println("\nmetrics:")
		for _, name := range sortedKeys(results[0].Metrics) {
			fmt.Printf("  %s: %.6f\n", name, results[0].Metrics[name])
		}
	}

	if pngDir != "" && len(results) > 0 {
		files, err := export.SaveEpisodePNGs(pngDir, results[0])
		if err != nil {
			return err
		}
		fmt.Printf("\nplots of %s:\n", ids[0])
		for _, f := range files {
			fmt.Printf("  %s\n", f)
		}
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("controller") && preset == "" && configFile == "" {
		cfg.Controller = "manual"
	}

	m, err := viz.NewModelFromConfig(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	m = m.WithTheme(theme).WithGIFPath(gifPath).WithTick(tickRate)
	return viz.RunLive(m)
}

func benchAirframe(cmd *cobra.Command, args []string) error {
	af, err := heli.LookupAirframe(airframeArg(args))
	if err != nil {
		return err
	}

	dts := []float64{0.01, 0.005, 0.001}
	trim := control.NewTrim(af)

	fmt.Printf("benchmarking %s (%d control steps per row)\n\n", af.Name, benchRuns)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSUBSTEPS\tSTEPS\tRESETS\tTIME\tSTEPS/SEC")

	for _, d := range dts {
		cfg := heli.DefaultConfig()
		cfg.Dt = d
		sim, err := heli.New(af.Params[:], af.NoiseStd[:], cfg, nil)
		if err != nil {
			return err
		}

		obs, _ := sim.Reset()
		resets := 0
		start := time.Now()
		for i := 0; i < benchRuns; i++ {
			if sim.Terminal() {
				obs, _ = sim.Reset()
				resets++
			}
			obs, _ = sim.Update(trim.Compute(obs, sim.Steps()))
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%.4fs\t%d\t%d\t%d\t%v\t%.0f\n",
			d, cfg.Substeps(), benchRuns, resets, elapsed, float64(benchRuns)/elapsed.Seconds())
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	airframe := airframeArg(args)
	names := config.ListPresets(airframe)
	if len(names) == 0 {
		fmt.Printf("no presets for %s\n", airframe)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tCONTROLLER\tDT\tSTEPS\tNOISE\tEPISODES\tRENORM")
	for _, name := range names {
		p := config.GetPreset(airframe, name)
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%d\t%.1f\t%d\t%v\n",
			name, p.Controller, p.Dt, p.MaxSteps, p.NoiseScale, p.Episodes, p.Renormalize)
	}
	return w.Flush()
}

func listAirframes(cmd *cobra.Command, args []string) error {
	for _, name := range heli.ListAirframes() {
		af, err := heli.LookupAirframe(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s (hover collective %.4f)\n", af.Name, af.HoverCollective())

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for i, p := range heli.ParamNames() {
			fmt.Fprintf(w, "  %s\t%g\n", p, af.Params[i])
		}
		fmt.Fprintf(w, "  noise_std\t%v\n", af.NoiseStd)
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}
