package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/san-kum/hoversim/internal/analysis"
	"github.com/san-kum/hoversim/internal/automation"
	"github.com/san-kum/hoversim/internal/control"
	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/heli"
	"github.com/san-kum/hoversim/internal/optim"
	"github.com/san-kum/hoversim/internal/storage"
	"github.com/spf13/cobra"
)

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	runner := automation.NewRunner(experiment.NewRegistry(), os.Stdout)
	results, err := runner.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		Seed:      cfg.Seed,
	})
	if err != nil {
		return err
	}

	survived, crashed := automation.MonteCarloStats(results)
	costs := make([]float64, len(results))
	for i, r := range results {
		costs[i] = r.TotalCost
	}

	fmt.Printf("\n%s, %s controller, noise x%.2f, %d trials from seed %d\n",
		cfg.Airframe, cfg.Controller, cfg.NoiseScale, len(results), cfg.Seed)
	fmt.Printf("survived: %d (%.1f%%)\n", survived, 100*float64(survived)/float64(len(results)))
	fmt.Printf("crashed:  %d\n\n", crashed)
	fmt.Printf("flight time  %s\n", analysis.Summarize(automation.FlightTimes(results)))
	fmt.Printf("total cost   %s\n", analysis.Summarize(costs))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	runner := automation.NewRunner(experiment.NewRegistry(), os.Stdout)
	results, err := runner.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:     cfg,
		Param:    param,
		Min:      paramMin,
		Max:      paramMax,
		NumSteps: numSteps,
		Episodes: episodes,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSURVIVED\tMEAN STEPS\tMEAN COST\tCOST STD\n", param)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%d/%d\t%.1f\t%.2f\t%.2f\n",
			r.Value, r.Survived, r.Episodes, r.Steps.Mean, r.Cost.Mean, r.Cost.StdDev)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	runner := automation.NewRunner(experiment.NewRegistry(), os.Stdout)
	steps, err := runner.RunScenario(context.Background(), scenario)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tAIRFRAME\tCTRL\tSURVIVED\tMEAN COST\tSAVED")
	for _, sr := range steps {
		saved := "-"
		if sr.Save {
			meta := storage.RunMetadata{
				Airframe:    sr.Config.Airframe,
				Controller:  sr.Config.Controller,
				Dt:          sr.Config.Dt,
				MaxSteps:    sr.Config.MaxSteps,
				NoiseScale:  sr.Config.NoiseScale,
				Renormalize: sr.Config.Renormalize,
				Overrides:   sr.Config.Overrides,
			}
			for i, res := range sr.Results {
				id, err := st.Save(meta, res)
				if err != nil {
					return err
				}
				if i == 0 {
					saved = id
				}
			}
			if len(sr.Results) > 1 {
				saved = fmt.Sprintf("%s (+%d)", saved, len(sr.Results)-1)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%.2f\t%s\n",
			sr.Name, sr.Config.Airframe, sr.Config.Controller, sr.Survived, len(sr.Results), sr.Cost.Mean, saved)
	}
	return w.Flush()
}

func searchTrim(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	af, err := cfg.ResolveAirframe()
	if err != nil {
		return err
	}

	center := control.NewTrim(af).Compute(heli.Observation{}, 0)
	for i, v := range cfg.ControllerParams.Action {
		center[i] = v
	}

	ranges := make([][]float64, len(channels))
	for i, name := range channels {
		idx, err := heli.ActionIndex(name)
		if err != nil {
			return err
		}
		ranges[i] = optim.Linspace(center[idx]-span, center[idx]+span, numSteps)
	}

	g, err := optim.NewGridSearch(channels, ranges)
	if err != nil {
		return err
	}
	g.Episodes = cfg.Episodes
	g.Seed = cfg.Seed

	registry := experiment.NewRegistry()
	build := func(a heli.Action, s int64) (*experiment.Experiment, error) {
		c := *cfg
		c.Controller = "constant"
		c.ControllerParams.Action = append([]float64(nil), a[:]...)
		return registry.Build(&c, s)
	}

	fmt.Printf("searching %d constant actions on %s (%d episode(s) each)...\n", g.Size(), cfg.Airframe, g.Episodes)
	best, score, evals, err := g.Search(context.Background(), center, build, "episode_cost")
	if err != nil {
		return err
	}

	sort.Slice(evals, func(i, j int) bool { return evals[i].Score < evals[j].Score })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AILERON\tELEVATOR\tRUDDER\tCOLLECTIVE\tMEAN COST")
	for _, e := range evals[:min(len(evals), 10)] {
		a := e.Action
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%.2f\n", a[0], a[1], a[2], a[3], e.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: %v (mean cost %.2f)\n", best, score)
	return nil
}
