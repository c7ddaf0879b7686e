package automation

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/san-kum/hoversim/internal/analysis"
	"github.com/san-kum/hoversim/internal/config"
	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/heli"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of hover studies.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and applies the
// settings in Config on top of it.
type ScenarioStep struct {
	Name     string    `yaml:"name"`
	Airframe string    `yaml:"airframe"`
	Preset   string    `yaml:"preset"`
	Config   yaml.Node `yaml:"config"`
	Save     bool      `yaml:"save"`
}

// Resolve builds the run configuration of the step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	airframe := s.Airframe
	if airframe == "" {
		airframe = config.DefaultAirframe
	}

	cfg := config.DefaultConfig()
	cfg.Airframe = airframe
	if s.Preset != "" {
		cfg = config.GetPreset(airframe, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q for airframe %s", s.Preset, airframe)
		}
	}

	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// StepResult holds the episodes of one scenario step.
type StepResult struct {
	Name     string
	Config   *config.Config
	Results  []*experiment.Result
	Survived int
	Cost     analysis.Summary
	Save     bool
}

// Runner executes automated studies and writes progress lines to Out.
type Runner struct {
	Registry *experiment.Registry
	Out      io.Writer
	Workers  int
}

func NewRunner(registry *experiment.Registry, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{Registry: registry, Out: out}
}

func (r *Runner) episodes(ctx context.Context, cfg *config.Config, n int, seed int64) ([]*experiment.Result, error) {
	ens := experiment.NewEnsemble(func(s int64) (*experiment.Experiment, error) {
		return r.Registry.Build(cfg, s)
	}, n, seed)
	if r.Workers > 0 {
		ens.Workers = r.Workers
	}
	return ens.Run(ctx)
}

// RunScenario executes all steps in order. Each step runs cfg.Episodes
// episodes seeded from cfg.Seed.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	out := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return out, fmt.Errorf("step %d: %w", i+1, err)
		}

		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		fmt.Fprintf(r.Out, "Running step %d/%d: %s (%s, %s, %d episodes)\n",
			i+1, len(scenario.Steps), name, cfg.Airframe, cfg.Controller, cfg.Episodes)

		results, err := r.episodes(ctx, cfg, cfg.Episodes, cfg.Seed)
		if err != nil {
			return out, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Config: cfg, Results: results, Save: step.Save}
		costs := make([]float64, len(results))
		for j, res := range results {
			costs[j] = res.TotalCost
			if Survived(res, cfg.MaxSteps) {
				sr.Survived++
			}
		}
		sr.Cost = analysis.Summarize(costs)
		out = append(out, sr)
	}

	return out, nil
}

// Survived reports whether an episode used its whole step budget without
// leaving the flight envelope. The final snapshot is terminal because of the
// budget, so the envelope is checked again on it with the budget disabled.
func Survived(res *experiment.Result, maxSteps int) bool {
	if res.Steps < maxSteps || len(res.Errors) > 0 || len(res.Snapshots) == 0 {
		return false
	}
	final := res.Snapshots[len(res.Snapshots)-1]
	return !heli.IsTerminal(final, heli.DefaultLimits(), math.MaxInt)
}

// ParameterSweep varies one airframe coefficient over a linear range.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
	Episodes int
}

type SweepResult struct {
	Value    float64
	Survived int
	Episodes int
	Steps    analysis.Summary
	Cost     analysis.Summary
}

func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if _, err := heli.ParamIndex(sweep.Param); err != nil {
		return nil, err
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	episodes := max(sweep.Episodes, 1)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		value := sweep.Min + float64(i)*paramStep

		cfg := *sweep.Base
		cfg.Overrides = make(map[string]float64, len(sweep.Base.Overrides)+1)
		for k, v := range sweep.Base.Overrides {
			cfg.Overrides[k] = v
		}
		cfg.Overrides[sweep.Param] = value

		runs, err := r.episodes(ctx, &cfg, episodes, cfg.Seed)
		if err != nil {
			return results, err
		}

		sr := SweepResult{Value: value, Episodes: episodes}
		steps := make([]float64, len(runs))
		costs := make([]float64, len(runs))
		for j, res := range runs {
			steps[j] = float64(res.Steps)
			costs[j] = res.TotalCost
			if Survived(res, cfg.MaxSteps) {
				sr.Survived++
			}
		}
		sr.Steps = analysis.Summarize(steps)
		sr.Cost = analysis.Summarize(costs)
		results = append(results, sr)

		fmt.Fprintf(r.Out, "Sweep %d/%d: %s=%.4f survived %d/%d\n",
			i+1, sweep.NumSteps, sweep.Param, value, sr.Survived, episodes)
	}

	return results, nil
}

type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Seed      int64
}

type MonteCarloResult struct {
	TrialID    int
	Seed       int64
	Steps      int
	TotalCost  float64
	FinalState heli.State
	Survived   bool
}

// RunMonteCarlo runs NumTrials episodes with seeds Seed, Seed+1, ...
func (r *Runner) RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one trial, got %d", cfg.NumTrials)
	}

	runs, err := r.episodes(ctx, cfg.Base, cfg.NumTrials, cfg.Seed)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, len(runs))
	for trial, res := range runs {
		var final heli.State
		if n := len(res.Snapshots); n > 0 {
			final = res.Snapshots[n-1].State
		}

		results = append(results, MonteCarloResult{
			TrialID:    trial,
			Seed:       res.Seed,
			Steps:      res.Steps,
			TotalCost:  res.TotalCost,
			FinalState: final,
			Survived:   Survived(res, cfg.Base.MaxSteps),
		})

		if (trial+1)%10 == 0 {
			fmt.Fprintf(r.Out, "Monte Carlo: %d/%d trials complete\n", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts surviving and crashed trials.
func MonteCarloStats(results []MonteCarloResult) (survived int, crashed int) {
	for _, r := range results {
		if r.Survived {
			survived++
		} else {
			crashed++
		}
	}
	return
}

// FlightTimes returns the simulated flight time of every trial in seconds.
func FlightTimes(results []MonteCarloResult) []float64 {
	times := make([]float64, len(results))
	for i, r := range results {
		times[i] = float64(r.Steps) * heli.ControlPeriod
	}
	return times
}
