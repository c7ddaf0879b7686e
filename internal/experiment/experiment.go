package experiment

import (
	"context"

	"github.com/san-kum/hoversim/internal/heli"
)

type Config struct {
	Airframe   string
	Controller string
	Seed       int64
	// ValidateState stops the episode when the state becomes NaN or Inf.
	ValidateState bool
}

// Experiment runs one episode of a simulator under a controller.
type Experiment struct {
	cfg        Config
	simulator  *heli.Simulator
	controller Controller
	metrics    []Metric
	observers  []Observer
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(sim *heli.Simulator, controller Controller, metrics []Metric) error {
	e.simulator = sim
	e.controller = controller
	e.metrics = metrics
	return nil
}

func (e *Experiment) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Run resets the simulator and steps it until the episode is terminal or ctx
// is done. A canceled run returns the partial result with ctx.Err().
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil || e.controller == nil {
		return nil, ErrNotSetup
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	budget := e.simulator.Config().MaxSteps
	result := &Result{
		Snapshots:    make([]heli.Snapshot, 0, budget+1),
		Observations: make([]heli.Observation, 0, budget+1),
		Actions:      make([]heli.Action, 0, budget),
		Costs:        make([]float64, 0, budget+1),
		Metrics:      make(map[string]float64),
		Errors:       make([]error, 0),
		Seed:         e.cfg.Seed,
	}

	obs, cost := e.simulator.Reset()
	result.Snapshots = append(result.Snapshots, e.simulator.Snapshot())
	result.Observations = append(result.Observations, obs)
	result.Costs = append(result.Costs, cost)

	for !e.simulator.Terminal() {
		select {
		case <-ctx.Done():
			e.finish(result)
			return result, ctx.Err()
		default:
		}

		a := e.controller.Compute(obs, e.simulator.Steps())
		obs, cost = e.simulator.Update(a)
		snap := e.simulator.Snapshot()

		if e.cfg.ValidateState {
			if err := snap.Validate(); err != nil {
				result.Errors = append(result.Errors, err)
				break
			}
		}

		for _, m := range e.metrics {
			m.Observe(obs, a, cost)
		}
		for _, o := range e.observers {
			o.OnStep(snap.Steps, snap, a, cost)
		}

		result.Snapshots = append(result.Snapshots, snap)
		result.Observations = append(result.Observations, obs)
		result.Actions = append(result.Actions, a)
		result.Costs = append(result.Costs, cost)
		result.TotalCost += cost
	}

	e.finish(result)
	return result, nil
}

func (e *Experiment) finish(result *Result) {
	result.Steps = e.simulator.Steps()
	result.Terminal = e.simulator.Terminal()
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// GetSimulator returns the underlying simulator.
func (e *Experiment) GetSimulator() *heli.Simulator {
	return e.simulator
}
