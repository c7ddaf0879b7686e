package experiment

import (
	"errors"

	"github.com/san-kum/hoversim/internal/heli"
)

// ErrNotSetup is returned by Run before Setup has been called.
var ErrNotSetup = errors.New("experiment: not setup")

// Controller supplies one action per control step.
type Controller interface {
	Compute(obs heli.Observation, step int) heli.Action
}

type Metric interface {
	Name() string
	Observe(obs heli.Observation, a heli.Action, cost float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, snap heli.Snapshot, a heli.Action, cost float64)
}

// Result records one episode. Index 0 of Snapshots, Observations and Costs is
// the reset state; Actions[i] produced Snapshots[i+1].
type Result struct {
	Snapshots    []heli.Snapshot
	Observations []heli.Observation
	Actions      []heli.Action
	Costs        []float64
	Metrics      map[string]float64
	Steps        int
	Terminal     bool
	TotalCost    float64
	Errors       []error
	Seed         int64
}

// Times returns the simulated time of every recorded snapshot.
func (r *Result) Times() []float64 {
	times := make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		times[i] = float64(s.Steps) * heli.ControlPeriod
	}
	return times
}

// Duration is the simulated flight time in seconds.
func (r *Result) Duration() float64 {
	return float64(r.Steps) * heli.ControlPeriod
}
