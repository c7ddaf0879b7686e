package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/hoversim/internal/config"
	"github.com/san-kum/hoversim/internal/control"
	"github.com/san-kum/hoversim/internal/heli"
	"github.com/san-kum/hoversim/internal/metrics"
)

// ControllerParams carries everything a controller factory may need.
type ControllerParams struct {
	Airframe heli.Airframe
	Base     heli.Action
	Scale    float64
	Seed     int64
	Actions  []heli.Action
}

type Registry struct {
	controllers map[string]func(ControllerParams) Controller
}

func NewRegistry() *Registry {
	r := &Registry{
		controllers: make(map[string]func(ControllerParams) Controller),
	}

	r.controllers["none"] = func(p ControllerParams) Controller { return control.NewNone() }
	r.controllers["constant"] = func(p ControllerParams) Controller { return control.NewConstant(p.Base) }
	r.controllers["random"] = func(p ControllerParams) Controller {
		return control.NewRandom(p.Base, p.Scale, p.Seed)
	}
	r.controllers["manual"] = func(p ControllerParams) Controller { return control.NewManual(p.Base) }
	r.controllers["replay"] = func(p ControllerParams) Controller { return control.NewReplay(p.Actions) }

	return r
}

// Register adds a controller factory, replacing any with the same name.
func (r *Registry) Register(name string, fn func(ControllerParams) Controller) {
	r.controllers[name] = fn
}

func (r *Registry) GetController(name string, params ControllerParams) (Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) ListControllers() []string {
	names := make([]string, 0, len(r.controllers))
	for name := range r.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the metrics recorded for every episode. Control
// effort is measured against the hover trim of af.
func (r *Registry) DefaultMetrics(af heli.Airframe) []Metric {
	return []Metric{
		metrics.NewEpisodeCost(),
		metrics.NewEnergy(),
		metrics.NewStability(1.0),
		metrics.NewControlEffort(heli.Action{heli.Collective: af.HoverCollective()}),
	}
}

// ControllerParams derives controller settings from a run config.
func (r *Registry) ControllerParams(cfg *config.Config, af heli.Airframe, seed int64) ControllerParams {
	p := ControllerParams{
		Airframe: af,
		Base:     heli.ActionFromSlice(cfg.ControllerParams.Action),
		Scale:    cfg.ControllerParams.Scale,
		Seed:     seed,
	}
	if cfg.ControllerParams.Trim && len(cfg.ControllerParams.Action) <= heli.Collective {
		p.Base[heli.Collective] = af.HoverCollective()
	}
	return p
}

// Build assembles a ready-to-run experiment for cfg. The simulator and the
// controller draw from independent streams derived from seed.
func (r *Registry) Build(cfg *config.Config, seed int64) (*Experiment, error) {
	af, err := cfg.ResolveAirframe()
	if err != nil {
		return nil, err
	}
	sim, err := heli.New(af.Params[:], af.NoiseStd[:], cfg.SimConfig(), rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	ctrl, err := r.GetController(cfg.Controller, r.ControllerParams(cfg, af, seed+1))
	if err != nil {
		return nil, err
	}

	exp := New(Config{
		Airframe:      cfg.Airframe,
		Controller:    cfg.Controller,
		Seed:          seed,
		ValidateState: true,
	})
	if err := exp.Setup(sim, ctrl, r.DefaultMetrics(af)); err != nil {
		return nil, err
	}
	return exp, nil
}
