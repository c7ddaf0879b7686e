package metrics

import "github.com/san-kum/hoversim/internal/heli"

// Energy averages the specific kinetic energy of the observed motion,
// translational plus rotational with unit inertia.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(obs heli.Observation, a heli.Action, cost float64) {
	e.totalEnergy += KineticEnergy(obs)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// KineticEnergy of a single observation. Body-frame speeds equal world-frame
// speeds, so the value is frame independent.
func KineticEnergy(obs heli.Observation) float64 {
	ke := 0.0
	for _, v := range obs[0:3] {
		ke += 0.5 * v * v
	}
	for _, w := range obs[6:9] {
		ke += 0.5 * w * w
	}
	return ke
}
