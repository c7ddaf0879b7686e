package control

import "github.com/san-kum/hoversim/internal/heli"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Compute(obs heli.Observation, step int) heli.Action {
	return heli.Action{}
}

type Constant struct {
	Action heli.Action
}

func NewConstant(a heli.Action) *Constant {
	return &Constant{Action: a}
}

// NewTrim holds the collective that balances gravity for af.
func NewTrim(af heli.Airframe) *Constant {
	return &Constant{Action: heli.Action{heli.Collective: af.HoverCollective()}}
}

func (c *Constant) Compute(obs heli.Observation, step int) heli.Action {
	return c.Action
}
