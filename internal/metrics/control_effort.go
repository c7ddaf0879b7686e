package metrics

import (
	"math"

	"github.com/san-kum/hoversim/internal/heli"
)

// ControlEffort is the mean distance of the saturated action from the hover
// trim, summed over the four channels. A helicopter held at trim scores 0.
type ControlEffort struct {
	trim  heli.Action
	total float64
	steps int
}

// NewControlEffort measures effort against trim, usually
// heli.Action{Collective: af.HoverCollective()}.
func NewControlEffort(trim heli.Action) *ControlEffort {
	return &ControlEffort{trim: trim.Clamp()}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(obs heli.Observation, a heli.Action, cost float64) {
	for ch, v := range a.Clamp() {
		c.total += math.Abs(v - c.trim[ch])
	}
	c.steps++
}

func (c *ControlEffort) Value() float64 {
	if c.steps == 0 {
		return 0
	}
	return c.total / float64(c.steps)
}

func (c *ControlEffort) Reset() { c.total, c.steps = 0, 0 }
