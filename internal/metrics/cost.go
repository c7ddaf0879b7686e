package metrics

import "github.com/san-kum/hoversim/internal/heli"

// EpisodeCost accumulates the per-step cost, including a terminal penalty.
type EpisodeCost struct {
	name  string
	total float64
}

func NewEpisodeCost() *EpisodeCost {
	return &EpisodeCost{name: "episode_cost"}
}

func (c *EpisodeCost) Name() string { return c.name }

func (c *EpisodeCost) Observe(obs heli.Observation, a heli.Action, cost float64) {
	c.total += cost
}

func (c *EpisodeCost) Value() float64 { return c.total }

func (c *EpisodeCost) Reset() { c.total = 0 }
