package control

import "github.com/san-kum/hoversim/internal/heli"

// Replay returns a recorded action sequence by step index. Steps past the end
// of the recording hold the last action.
type Replay struct {
	actions []heli.Action
}

func NewReplay(actions []heli.Action) *Replay {
	return &Replay{actions: actions}
}

func (r *Replay) Len() int { return len(r.actions) }

func (r *Replay) Compute(obs heli.Observation, step int) heli.Action {
	if len(r.actions) == 0 {
		return heli.Action{}
	}
	if step >= len(r.actions) {
		return r.actions[len(r.actions)-1]
	}
	if step < 0 {
		step = 0
	}
	return r.actions[step]
}
