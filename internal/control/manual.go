package control

import (
	"sync"

	"github.com/san-kum/hoversim/internal/heli"
)

// Manual passes an interactively set action to the simulator. It is safe to
// set the action from a UI goroutine while the episode loop reads it.
type Manual struct {
	mu     sync.Mutex
	action heli.Action
	trim   heli.Action
}

func NewManual(trim heli.Action) *Manual {
	return &Manual{action: trim, trim: trim}
}

// Nudge adds delta to one channel and saturates it at the unit bound.
func (m *Manual) Nudge(channel int, delta float64) {
	if channel < 0 || channel >= heli.ActionDim {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.action[channel] += delta
	m.action = m.action.Clamp()
}

// Center returns every channel to the trim setting.
func (m *Manual) Center() {
	m.mu.Lock()
	m.action = m.trim
	m.mu.Unlock()
}

func (m *Manual) SetAction(a heli.Action) {
	m.mu.Lock()
	m.action = a
	m.mu.Unlock()
}

func (m *Manual) Action() heli.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.action
}

func (m *Manual) Compute(obs heli.Observation, step int) heli.Action {
	return m.Action()
}
