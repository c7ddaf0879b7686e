package heli

import "github.com/san-kum/hoversim/internal/quat"

// Observe projects the world-frame state into the body frame.
func Observe(s Snapshot) Observation {
	var obs Observation
	vel := quat.InverseRotate(s.State.Velocity(), s.Orientation)
	pos := quat.InverseRotate(s.State.Position(), s.Orientation)
	copy(obs[0:3], vel[:])
	copy(obs[3:6], pos[:])
	copy(obs[6:9], s.State[P:])
	copy(obs[9:12], s.Orientation[:3])
	return obs
}

// StateCost is the squared deviation of s from level hover at the origin.
func StateCost(s Snapshot) float64 {
	sum := 0.0
	for _, v := range s.State {
		sum += v * v
	}
	for _, v := range s.Orientation[:3] {
		sum += v * v
	}
	return sum
}

// BoundaryCost is the per-step cost of a helicopter sitting on every limit.
func BoundaryCost(lim Limits) float64 {
	sum := 0.0
	for _, v := range lim.State {
		sum += v * v
	}
	return sum + 1 - lim.Tilt*lim.Tilt
}

// Cost returns StateCost while the episode runs. A terminal snapshot is
// charged BoundaryCost for every step left in the budget; once the budget is
// spent nothing is left to charge, so updates past it cost 0.
func Cost(s Snapshot, lim Limits, maxSteps int) float64 {
	if !s.Terminal {
		return StateCost(s)
	}
	return BoundaryCost(lim) * float64(max(maxSteps-s.Steps, 0))
}
