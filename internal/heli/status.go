package heli

import "math"

// IsTerminal reports whether the episode ends at s: a state component is
// outside its limit, the tilt guard is crossed, or the next step would reach
// the step budget.
func IsTerminal(s Snapshot, lim Limits, maxSteps int) bool {
	for i, v := range s.State {
		if math.Abs(v) > lim.State[i] {
			return true
		}
	}
	if math.Abs(s.Orientation[3]) < lim.Tilt {
		return true
	}
	return s.Steps+1 >= maxSteps
}
