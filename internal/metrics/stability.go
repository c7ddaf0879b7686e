package metrics

import (
	"math"

	"github.com/san-kum/hoversim/internal/heli"
)

// Stability is the fraction of steps whose body velocities and rates all stay
// below threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(obs heli.Observation, a heli.Action, cost float64) {
	s.samples++
	for _, i := range [...]int{0, 1, 2, 6, 7, 8} {
		if math.Abs(obs[i]) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
