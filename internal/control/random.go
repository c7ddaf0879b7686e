package control

import (
	"math/rand"

	"github.com/san-kum/hoversim/internal/heli"
)

// Random perturbs a base action with independent uniform samples in
// [-Scale, Scale] per channel.
type Random struct {
	Base  heli.Action
	Scale float64
	rng   *rand.Rand
}

func NewRandom(base heli.Action, scale float64, seed int64) *Random {
	return &Random{
		Base:  base,
		Scale: scale,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (r *Random) Compute(obs heli.Observation, step int) heli.Action {
	a := r.Base
	for i := range a {
		a[i] += (r.rng.Float64()*2 - 1) * r.Scale
	}
	return a
}
