package analysis

import (
	"math"

	"github.com/san-kum/hoversim/internal/heli"
	"github.com/san-kum/hoversim/internal/noise"
)

// dynamic lists the velocity and angular rate components. Position and
// orientation integrate these and are left out of the separation.
var dynamic = [...]int{heli.U, heli.V, heli.W, heli.P, heli.Q, heli.R}

// Divergence estimates the exponential growth rate, per second, of a small
// perturbation of state component idx along the noise-free trajectory that
// starts at start under the fixed action a. After every control step the
// perturbed copy is rescaled back to the initial separation and re-attached
// to the reference position and orientation.
func Divergence(
	p heli.Params,
	cfg heli.Config,
	a heli.Action,
	start heli.Snapshot,
	idx int,
	perturbation float64,
	steps int,
) float64 {
	if idx < 0 || idx >= heli.StateDim || perturbation <= 0 || steps <= 0 {
		return 0
	}

	ref := start
	ref.Noise = noise.Vector{}
	pert := ref
	pert.State[idx] += perturbation
	if separation(ref, pert) == 0 {
		return 0
	}

	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		ref = heli.Integrate(ref, p, a, cfg)
		pert = heli.Integrate(pert, p, a, cfg)

		sep := separation(ref, pert)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}
		sumLog += math.Log(sep / perturbation)
		count++

		next := ref
		scale := perturbation / sep
		for _, j := range dynamic {
			next.State[j] = ref.State[j] + (pert.State[j]-ref.State[j])*scale
		}
		pert = next
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * heli.ControlPeriod)
}

// DivergenceSpectrum runs Divergence once per state component. Position
// components always report 0.
func DivergenceSpectrum(
	p heli.Params,
	cfg heli.Config,
	a heli.Action,
	start heli.Snapshot,
	perturbation float64,
	steps int,
) []float64 {
	spectrum := make([]float64, heli.StateDim)
	for i := range spectrum {
		spectrum[i] = Divergence(p, cfg, a, start, i, perturbation, steps)
	}
	return spectrum
}

func separation(a, b heli.Snapshot) float64 {
	sum := 0.0
	for _, i := range dynamic {
		d := b.State[i] - a.State[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
