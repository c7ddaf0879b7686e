package heli_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hoversim/internal/heli"
	"github.com/san-kum/hoversim/internal/noise"
	"github.com/san-kum/hoversim/internal/quat"
)

var _ = Describe("Simulator", func() {
	var (
		af  heli.Airframe
		cfg heli.Config
	)

	BeforeEach(func() {
		var err error
		af, err = heli.LookupAirframe("xcell_tempest")
		Expect(err).NotTo(HaveOccurred())
		cfg = heli.DefaultConfig()
	})

	newSim := func(params heli.Params, std noise.Vector, seed int64) *heli.Simulator {
		return heli.MustNew(params[:], std[:], cfg, rand.New(rand.NewSource(seed)))
	}

	Describe("construction", func() {
		It("rejects a short parameter vector", func() {
			_, err := heli.New(af.Params[:10], af.NoiseStd[:], cfg, nil)
			Expect(err).To(MatchError(heli.ErrDimensionMismatch))
		})

		It("rejects a long noise vector", func() {
			_, err := heli.New(af.Params[:], append(af.NoiseStd[:], 0.1), cfg, nil)
			Expect(err).To(MatchError(heli.ErrDimensionMismatch))
		})

		It("rejects a non-positive timestep", func() {
			cfg.Dt = 0
			_, err := heli.New(af.Params[:], af.NoiseStd[:], cfg, nil)
			Expect(err).To(MatchError(heli.ErrInvalidConfig))
		})

		It("panics from MustNew on bad input", func() {
			Expect(func() { heli.MustNew(nil, nil, cfg, nil) }).To(Panic())
		})

		It("reports unknown airframes", func() {
			_, err := heli.NewFromAirframe("bell_47", cfg, nil)
			Expect(err).To(MatchError(heli.ErrUnknownAirframe))
		})
	})

	Describe("Reset", func() {
		It("returns the level hover state with zero cost", func() {
			sim := newSim(af.Params, af.NoiseStd, 1)
			for i := 0; i < 5; i++ {
				sim.Update(heli.Action{0.3, -0.2, 0.1, 0.5})
			}

			obs, cost := sim.Reset()
			Expect(cost).To(Equal(0.0))
			Expect(obs).To(Equal(heli.Observation{}))
			Expect(sim.Terminal()).To(BeFalse())
			Expect(sim.Steps()).To(Equal(0))

			snap := sim.Snapshot()
			Expect(snap.State).To(Equal(heli.State{}))
			Expect(snap.Orientation).To(Equal(quat.Identity))
			Expect(snap.Noise).To(Equal(noise.Vector{}))
		})
	})

	Describe("Update", func() {
		It("integrates pure gravity over one control period", func() {
			sim := newSim(heli.Params{}, noise.Vector{}, 1)
			sim.Update(heli.Action{})

			snap := sim.Snapshot()
			Expect(snap.State[heli.W]).To(BeNumerically("~", heli.Gravity*heli.ControlPeriod, 1e-9))
			Expect(snap.State[heli.U]).To(Equal(0.0))
			Expect(snap.State[heli.V]).To(Equal(0.0))
			Expect(snap.State[heli.X]).To(Equal(0.0))
			Expect(snap.State[heli.Z]).To(BeNumerically("<", 0.05))
			Expect(snap.Orientation).To(Equal(quat.Identity))
			Expect(sim.Steps()).To(Equal(1))
		})

		It("saturates actions at the unit bound", func() {
			a := newSim(af.Params, af.NoiseStd, 9)
			b := newSim(af.Params, af.NoiseStd, 9)

			a.Update(heli.Action{5, 0, 0, 0})
			b.Update(heli.Action{1, 0, 0, 0})

			Expect(a.Snapshot()).To(Equal(b.Snapshot()))
		})

		It("is reproducible for equal seeds", func() {
			a := newSim(af.Params, af.NoiseStd, 3)
			b := newSim(af.Params, af.NoiseStd, 3)
			for i := 0; i < 20; i++ {
				oa, ca := a.Update(heli.Action{0.1, 0.1, 0, af.HoverCollective()})
				ob, cb := b.Update(heli.Action{0.1, 0.1, 0, af.HoverCollective()})
				Expect(oa).To(Equal(ob))
				Expect(ca).To(Equal(cb))
			}
		})

		It("keeps observations finite and cost non-negative", func() {
			sim := newSim(af.Params, af.NoiseStd, 11)
			rng := rand.New(rand.NewSource(12))
			for i := 0; i < 300 && !sim.Terminal(); i++ {
				var a heli.Action
				for j := range a {
					a[j] = rng.Float64()*4 - 2
				}
				obs, cost := sim.Update(a)
				Expect(obs).To(HaveLen(heli.ObservationDim))
				for _, v := range obs {
					Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
				}
				Expect(cost).To(BeNumerically(">=", 0))
				Expect(math.IsInf(cost, 0)).To(BeFalse())
			}
		})

		It("keeps integrating after the episode is terminal", func() {
			sim := newSim(af.Params, noise.Vector{}, 1)
			for !sim.Terminal() {
				sim.Update(heli.Action{})
			}
			steps := sim.Steps()
			before := sim.Snapshot().State
			sim.Update(heli.Action{})
			Expect(sim.Steps()).To(Equal(steps + 1))
			Expect(sim.Snapshot().State).NotTo(Equal(before))
			Expect(sim.Terminal()).To(BeTrue())
		})
	})

	Describe("termination", func() {
		It("ends on the last step of the budget without leaving the envelope", func() {
			cfg.MaxSteps = 50
			sim := newSim(af.Params, noise.Vector{}, 1)
			trim := heli.Action{0, 0, 0, af.HoverCollective()}

			for i := 1; i < cfg.MaxSteps; i++ {
				sim.Update(trim)
				Expect(sim.Terminal()).To(BeFalse(), "step %d", i)
			}
			_, cost := sim.Update(trim)
			Expect(sim.Terminal()).To(BeTrue())
			Expect(sim.Steps()).To(Equal(cfg.MaxSteps))
			Expect(cost).To(Equal(0.0))

			snap := sim.Snapshot()
			for i, v := range snap.State {
				Expect(math.Abs(v)).To(BeNumerically("<=", cfg.Limits.State[i]))
			}
		})

		It("charges the boundary cost for every remaining step when the envelope is left", func() {
			sim := newSim(af.Params, noise.Vector{}, 1)
			var cost float64
			for !sim.Terminal() {
				_, cost = sim.Update(heli.Action{})
			}
			Expect(sim.Steps()).To(BeNumerically("<", 20))

			snap := sim.Snapshot()
			Expect(math.Abs(snap.State[heli.W])).To(BeNumerically(">", cfg.Limits.State[heli.W]))

			remaining := float64(cfg.MaxSteps - sim.Steps())
			Expect(cost).To(BeNumerically("~", heli.BoundaryCost(cfg.Limits)*remaining, 1e-6))
			Expect(cost).To(BeNumerically(">=", heli.StateCost(snap)))
		})

		It("never charges a negative cost for updates past the budget", func() {
			cfg.MaxSteps = 3
			sim := newSim(heli.Params{}, noise.Vector{}, 1)

			costs := make([]float64, 5)
			for i := range costs {
				_, costs[i] = sim.Update(heli.Action{})
			}
			Expect(sim.Terminal()).To(BeTrue())
			Expect(sim.Steps()).To(Equal(5))
			for i, c := range costs {
				Expect(c).To(BeNumerically(">=", 0), "update %d", i+1)
			}
			Expect(costs[2:]).To(Equal([]float64{0, 0, 0}))
		})

		It("ends when the tilt guard is crossed", func() {
			sim := newSim(af.Params, noise.Vector{}, 1)
			for !sim.Terminal() {
				sim.Update(heli.Action{1, 0, 0, af.HoverCollective()})
			}
			snap := sim.Snapshot()
			Expect(math.Abs(snap.Orientation[3])).To(BeNumerically("<", cfg.Limits.Tilt))
		})
	})

	Describe("snapshots", func() {
		It("restores an earlier episode state", func() {
			sim := newSim(af.Params, af.NoiseStd, 5)
			for i := 0; i < 3; i++ {
				sim.Update(heli.Action{0, 0, 0, af.HoverCollective()})
			}
			saved := sim.Snapshot()
			obs := sim.Observation()

			sim.Update(heli.Action{1, 1, 1, 1})
			Expect(sim.Snapshot()).NotTo(Equal(saved))

			sim.Restore(saved)
			Expect(sim.Snapshot()).To(Equal(saved))
			Expect(sim.Observation()).To(Equal(obs))
			Expect(sim.Steps()).To(Equal(3))
		})
	})

	Describe("renormalization", func() {
		It("keeps the orientation on the unit sphere", func() {
			cfg.Renormalize = true
			cfg.MaxSteps = 1 << 20
			cfg.Limits.Tilt = 0
			for i := range cfg.Limits.State {
				cfg.Limits.State[i] = math.Inf(1)
			}
			sim := newSim(heli.Params{}, noise.Vector{}, 1)
			snap := sim.Snapshot()
			snap.State[heli.P] = 3.0
			snap.State[heli.Q] = -2.0
			snap.State[heli.R] = 1.5
			sim.Restore(snap)

			for i := 0; i < 1000; i++ {
				sim.Update(heli.Action{})
			}
			Expect(sim.Snapshot().Orientation.Norm()).To(BeNumerically("~", 1.0, 1e-12))
		})
	})
})
