package experiment_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hoversim/internal/config"
	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/heli"
)

type countingObserver struct {
	steps []int
}

func (c *countingObserver) OnStep(step int, snap heli.Snapshot, a heli.Action, cost float64) {
	c.steps = append(c.steps, step)
}

var _ = Describe("Experiment", func() {
	var (
		registry *experiment.Registry
		cfg      *config.Config
	)

	BeforeEach(func() {
		registry = experiment.NewRegistry()
		cfg = config.DefaultConfig()
		cfg.MaxSteps = 40
	})

	It("refuses to run before setup", func() {
		_, err := experiment.New(experiment.Config{}).Run(context.Background())
		Expect(err).To(MatchError(experiment.ErrNotSetup))
	})

	It("records a full episode until the step budget", func() {
		cfg.Controller = "constant"
		cfg.NoiseScale = 0

		exp, err := registry.Build(cfg, 1)
		Expect(err).NotTo(HaveOccurred())
		obs := &countingObserver{}
		exp.AddObserver(obs)

		result, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Terminal).To(BeTrue())
		Expect(result.Steps).To(Equal(cfg.MaxSteps))
		Expect(result.Snapshots).To(HaveLen(cfg.MaxSteps + 1))
		Expect(result.Observations).To(HaveLen(cfg.MaxSteps + 1))
		Expect(result.Costs).To(HaveLen(cfg.MaxSteps + 1))
		Expect(result.Actions).To(HaveLen(cfg.MaxSteps))
		Expect(obs.steps).To(HaveLen(cfg.MaxSteps))
		Expect(obs.steps[0]).To(Equal(1))

		Expect(result.Metrics).To(HaveKey("episode_cost"))
		Expect(result.Metrics["episode_cost"]).To(BeNumerically("~", result.TotalCost, 1e-9))
		Expect(result.Times()[cfg.MaxSteps]).To(BeNumerically("~", float64(cfg.MaxSteps)*heli.ControlPeriod, 1e-9))
	})

	It("stops early when the helicopter leaves the envelope", func() {
		cfg.Controller = "none"
		cfg.MaxSteps = heli.DefaultMaxSteps

		exp, err := registry.Build(cfg, 2)
		Expect(err).NotTo(HaveOccurred())
		result, err := exp.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Terminal).To(BeTrue())
		Expect(result.Steps).To(BeNumerically("<", 50))

		last := result.Costs[len(result.Costs)-1]
		Expect(last).To(BeNumerically(">", result.Costs[len(result.Costs)-2]))
	})

	It("returns the partial result on cancellation", func() {
		exp, err := registry.Build(cfg, 3)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, err := exp.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.Steps).To(Equal(0))
		Expect(result.Snapshots).To(HaveLen(1))
	})

	It("rejects unknown controllers", func() {
		cfg.Controller = "autopilot"
		_, err := registry.Build(cfg, 1)
		Expect(err).To(HaveOccurred())
	})

	It("replays a recorded episode exactly", func() {
		cfg.Controller = "random"
		first, err := registry.Build(cfg, 7)
		Expect(err).NotTo(HaveOccurred())
		original, err := first.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		cfg.Controller = "replay"
		af, err := cfg.ResolveAirframe()
		Expect(err).NotTo(HaveOccurred())
		params := registry.ControllerParams(cfg, af, 8)
		params.Actions = original.Actions
		ctrl, err := registry.GetController("replay", params)
		Expect(err).NotTo(HaveOccurred())

		second, err := registry.Build(cfg, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Setup(second.GetSimulator(), ctrl, nil)).To(Succeed())
		replayed, err := second.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(replayed.Snapshots).To(Equal(original.Snapshots))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs independent seeded episodes in order", func() {
		registry := experiment.NewRegistry()
		cfg := config.DefaultConfig()
		cfg.MaxSteps = 30
		cfg.Controller = "random"

		build := func(seed int64) (*experiment.Experiment, error) { return registry.Build(cfg, seed) }

		results, err := experiment.NewEnsemble(build, 6, 100).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(6))
		for i, r := range results {
			Expect(r.Seed).To(Equal(int64(100 + i)))
		}

		again, err := experiment.NewEnsemble(build, 6, 100).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		for i := range results {
			Expect(again[i].Snapshots).To(Equal(results[i].Snapshots))
		}
		Expect(results[0].Snapshots).NotTo(Equal(results[1].Snapshots))
	})

	It("propagates build errors", func() {
		cfg := config.DefaultConfig()
		cfg.Airframe = "unknown"
		registry := experiment.NewRegistry()
		build := func(seed int64) (*experiment.Experiment, error) { return registry.Build(cfg, seed) }
		_, err := experiment.NewEnsemble(build, 2, 0).Run(context.Background())
		Expect(err).To(MatchError(heli.ErrUnknownAirframe))
	})
})
