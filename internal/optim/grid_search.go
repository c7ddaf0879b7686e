package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/heli"
)

// GridSearch evaluates every combination of constant action values and keeps
// the one with the lowest mean metric. Channels not searched keep the value
// from the base action.
type GridSearch struct {
	channels []int
	names    []string
	ranges   [][]float64

	// Episodes per grid point, seeded Seed, Seed+1, ...
	Episodes int
	Seed     int64
}

// Evaluation is one scored grid point.
type Evaluation struct {
	Action heli.Action
	Score  float64
}

func NewGridSearch(channels []string, ranges [][]float64) (*GridSearch, error) {
	if len(channels) == 0 || len(channels) != len(ranges) {
		return nil, fmt.Errorf("grid search needs one range per channel, got %d channels and %d ranges", len(channels), len(ranges))
	}
	g := &GridSearch{names: channels, ranges: ranges, Episodes: 1}
	for i, name := range channels {
		idx, err := heli.ActionIndex(name)
		if err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("empty range for %s", name)
		}
		g.channels = append(g.channels, idx)
	}
	return g, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs every grid point and returns the best action, its score and
// all evaluations in grid order.
func (g *GridSearch) Search(
	ctx context.Context,
	base heli.Action,
	buildExperiment func(a heli.Action, seed int64) (*experiment.Experiment, error),
	metricName string,
) (heli.Action, float64, []Evaluation, error) {
	best := math.Inf(1)
	bestAction := base
	evals := make([]Evaluation, 0, g.Size())

	err := g.searchRecursive(ctx, 0, base, buildExperiment, metricName, &best, &bestAction, &evals)
	return bestAction, best, evals, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current heli.Action,
	buildExperiment func(heli.Action, int64) (*experiment.Experiment, error),
	metricName string,
	best *float64,
	bestAction *heli.Action,
	evals *[]Evaluation,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.channels) {
		score, err := g.evaluate(ctx, current, buildExperiment, metricName)
		if err != nil {
			return err
		}
		*evals = append(*evals, Evaluation{Action: current, Score: score})
		if score < *best {
			*best = score
			*bestAction = current
		}
		return nil
	}

	for _, val := range g.ranges[depth] {
		next := current
		next[g.channels[depth]] = val
		if err := g.searchRecursive(ctx, depth+1, next, buildExperiment, metricName, best, bestAction, evals); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(
	ctx context.Context,
	a heli.Action,
	buildExperiment func(heli.Action, int64) (*experiment.Experiment, error),
	metricName string,
) (float64, error) {
	episodes := max(g.Episodes, 1)
	sum := 0.0
	for i := 0; i < episodes; i++ {
		exp, err := buildExperiment(a, g.Seed+int64(i))
		if err != nil {
			return 0, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return 0, err
		}
		val, ok := result.Metrics[metricName]
		if !ok {
			return 0, fmt.Errorf("unknown metric %q", metricName)
		}
		sum += val
	}
	return sum / float64(episodes), nil
}
