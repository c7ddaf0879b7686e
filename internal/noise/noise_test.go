package noise

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	vals []float64
	i    int
}

func (f *fixedSource) Float64() float64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func TestBoxMuller(t *testing.T) {
	// 1-x1 = e^-0.5 gives sqrt(1); 1-x2 = 0 gives cos(0).
	src := &fixedSource{vals: []float64{1 - math.Exp(-0.5), 1}}
	assert.InDelta(t, 1.0, BoxMuller(src), 1e-12)
}

func TestBoxMullerMoments(t *testing.T) {
	src := rand.New(rand.NewSource(7))
	const n = 200000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		x := BoxMuller(src)
		require.False(t, math.IsNaN(x) || math.IsInf(x, 0))
		sum += x
		sumSq += x * x
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	assert.InDelta(t, 0.0, mean, 0.01)
	assert.InDelta(t, 1.0, variance, 0.02)
}

func TestAdvanceZeroStd(t *testing.T) {
	src := rand.New(rand.NewSource(1))
	prev := Vector{1, -1, 2, -2, 0.5, 0}
	next := Advance(prev, Vector{}, src)
	for i := range prev {
		assert.InDelta(t, Decay*prev[i], next[i], 1e-15)
	}
}

func TestAdvanceDeterministic(t *testing.T) {
	std := Vector{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	a := Advance(Vector{}, std, rand.New(rand.NewSource(42)))
	b := Advance(Vector{}, std, rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}

func TestAdvanceIsColored(t *testing.T) {
	src := rand.New(rand.NewSource(3))
	std := Vector{1, 1, 1, 1, 1, 1}
	const n = 50000
	series := make([]float64, n)
	var v Vector
	for i := range series {
		v = Advance(v, std, src)
		series[i] = v[0]
	}

	var mean float64
	for _, x := range series {
		mean += x
	}
	mean /= n
	var num, den float64
	for i := range series {
		d := series[i] - mean
		den += d * d
		if i > 0 {
			num += d * (series[i-1] - mean)
		}
	}
	assert.InDelta(t, Decay, num/den, 0.02)

	// stationary variance of an AR(1) process: (Gain*Scale)^2 / (1 - Decay^2)
	want := (Gain * Scale) * (Gain * Scale) / (1 - Decay*Decay)
	assert.InDelta(t, want, den/n, 0.05*want)
}

func TestScaled(t *testing.T) {
	v := Vector{1, 2, 3, 4, 5, 6}.Scaled(0.5)
	assert.Equal(t, Vector{0.5, 1, 1.5, 2, 2.5, 3}, v)
}
