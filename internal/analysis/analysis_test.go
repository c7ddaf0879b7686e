package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/hoversim/internal/heli"
)

func TestPowerSpectrumPeak(t *testing.T) {
	const n = 64
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 4 * float64(i) / n)
	}

	ps := PowerSpectrum(data)
	require.Len(t, ps, n/2)

	peak := 0
	for i := range ps {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	assert.Equal(t, 4, peak)
	assert.InDelta(t, n/2, ps[4], 1e-9)
}

func TestPowerSpectrumOddLength(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	ps := PowerSpectrum(data)
	require.Len(t, ps, 2)
	assert.InDelta(t, 15.0, ps[0], 1e-9)
}

func TestPowerSpectrumEmpty(t *testing.T) {
	assert.Empty(t, PowerSpectrum(nil))
}

func TestDominantFrequency(t *testing.T) {
	const n = 100
	rate := 10.0
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Cos(2*math.Pi*0.5*float64(i)/rate)
	}
	assert.InDelta(t, 0.5, DominantFrequency(data, rate), 1e-9)
}

func TestAutocorrelation(t *testing.T) {
	alt := []float64{1, -1, 1, -1, 1, -1, 1, -1}

	assert.InDelta(t, 1.0, Autocorrelation(alt, 0), 1e-12)
	assert.Less(t, Autocorrelation(alt, 1), -0.8)
	assert.Greater(t, Autocorrelation(alt, 2), 0.7)
	assert.Zero(t, Autocorrelation([]float64{2, 2, 2}, 1))
	assert.Zero(t, Autocorrelation(alt, len(alt)))
	assert.Zero(t, Autocorrelation(alt, -1))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4})

	assert.Equal(t, 4, s.N)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.StdDev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, math.Sqrt(7.5), s.RMS, 1e-12)
	assert.Equal(t, 2.0, s.Median)
	assert.Contains(t, s.String(), "n=4")
}

func TestSummarizeDegenerate(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	s := Summarize([]float64{7})
	assert.Equal(t, 7.0, s.Mean)
	assert.Zero(t, s.StdDev)
}

func TestColumn(t *testing.T) {
	rows := [][]float64{{1, 2}, {3}, {5, 6}}
	assert.Equal(t, []float64{2, 6}, Column(rows, 1))
	assert.Empty(t, Column(rows, -1))
}

func TestDivergenceDampedAxis(t *testing.T) {
	var p heli.Params
	p[heli.UDrag] = -0.5
	cfg := heli.DefaultConfig()

	rate := Divergence(p, cfg, heli.Action{}, heli.InitialSnapshot(), heli.U, 1e-6, 50)

	// du/dt = -0.5 u while level
	assert.InDelta(t, -0.5, rate, 0.05)

	assert.Zero(t, Divergence(p, cfg, heli.Action{}, heli.InitialSnapshot(), heli.X, 1e-6, 50))
}

func TestDivergenceInvalidInput(t *testing.T) {
	cfg := heli.DefaultConfig()
	var p heli.Params

	assert.Zero(t, Divergence(p, cfg, heli.Action{}, heli.InitialSnapshot(), heli.StateDim, 1e-6, 10))
	assert.Zero(t, Divergence(p, cfg, heli.Action{}, heli.InitialSnapshot(), heli.U, 0, 10))
	assert.Zero(t, Divergence(p, cfg, heli.Action{}, heli.InitialSnapshot(), heli.U, 1e-6, 0))
}

func TestDivergenceSpectrum(t *testing.T) {
	af, err := heli.LookupAirframe("xcell_tempest")
	require.NoError(t, err)

	var trim heli.Action
	trim[heli.Collective] = af.HoverCollective()

	spectrum := DivergenceSpectrum(af.Params, heli.DefaultConfig(), trim, heli.InitialSnapshot(), 1e-6, 20)
	require.Len(t, spectrum, heli.StateDim)
	for i, v := range spectrum {
		assert.False(t, math.IsNaN(v), "component %d", i)
	}
	// vertical drag is stabilizing
	assert.Less(t, spectrum[heli.W], 0.0)
}

func TestPhasePortrait(t *testing.T) {
	xs := []float64{-1, 0.5, 1, 2}
	ys := []float64{1, -0.5, -1}

	portrait := NewPhasePortrait("z", xs, "w", ys)
	require.Len(t, portrait.Points, 3)

	out := portrait.ASCII(20, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 12)
	assert.Equal(t, "w", lines[0])
	assert.Contains(t, out, "@")
	assert.Contains(t, out, "┼")

	assert.Empty(t, (&PhasePortrait2D{}).ASCII(20, 10))
}

func TestBounds(t *testing.T) {
	portrait := NewPhasePortrait("x", []float64{0, 10}, "y", []float64{5, 5})
	minX, maxX, minY, maxY := portrait.Bounds()

	assert.InDelta(t, -1.0, minX, 1e-12)
	assert.InDelta(t, 11.0, maxX, 1e-12)
	assert.InDelta(t, 4.9, minY, 1e-12)
	assert.InDelta(t, 5.1, maxY, 1e-12)
}

func TestCrossings(t *testing.T) {
	portrait := NewPhasePortrait("x", []float64{0, 1, 2, 3, 4}, "y", []float64{0, 10, 20, 30, 40})
	trigger := []float64{-1, 1, -1, 1, 2}

	points := portrait.Crossings(trigger, 0)
	require.Len(t, points, 2)
	assert.Equal(t, Point{X: 1, Y: 10}, points[0])
	assert.Equal(t, Point{X: 3, Y: 30}, points[1])
}
