package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	RMS    float64
	Median float64
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.4f std=%.4f min=%.4f max=%.4f rms=%.4f median=%.4f",
		s.N, s.Mean, s.StdDev, s.Min, s.Max, s.RMS, s.Median)
}

// Summarize computes descriptive statistics of data. StdDev is the unbiased
// sample deviation and is 0 for fewer than two samples.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}

	s := Summary{N: len(data)}
	s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	if len(data) < 2 {
		s.StdDev = 0
	}
	s.Min = floats.Min(data)
	s.Max = floats.Max(data)
	s.RMS = math.Sqrt(floats.Dot(data, data) / float64(len(data)))

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	return s
}

// Column extracts column idx from row-major trace data, skipping short rows.
func Column(rows [][]float64, idx int) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		if idx >= 0 && idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out
}
