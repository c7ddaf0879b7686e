package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the discrete
// Fourier transform of data. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return []float64{}
	}

	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// of data sampled at sampleRate.
func DominantFrequency(data []float64, sampleRate float64) float64 {
	ps := PowerSpectrum(Detrend(data))
	if len(ps) < 2 {
		return 0
	}

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}

	return float64(best) * sampleRate / float64(len(data))
}

// Detrend returns data with its mean removed.
func Detrend(data []float64) []float64 {
	if len(data) == 0 {
		return []float64{}
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

// Autocorrelation is the normalized autocorrelation of data at lag. It is 1
// at lag 0 and 0 for a constant or too-short series.
func Autocorrelation(data []float64, lag int) float64 {
	if lag < 0 || lag >= len(data) {
		return 0
	}

	centered := Detrend(data)
	var num, den float64
	for i, v := range centered {
		den += v * v
		if i+lag < len(centered) {
			num += v * centered[i+lag]
		}
	}

	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return num / den
}
