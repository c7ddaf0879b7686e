// Package noise generates the colored disturbance that perturbs the
// helicopter's force and moment channels.
//
// Each channel follows a first-order autoregressive filter driven by
// standard-normal samples:
//
//	n[i] <- Decay*n[i] + Gain*N(0,1)*std[i]*Scale
//
// so consecutive values are correlated with lag-1 coefficient Decay.
package noise

import "math"

// Channels is the number of forced channels: three linear, three angular.
const Channels = 6

const (
	Decay = 0.8
	Gain  = 0.2
	Scale = 2.0
)

// Vector holds one value per channel.
type Vector [Channels]float64

// Source supplies uniform samples in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// BoxMuller draws a standard-normal sample from two uniform draws.
func BoxMuller(src Source) float64 {
	x1 := 1 - src.Float64()
	x2 := 1 - src.Float64()
	return math.Sqrt(-2*math.Log(x1)) * math.Cos(2*math.Pi*x2)
}

// Advance returns the next noise vector given the previous one.
// Channels are sampled in order, two uniform draws each.
func Advance(prev, std Vector, src Source) Vector {
	var next Vector
	for i, v := range prev {
		next[i] = Decay*v + Gain*BoxMuller(src)*std[i]*Scale
	}
	return next
}

// FromSlice copies up to Channels values from s.
func FromSlice(s []float64) Vector {
	var v Vector
	copy(v[:], s)
	return v
}

// Scaled returns std with every channel multiplied by f.
func (v Vector) Scaled(f float64) Vector {
	for i := range v {
		v[i] *= f
	}
	return v
}
