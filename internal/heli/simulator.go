package heli

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/hoversim/internal/noise"
)

// Simulator owns one episode of helicopter state.
type Simulator struct {
	params   Params
	noiseStd noise.Vector
	cfg      Config
	src      noise.Source
	snap     Snapshot
}

// New builds a simulator from 11 model coefficients and 6 noise magnitudes.
// A nil src uses a math/rand source seeded with 1. The returned simulator is
// already reset.
func New(params, noiseStd []float64, cfg Config, src noise.Source) (*Simulator, error) {
	if len(params) != ParamDim {
		return nil, fmt.Errorf("%w: expected %d params, got %d", ErrDimensionMismatch, ParamDim, len(params))
	}
	if len(noiseStd) != noise.Channels {
		return nil, fmt.Errorf("%w: expected %d noise magnitudes, got %d", ErrDimensionMismatch, noise.Channels, len(noiseStd))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = rand.New(rand.NewSource(1))
	}

	s := &Simulator{cfg: cfg, src: src}
	copy(s.params[:], params)
	copy(s.noiseStd[:], noiseStd)
	s.Reset()
	return s, nil
}

// MustNew is like New but panics on error.
func MustNew(params, noiseStd []float64, cfg Config, src noise.Source) *Simulator {
	s, err := New(params, noiseStd, cfg, src)
	if err != nil {
		panic(err)
	}
	return s
}

// NewFromAirframe builds a simulator from a registered preset.
func NewFromAirframe(name string, cfg Config, src noise.Source) (*Simulator, error) {
	af, err := LookupAirframe(name)
	if err != nil {
		return nil, err
	}
	return New(af.Params[:], af.NoiseStd[:], cfg, src)
}

// Reset starts a new episode.
func (s *Simulator) Reset() (Observation, float64) {
	s.snap = InitialSnapshot()
	return s.Observation(), s.Cost()
}

// Update applies a for one control period. Calling Update after the episode
// is terminal keeps integrating; the caller is expected to stop.
func (s *Simulator) Update(a Action) (Observation, float64) {
	s.snap.Noise = noise.Advance(s.snap.Noise, s.noiseStd, s.src)
	s.snap = Integrate(s.snap, s.params, a, s.cfg)
	if IsTerminal(s.snap, s.cfg.Limits, s.cfg.MaxSteps) {
		s.snap.Terminal = true
	}
	s.snap.Steps++
	return s.Observation(), s.Cost()
}

func (s *Simulator) Observation() Observation { return Observe(s.snap) }
func (s *Simulator) Cost() float64            { return Cost(s.snap, s.cfg.Limits, s.cfg.MaxSteps) }

func (s *Simulator) Terminal() bool { return s.snap.Terminal }
func (s *Simulator) Steps() int     { return s.snap.Steps }

func (s *Simulator) Config() Config         { return s.cfg }
func (s *Simulator) Params() Params         { return s.params }
func (s *Simulator) NoiseStd() noise.Vector { return s.noiseStd }

// Snapshot returns a copy of the episode state.
func (s *Simulator) Snapshot() Snapshot { return s.snap }

// Restore replaces the episode state with snap. The random source is not
// rewound, so noise after a restore differs from the original run.
func (s *Simulator) Restore(snap Snapshot) { s.snap = snap }
