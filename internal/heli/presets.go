package heli

import (
	"fmt"
	"sort"

	"github.com/san-kum/hoversim/internal/noise"
)

// Airframe is a named coefficient set identified from flight data.
type Airframe struct {
	Name     string
	Params   Params
	NoiseStd noise.Vector
}

var Airframes = map[string]Airframe{
	"xcell_tempest": {
		Name:     "xcell_tempest",
		Params:   Params{-0.18, -0.43, -0.54, -0.49, -42.15, -12.78, 33.04, -10.12, -33.32, -8.16, 70.54},
		NoiseStd: noise.Vector{0.1941, 0.2975, 0.6058, 0.1508, 0.2492, 0.0734},
	},
}

func LookupAirframe(name string) (Airframe, error) {
	af, ok := Airframes[name]
	if !ok {
		return Airframe{}, fmt.Errorf("%w: %s (available: %v)", ErrUnknownAirframe, name, ListAirframes())
	}
	return af, nil
}

// RegisterAirframe adds or replaces a preset.
func RegisterAirframe(af Airframe) {
	Airframes[af.Name] = af
}

func ListAirframes() []string {
	names := make([]string, 0, len(Airframes))
	for name := range Airframes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HoverCollective is the collective setting whose thrust cancels gravity when
// level and at rest. It is zero for airframes without collective coupling.
func (af Airframe) HoverCollective() float64 {
	if af.Params[WColl] == 0 {
		return 0
	}
	return -Gravity / af.Params[WColl]
}
