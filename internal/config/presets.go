package config

import "sort"

var Presets = map[string]map[string]*Config{
	"xcell_tempest": {
		"hover": {
			Airframe: "xcell_tempest", Controller: "constant", Dt: 0.01, MaxSteps: 6000, NoiseScale: 1.0, Episodes: 1,
			ControllerParams: ControllerConfig{Trim: true},
		},
		"calm": {
			Airframe: "xcell_tempest", Controller: "constant", Dt: 0.01, MaxSteps: 6000, NoiseScale: 0.0, Episodes: 1,
			ControllerParams: ControllerConfig{Trim: true},
		},
		"gusty": {
			Airframe: "xcell_tempest", Controller: "constant", Dt: 0.01, MaxSteps: 6000, NoiseScale: 2.0, Episodes: 1,
			ControllerParams: ControllerConfig{Trim: true},
		},
		"explore": {
			Airframe: "xcell_tempest", Controller: "random", Dt: 0.01, MaxSteps: 1000, NoiseScale: 1.0, Episodes: 16,
			ControllerParams: ControllerConfig{Scale: 0.3, Trim: true},
		},
		"short": {
			Airframe: "xcell_tempest", Controller: "none", Dt: 0.01, MaxSteps: 100, NoiseScale: 1.0, Episodes: 1,
		},
		"fine": {
			Airframe: "xcell_tempest", Controller: "constant", Dt: 0.001, MaxSteps: 6000, NoiseScale: 1.0, Episodes: 1,
			Renormalize: true, ControllerParams: ControllerConfig{Trim: true},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(airframe, preset string) *Config {
	airframePresets, ok := Presets[airframe]
	if !ok {
		return nil
	}
	cfg, ok := airframePresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	c.ControllerParams.Action = append([]float64(nil), cfg.ControllerParams.Action...)
	if cfg.Overrides != nil {
		c.Overrides = make(map[string]float64, len(cfg.Overrides))
		for k, v := range cfg.Overrides {
			c.Overrides[k] = v
		}
	}
	return &c
}

func ListPresets(airframe string) []string {
	airframePresets, ok := Presets[airframe]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(airframePresets))
	for name := range airframePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
