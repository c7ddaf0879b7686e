package config

import (
	"fmt"
	"os"

	"github.com/san-kum/hoversim/internal/heli"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAirframe    = "xcell_tempest"
	DefaultController  = "none"
	DefaultNoiseScale  = 1.0
	DefaultEpisodes    = 1
	DefaultRandomScale = 0.3
)

type Config struct {
	Airframe         string             `yaml:"airframe"`
	Controller       string             `yaml:"controller"`
	Dt               float64            `yaml:"dt"`
	MaxSteps         int                `yaml:"max_steps"`
	Seed             int64              `yaml:"seed"`
	Renormalize      bool               `yaml:"renormalize"`
	NoiseScale       float64            `yaml:"noise_scale"`
	Episodes         int                `yaml:"episodes"`
	ControllerParams ControllerConfig   `yaml:"controller_params"`
	Overrides        map[string]float64 `yaml:"overrides,omitempty"`
}

// ControllerConfig parameterizes the open-loop action sources.
type ControllerConfig struct {
	Action []float64 `yaml:"action"`
	Scale  float64   `yaml:"scale"`
	Trim   bool      `yaml:"trim"`
}

func DefaultConfig() *Config {
	return &Config{
		Airframe:   DefaultAirframe,
		Controller: DefaultController,
		Dt:         heli.DefaultDt,
		MaxSteps:   heli.DefaultMaxSteps,
		NoiseScale: DefaultNoiseScale,
		Episodes:   DefaultEpisodes,
		ControllerParams: ControllerConfig{
			Scale: DefaultRandomScale,
			Trim:  true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	if c.NoiseScale < 0 {
		return fmt.Errorf("noise_scale must not be negative, got %f", c.NoiseScale)
	}
	if c.Episodes <= 0 {
		return fmt.Errorf("episodes must be positive, got %d", c.Episodes)
	}
	if len(c.ControllerParams.Action) > heli.ActionDim {
		return fmt.Errorf("controller action has %d values, at most %d allowed", len(c.ControllerParams.Action), heli.ActionDim)
	}
	for name := range c.Overrides {
		if _, err := heli.ParamIndex(name); err != nil {
			return err
		}
	}
	return nil
}

// SimConfig converts the run settings into simulator settings.
func (c *Config) SimConfig() heli.Config {
	cfg := heli.DefaultConfig()
	cfg.Dt = c.Dt
	cfg.MaxSteps = c.MaxSteps
	cfg.Renormalize = c.Renormalize
	return cfg
}

// ResolveAirframe returns the configured airframe with the noise scale and
// coefficient overrides applied.
func (c *Config) ResolveAirframe() (heli.Airframe, error) {
	af, err := heli.LookupAirframe(c.Airframe)
	if err != nil {
		return heli.Airframe{}, err
	}
	af.NoiseStd = af.NoiseStd.Scaled(c.NoiseScale)
	for name, v := range c.Overrides {
		i, err := heli.ParamIndex(name)
		if err != nil {
			return heli.Airframe{}, err
		}
		af.Params[i] = v
	}
	return af, nil
}
