package config

import (
	"fmt"
	"os"

	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCount       = 50
	DefaultSize        = 2.0
	DefaultMass        = 1.0
	DefaultTemperature = 1.0
	DefaultBoxMin      = 0.0
	DefaultBoxMax      = 1.0
	DefaultDt          = 0.001
	DefaultSteps       = 5000
	DefaultSampleEvery = 10

	// SizeUnit converts particle_sizes entries to radii.
	SizeUnit = 0.01
)

type Config struct {
	Name            string       `yaml:"name,omitempty"`
	ParticleNumbers SpeciesInt   `yaml:"particle_numbers"`
	ParticleSizes   SpeciesFloat `yaml:"particle_sizes"`
	ParticleMasses  SpeciesFloat `yaml:"particle_masses"`
	GasTemperatures SpeciesFloat `yaml:"gas_temperatures"`
	BoxDimensions   BoxConfig    `yaml:"box_dimensions"`
	Simulation      SimParams    `yaml:"simulation_parameters"`
	Divider         bool         `yaml:"divider"`
	RemoveDividerAt int          `yaml:"remove_divider_at"`
	SampleEvery     int          `yaml:"sample_every"`
	Seed            int64        `yaml:"seed"`
}

type SpeciesInt struct {
	A int `yaml:"a"`
	B int `yaml:"b"`
}

type SpeciesFloat struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
}

type BoxConfig struct {
	Min float64 `yaml:"box_min"`
	Max float64 `yaml:"box_max"`
}

type SimParams struct {
	Dt    float64 `yaml:"dt"`
	Steps int     `yaml:"steps"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:            "gas",
		ParticleNumbers: SpeciesInt{A: DefaultCount, B: DefaultCount},
		ParticleSizes:   SpeciesFloat{A: DefaultSize, B: DefaultSize},
		ParticleMasses:  SpeciesFloat{A: DefaultMass, B: DefaultMass},
		GasTemperatures: SpeciesFloat{A: DefaultTemperature, B: DefaultTemperature},
		BoxDimensions:   BoxConfig{Min: DefaultBoxMin, Max: DefaultBoxMax},
		Simulation:      SimParams{Dt: DefaultDt, Steps: DefaultSteps},
		Divider:         true,
		RemoveDividerAt: -1,
		SampleEvery:     DefaultSampleEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Setup converts the file parameters into an initial gas description.
func (c *Config) Setup() physics.Setup {
	return physics.Setup{
		Species: [2]physics.Species{
			physics.SpeciesA: {
				Count:       c.ParticleNumbers.A,
				Radius:      c.ParticleSizes.A * SizeUnit,
				Mass:        c.ParticleMasses.A,
				Temperature: c.GasTemperatures.A,
			},
			physics.SpeciesB: {
				Count:       c.ParticleNumbers.B,
				Radius:      c.ParticleSizes.B * SizeUnit,
				Mass:        c.ParticleMasses.B,
				Temperature: c.GasTemperatures.B,
			},
		},
		Box:     dynamo.Box{Min: c.BoxDimensions.Min, Max: c.BoxDimensions.Max},
		Dt:      c.Simulation.Dt,
		Divider: c.Divider,
	}
}

// SimConfig returns the run-loop settings.
func (c *Config) SimConfig() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Steps = c.Simulation.Steps
	cfg.SampleEvery = c.SampleEvery
	cfg.RemoveDividerAt = c.RemoveDividerAt
	cfg.Seed = c.Seed
	return cfg
}

func (c *Config) Validate() error {
	if err := c.Setup().Validate(); err != nil {
		return err
	}
	if c.Simulation.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d: %w", c.Simulation.Steps, dynamo.ErrParameterBounds)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("sample_every must not be negative, got %d: %w", c.SampleEvery, dynamo.ErrParameterBounds)
	}
	return nil
}

// GetParams exposes the numeric parameters under their sweep names.
func (c *Config) GetParams() map[string]float64 {
	return map[string]float64{
		"count_a":           float64(c.ParticleNumbers.A),
		"count_b":           float64(c.ParticleNumbers.B),
		"size_a":            c.ParticleSizes.A,
		"size_b":            c.ParticleSizes.B,
		"mass_a":            c.ParticleMasses.A,
		"mass_b":            c.ParticleMasses.B,
		"temperature_a":     c.GasTemperatures.A,
		"temperature_b":     c.GasTemperatures.B,
		"box_min":           c.BoxDimensions.Min,
		"box_max":           c.BoxDimensions.Max,
		"dt":                c.Simulation.Dt,
		"steps":             float64(c.Simulation.Steps),
		"remove_divider_at": float64(c.RemoveDividerAt),
	}
}

func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "count_a":
		c.ParticleNumbers.A = int(value)
	case "count_b":
		c.ParticleNumbers.B = int(value)
	case "size_a":
		c.ParticleSizes.A = value
	case "size_b":
		c.ParticleSizes.B = value
	case "mass_a":
		c.ParticleMasses.A = value
	case "mass_b":
		c.ParticleMasses.B = value
	case "temperature_a":
		c.GasTemperatures.A = value
	case "temperature_b":
		c.GasTemperatures.B = value
	case "box_min":
		c.BoxDimensions.Min = value
	case "box_max":
		c.BoxDimensions.Max = value
	case "dt":
		c.Simulation.Dt = value
	case "steps":
		c.Simulation.Steps = int(value)
	case "remove_divider_at":
		c.RemoveDividerAt = int(value)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

var _ dynamo.Configurable = (*Config)(nil)
