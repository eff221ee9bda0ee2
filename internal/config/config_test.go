package config

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Simulation.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Simulation.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if cfg.RemoveDividerAt >= 0 {
		t.Error("default config should not remove the divider")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gas.yaml")
	data := `
particle_numbers:
  a: 10
  b: 0
particle_sizes:
  a: 3
particle_masses:
  a: 2
box_dimensions:
  box_min: -1
  box_max: 1
gas_temperatures:
  a: 0.5
simulation_parameters:
  dt: 0.002
  steps: 300
divider: false
seed: 9
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	setup := cfg.Setup()
	a := setup.Species[physics.SpeciesA]
	if a.Count != 10 || a.Radius != 0.03 || a.Mass != 2 || a.Temperature != 0.5 {
		t.Errorf("unexpected species A: %+v", a)
	}
	if setup.Species[physics.SpeciesB].Count != 0 {
		t.Error("species B should be empty")
	}
	if setup.Box.Min != -1 || setup.Box.Max != 1 || setup.Dt != 0.002 || setup.Divider {
		t.Errorf("unexpected setup: %+v", setup)
	}

	sc := cfg.SimConfig()
	if sc.Steps != 300 || sc.Seed != 9 || sc.SampleEvery != DefaultSampleEvery || sc.RemoveDividerAt != -1 {
		t.Errorf("unexpected sim config: %+v", sc)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("particle_numbers: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	orig := GetPreset("hot_cold")
	orig.Seed = 42

	if err := Save(path, orig); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *orig {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, orig)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no particles", func(c *Config) { c.ParticleNumbers = SpeciesInt{} }, dynamo.ErrNoParticles},
		{"negative count", func(c *Config) { c.ParticleNumbers.B = -1 }, dynamo.ErrParameterBounds},
		{"zero size", func(c *Config) { c.ParticleSizes.A = 0 }, dynamo.ErrParameterBounds},
		{"zero dt", func(c *Config) { c.Simulation.Dt = 0 }, dynamo.ErrParameterBounds},
		{"zero steps", func(c *Config) { c.Simulation.Steps = 0 }, dynamo.ErrParameterBounds},
		{"inverted box", func(c *Config) { c.BoxDimensions = BoxConfig{Min: 1, Max: 0} }, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetParam("temperature_b", 3); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetParam("count_a", 12); err != nil {
		t.Fatal(err)
	}
	params := cfg.GetParams()
	if params["temperature_b"] != 3 || params["count_a"] != 12 {
		t.Errorf("params not applied: %v", params)
	}
	if err := cfg.SetParam("gravity", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("diffusion")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.Divider || cfg.RemoveDividerAt <= 0 {
		t.Errorf("diffusion should start divided and lift the divider, got %+v", cfg)
	}

	cfg.ParticleNumbers.A = 1
	if Presets["diffusion"].ParticleNumbers.A == 1 {
		t.Error("GetPreset should return a copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if err := cfg.Validate(); err != nil {
				t.Fatalf("invalid preset: %v", err)
			}
			gas, err := physics.NewRandomGas(cfg.Setup(), rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if gas.Len() != cfg.ParticleNumbers.A+cfg.ParticleNumbers.B {
				t.Errorf("expected %d particles, got %d", cfg.ParticleNumbers.A+cfg.ParticleNumbers.B, gas.Len())
			}
		})
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Error("presets not sorted")
		}
	}
}
