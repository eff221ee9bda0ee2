package config

import "sort"

// Presets are named starting configurations. Sizes are in hundredths of the
// box unit.
var Presets = map[string]*Config{
	"diffusion": {
		Name:            "diffusion",
		ParticleNumbers: SpeciesInt{A: 60, B: 60},
		ParticleSizes:   SpeciesFloat{A: 1.5, B: 1.5},
		ParticleMasses:  SpeciesFloat{A: 1, B: 1},
		GasTemperatures: SpeciesFloat{A: 1, B: 1},
		BoxDimensions:   BoxConfig{Min: 0, Max: 1},
		Simulation:      SimParams{Dt: 0.001, Steps: 8000},
		Divider:         true,
		RemoveDividerAt: 1000,
		SampleEvery:     20,
	},
	"hot_cold": {
		Name:            "hot_cold",
		ParticleNumbers: SpeciesInt{A: 50, B: 50},
		ParticleSizes:   SpeciesFloat{A: 2, B: 2},
		ParticleMasses:  SpeciesFloat{A: 1, B: 1},
		GasTemperatures: SpeciesFloat{A: 4, B: 0.25},
		BoxDimensions:   BoxConfig{Min: 0, Max: 1},
		Simulation:      SimParams{Dt: 0.0005, Steps: 10000},
		Divider:         true,
		RemoveDividerAt: 2000,
		SampleEvery:     25,
	},
	"heavy_light": {
		Name:            "heavy_light",
		ParticleNumbers: SpeciesInt{A: 20, B: 80},
		ParticleSizes:   SpeciesFloat{A: 4, B: 1.5},
		ParticleMasses:  SpeciesFloat{A: 10, B: 1},
		GasTemperatures: SpeciesFloat{A: 1, B: 1},
		BoxDimensions:   BoxConfig{Min: 0, Max: 1},
		Simulation:      SimParams{Dt: 0.001, Steps: 8000},
		Divider:         false,
		RemoveDividerAt: -1,
		SampleEvery:     20,
	},
	"single": {
		Name:            "single",
		ParticleNumbers: SpeciesInt{A: 100, B: 0},
		ParticleSizes:   SpeciesFloat{A: 2, B: 2},
		ParticleMasses:  SpeciesFloat{A: 1, B: 1},
		GasTemperatures: SpeciesFloat{A: 1, B: 1},
		BoxDimensions:   BoxConfig{Min: 0, Max: 1},
		Simulation:      SimParams{Dt: 0.001, Steps: 5000},
		Divider:         false,
		RemoveDividerAt: -1,
		SampleEvery:     10,
	},
	"dense": {
		Name:            "dense",
		ParticleNumbers: SpeciesInt{A: 150, B: 150},
		ParticleSizes:   SpeciesFloat{A: 1.8, B: 1.8},
		ParticleMasses:  SpeciesFloat{A: 1, B: 2},
		GasTemperatures: SpeciesFloat{A: 1, B: 1},
		BoxDimensions:   BoxConfig{Min: 0, Max: 1},
		Simulation:      SimParams{Dt: 0.0005, Steps: 6000},
		Divider:         true,
		RemoveDividerAt: 1500,
		SampleEvery:     30,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
