package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/physics"
)

func particle(t *testing.T, x, y, vx, vy, mass float64, species int) dynamo.Particle {
	t.Helper()
	p, err := dynamo.NewParticle(dynamo.Vec2{X: x, Y: y}, dynamo.Vec2{X: vx, Y: vy}, mass, 0.05, species)
	if err != nil {
		t.Fatalf("particle: %v", err)
	}
	return p
}

func state(ps ...dynamo.Particle) dynamo.State {
	return dynamo.State{Particles: ps, Box: dynamo.Box{Min: 0, Max: 1}, Divider: true}
}

func TestEnergy(t *testing.T) {
	m := NewEnergy()
	m.Observe(state(particle(t, 0.2, 0.2, 1, 0, 2, physics.SpeciesA)))
	m.Observe(state(particle(t, 0.2, 0.2, 0, 3, 2, physics.SpeciesA)))

	if v := m.Value(); v != 5 {
		t.Errorf("expected mean energy 5, got %f", v)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	m.Observe(state(particle(t, 0.2, 0.2, 2, 0, 1, physics.SpeciesA)))
	m.Observe(state(particle(t, 0.2, 0.2, 1, 0, 1, physics.SpeciesA)))
	m.Observe(state(particle(t, 0.2, 0.2, 2, 0, 1, physics.SpeciesA)))

	if v := m.Value(); math.Abs(v-0.75) > 1e-12 {
		t.Errorf("expected max drift 0.75, got %f", v)
	}
}

func TestMomentum(t *testing.T) {
	m := NewMomentum()
	m.Observe(state(
		particle(t, 0.2, 0.2, 3, 0, 1, physics.SpeciesA),
		particle(t, 0.6, 0.2, 0, 2, 2, physics.SpeciesB),
	))
	if v := m.Value(); math.Abs(v-5) > 1e-12 {
		t.Errorf("expected |p| = 5, got %f", v)
	}
}

func TestTemperature(t *testing.T) {
	s := state(
		particle(t, 0.2, 0.2, 1, 0, 1, physics.SpeciesA),
		particle(t, 0.3, 0.2, 0, 3, 1, physics.SpeciesA),
		particle(t, 0.7, 0.2, 2, 0, 1, physics.SpeciesB),
	)

	tests := []struct {
		species int
		name    string
		want    float64
	}{
		{physics.SpeciesA, "temperature_a", 5},
		{physics.SpeciesB, "temperature_b", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewTemperature(tt.species)
			if m.Name() != tt.name {
				t.Errorf("Name() = %s", m.Name())
			}
			m.Observe(s)
			if math.Abs(m.Value()-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, m.Value())
			}
		})
	}

	m := NewTemperature(physics.SpeciesB)
	m.Observe(state(particle(t, 0.2, 0.2, 1, 0, 1, physics.SpeciesA)))
	if !math.IsNaN(m.Value()) {
		t.Errorf("absent species should read NaN, got %f", m.Value())
	}
}

func TestMixing(t *testing.T) {
	m := NewMixing()
	m.Observe(state(
		particle(t, 0.2, 0.2, 0, 0, 1, physics.SpeciesA),
		particle(t, 0.3, 0.2, 0, 0, 1, physics.SpeciesA),
		particle(t, 0.7, 0.2, 0, 0, 1, physics.SpeciesB),
	))
	if m.Value() != 0 {
		t.Errorf("segregated gas should read 0, got %f", m.Value())
	}

	m.Observe(state(
		particle(t, 0.2, 0.2, 0, 0, 1, physics.SpeciesA),
		particle(t, 0.8, 0.2, 0, 0, 1, physics.SpeciesA),
	))
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestContainment(t *testing.T) {
	m := NewContainment()
	if m.Value() != 1 {
		t.Error("no samples should read fully contained")
	}

	m.Observe(state(particle(t, 0.5, 0.5, 0, 0, 1, physics.SpeciesA)))
	// overhanging the wall, centre inside
	m.Observe(state(particle(t, 0.99, 0.5, 0, 0, 1, physics.SpeciesA)))
	m.Observe(state(particle(t, 0.5, 0.5, 0, 0, 1, physics.SpeciesA), particle(t, 0.5, 1.01, 0, 0, 1, physics.SpeciesB)))
	m.Observe(state(particle(t, -0.01, 0.5, 0, 0, 1, physics.SpeciesA)))

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestContainmentDenseGas(t *testing.T) {
	setup := physics.Setup{
		Species: [2]physics.Species{
			{Count: 50, Radius: 0.02, Mass: 1, Temperature: 1},
			{Count: 50, Radius: 0.02, Mass: 1, Temperature: 1},
		},
		Box:     dynamo.Box{Min: 0, Max: 1},
		Dt:      0.001,
		Divider: true,
	}
	gas, err := physics.NewRandomGas(setup, newRand(1))
	if err != nil {
		t.Fatal(err)
	}

	s := dynamo.New(gas)
	containment := NewContainment()
	s.AddMetric(containment)

	cfg := dynamo.DefaultConfig()
	cfg.Steps = 2000
	if _, err := s.Run(t.Context(), cfg); err != nil {
		t.Fatal(err)
	}

	if containment.Value() != 1 {
		t.Errorf("expected every centre inside the box, got %f", containment.Value())
	}
}

func TestCollisions(t *testing.T) {
	m := NewCollisions()
	m.Observe(state(
		particle(t, 0.40, 0.5, 0, 0, 1, physics.SpeciesA),
		particle(t, 0.45, 0.5, 0, 0, 1, physics.SpeciesA),
		particle(t, 0.80, 0.5, 0, 0, 1, physics.SpeciesB),
	))
	m.Observe(state(particle(t, 0.5, 0.5, 0, 0, 1, physics.SpeciesA)))

	if m.Value() != 0.5 {
		t.Errorf("expected 0.5 pairs per sample, got %f", m.Value())
	}
}

func TestMetricsWithSimulator(t *testing.T) {
	setup := physics.Setup{
		Species: [2]physics.Species{
			{Count: 10, Radius: 0.02, Mass: 1, Temperature: 1},
			{Count: 10, Radius: 0.02, Mass: 1, Temperature: 1},
		},
		Box:     dynamo.Box{Min: 0, Max: 1},
		Dt:      0.002,
		Divider: true,
	}
	gas, err := physics.NewRandomGas(setup, newRand(7))
	if err != nil {
		t.Fatal(err)
	}

	s := dynamo.New(gas)
	drift := NewEnergyDrift()
	mixing := NewMixing()
	s.AddMetric(drift)
	s.AddMetric(mixing)

	cfg := dynamo.DefaultConfig()
	cfg.Steps = 200
	if _, err := s.Run(t.Context(), cfg); err != nil {
		t.Fatal(err)
	}

	if drift.Value() > 1e-9 {
		t.Errorf("energy drift too large: %g", drift.Value())
	}
	if mixing.Value() != 0 {
		t.Errorf("divider should keep species A on the left, got %f", mixing.Value())
	}
}
