package physics

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/gassim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	SpeciesA = 0
	SpeciesB = 1
)

// Species describes a sub-population sharing radius, mass and target
// temperature (mean squared initial speed).
type Species struct {
	Count       int
	Radius      float64
	Mass        float64
	Temperature float64
}

// Setup holds everything needed to build a random initial gas.
type Setup struct {
	Species [2]Species
	Box     dynamo.Box
	Dt      float64
	Divider bool
}

func (s Setup) Total() int { return s.Species[SpeciesA].Count + s.Species[SpeciesB].Count }

// Validate rejects configurations that cannot produce a well-formed gas.
func (s Setup) Validate() error {
	for i, sp := range s.Species {
		name := speciesName(i)
		if sp.Count < 0 {
			return fmt.Errorf("gas %s: count %d is negative: %w", name, sp.Count, dynamo.ErrParameterBounds)
		}
		if sp.Count == 0 {
			continue
		}
		if !(sp.Radius > 0) {
			return fmt.Errorf("gas %s: radius must be positive, got %g: %w", name, sp.Radius, dynamo.ErrParameterBounds)
		}
		if !(sp.Mass > 0) {
			return fmt.Errorf("gas %s: mass must be positive, got %g: %w", name, sp.Mass, dynamo.ErrParameterBounds)
		}
		if !(sp.Temperature >= 0) {
			return fmt.Errorf("gas %s: temperature must not be negative, got %g: %w", name, sp.Temperature, dynamo.ErrParameterBounds)
		}
		if 2*sp.Radius >= s.Box.Size() {
			return fmt.Errorf("gas %s: diameter %g does not fit in box of size %g: %w", name, 2*sp.Radius, s.Box.Size(), dynamo.ErrParameterBounds)
		}
	}
	if s.Total() == 0 {
		return dynamo.ErrNoParticles
	}
	if !(s.Box.Max > s.Box.Min) {
		return fmt.Errorf("box max %g must exceed box min %g: %w", s.Box.Max, s.Box.Min, dynamo.ErrParameterBounds)
	}
	if !(s.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %g: %w", s.Dt, dynamo.ErrParameterBounds)
	}
	return nil
}

func speciesName(i int) string {
	if i == SpeciesA {
		return "A"
	}
	return "B"
}

// NewRandomGas builds the initial gas. With two populated species, A starts in
// the left band of the box and B in the right band; a single species fills
// the whole box. Velocities are drawn from a standard normal distribution and
// rescaled per species so that the mean squared speed equals its temperature.
func NewRandomGas(setup Setup, rng *rand.Rand) (*Gas, error) {
	if err := setup.Validate(); err != nil {
		return nil, err
	}

	a, b := setup.Species[SpeciesA], setup.Species[SpeciesB]
	segregated := a.Count > 0 && b.Count > 0
	box := setup.Box
	size := box.Size()

	particles := make([]dynamo.Particle, 0, setup.Total())
	for s, sp := range setup.Species {
		if sp.Count == 0 {
			continue
		}
		vel := sampleVelocities(sp.Count, sp.Temperature, rng)
		for k := 0; k < sp.Count; k++ {
			var x float64
			switch {
			case !segregated:
				x = box.Min + sp.Radius + rng.Float64()*(size-2*sp.Radius)
			case s == SpeciesA:
				x = box.Min + sp.Radius + rng.Float64()*0.45*size
			default:
				x = box.Min + 0.55*size + rng.Float64()*(0.45*size-sp.Radius)
			}
			y := box.Min + sp.Radius + rng.Float64()*(size-2*sp.Radius)

			p, err := dynamo.NewParticle(dynamo.Vec2{X: x, Y: y}, vel[k], sp.Mass, sp.Radius, s)
			if err != nil {
				return nil, fmt.Errorf("gas %s particle %d: %w", speciesName(s), k, err)
			}
			particles = append(particles, p)
		}
	}

	return NewGas(particles, box, setup.Dt, setup.Divider)
}

func sampleVelocities(n int, temperature float64, rng *rand.Rand) []dynamo.Vec2 {
	vel := make([]dynamo.Vec2, n)
	meanSq := 0.0
	for i := range vel {
		vel[i] = dynamo.Vec2{X: rng.NormFloat64(), Y: rng.NormFloat64()}
		meanSq += r2.Norm2(vel[i])
	}
	meanSq /= float64(n)
	if meanSq == 0 {
		return vel
	}

	scale := math.Sqrt(temperature) / math.Sqrt(meanSq)
	for i := range vel {
		vel[i] = r2.Scale(scale, vel[i])
	}
	return vel
}

// MeanSquaredSpeed returns the mean of ‖v‖² over particles of one species, or
// NaN if the species is absent.
func MeanSquaredSpeed(ps []dynamo.Particle, species int) float64 {
	sum, n := 0.0, 0
	for _, p := range ps {
		if p.Species() == species {
			sum += r2.Norm2(p.Velocity)
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
