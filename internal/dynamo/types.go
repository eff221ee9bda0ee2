package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a point or displacement in the plane.
type Vec2 = r2.Vec

// Particle is a hard disk. Mass, radius and species are fixed at construction.
type Particle struct {
	Position Vec2
	Velocity Vec2
	mass     float64
	radius   float64
	species  int
}

// NewParticle returns a particle, rejecting non-positive mass or radius.
func NewParticle(pos, vel Vec2, mass, radius float64, species int) (Particle, error) {
	if !(mass > 0) {
		return Particle{}, fmt.Errorf("mass must be positive, got %g: %w", mass, ErrParameterBounds)
	}
	if !(radius > 0) {
		return Particle{}, fmt.Errorf("radius must be positive, got %g: %w", radius, ErrParameterBounds)
	}
	return Particle{Position: pos, Velocity: vel, mass: mass, radius: radius, species: species}, nil
}

func (p Particle) Mass() float64   { return p.mass }
func (p Particle) Radius() float64 { return p.radius }
func (p Particle) Species() int    { return p.species }

// KineticEnergy returns ½m‖v‖².
func (p Particle) KineticEnergy() float64 {
	return 0.5 * p.mass * r2.Norm2(p.Velocity)
}

// Box is the square domain [Min, Max]².
type Box struct {
	Min float64
	Max float64
}

func (b Box) Size() float64   { return b.Max - b.Min }
func (b Box) Center() float64 { return (b.Min + b.Max) / 2 }

// Contains reports whether a disk of radius r centred at p lies inside the box.
func (b Box) Contains(p Vec2, r float64) bool {
	return p.X-r >= b.Min && p.X+r <= b.Max && p.Y-r >= b.Min && p.Y+r <= b.Max
}

// State is a snapshot of a particle system taken between steps.
type State struct {
	Particles []Particle
	Box       Box
	Divider   bool
	Time      float64
	Step      int
}

func (s State) Clone() State {
	c := s
	c.Particles = make([]Particle, len(s.Particles))
	copy(c.Particles, s.Particles)
	return c
}

func (s State) IsValid() bool {
	for _, p := range s.Particles {
		for _, v := range [4]float64{p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

func (s State) KineticEnergy() float64 {
	e := 0.0
	for _, p := range s.Particles {
		e += p.KineticEnergy()
	}
	return e
}

func (s State) Momentum() Vec2 {
	var m Vec2
	for _, p := range s.Particles {
		m = r2.Add(m, r2.Scale(p.mass, p.Velocity))
	}
	return m
}

// Count returns the number of particles of the given species.
func (s State) Count(species int) int {
	n := 0
	for _, p := range s.Particles {
		if p.species == species {
			n++
		}
	}
	return n
}

// System is a particle system advanced in discrete time steps.
type System interface {
	Step()
	State() State
	Dt() float64
}

// DividerRemover is implemented by systems with a removable internal wall.
type DividerRemover interface {
	RemoveDivider()
}

type Hamiltonian interface {
	Energy() float64
}

type Metric interface {
	Name() string
	Observe(s State)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s State)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Steps           int
	SampleEvery     int
	RemoveDividerAt int
	Seed            int64
	ValidateState   bool
}

func DefaultConfig() Config {
	return Config{
		Steps:           1000,
		SampleEvery:     10,
		RemoveDividerAt: -1,
		ValidateState:   true,
	}
}

type Result struct {
	Frames      []State
	Times       []float64
	Series      map[string][]float64
	SeriesTimes []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// SimError reports the step at which a run failed. Err, when set, is the
// sentinel it wraps.
type SimError struct {
	Time    float64
	Step    int
	Message string
	Err     error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error { return e.Err }

func invalidStateError(x State, step int) SimError {
	return SimError{Time: x.Time, Step: step, Message: "invalid state (NaN/Inf)", Err: ErrInvalidState}
}
