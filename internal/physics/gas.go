package physics

import (
	"fmt"

	"github.com/san-kum/gassim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Gas is a fixed population of hard disks in a square box, optionally split
// by a divider at the box's horizontal midpoint.
type Gas struct {
	particles  []dynamo.Particle
	box        dynamo.Box
	divider    bool
	dt         float64
	t          float64
	steps      int
	collisions int
}

// NewGas takes ownership of a copy of particles.
func NewGas(particles []dynamo.Particle, box dynamo.Box, dt float64, divider bool) (*Gas, error) {
	if len(particles) == 0 {
		return nil, dynamo.ErrNoParticles
	}
	if !(dt > 0) {
		return nil, fmt.Errorf("dt must be positive, got %g: %w", dt, dynamo.ErrParameterBounds)
	}
	if !(box.Max > box.Min) {
		return nil, fmt.Errorf("box max %g must exceed box min %g: %w", box.Max, box.Min, dynamo.ErrParameterBounds)
	}
	for i, p := range particles {
		if !(p.Mass() > 0) || !(p.Radius() > 0) {
			return nil, fmt.Errorf("particle %d: mass %g radius %g: %w", i, p.Mass(), p.Radius(), dynamo.ErrParameterBounds)
		}
	}
	ps := make([]dynamo.Particle, len(particles))
	copy(ps, particles)
	return &Gas{particles: ps, box: box, divider: divider, dt: dt}, nil
}

// Step advances the gas by one time step: wall and divider reflection for
// every particle, then pairwise collision resolution in ascending (i, j)
// order with immediate updates, then free flight.
func (g *Gas) Step() {
	ps := g.particles
	center := g.box.Center()

	for i := range ps {
		p := &ps[i]
		p.Position, p.Velocity = WallCollision(p.Position, p.Velocity, p.Radius(), g.box.Min, g.box.Max)
		if g.divider {
			p.Position, p.Velocity = CenterWallCollision(p.Position, p.Velocity, p.Radius(), center)
		}
	}

	g.collisions = 0
	Scan(ps, func(i, j int, dist float64) {
		a, b := &ps[i], &ps[j]
		a.Velocity, b.Velocity = ParticleCollision(a.Position, a.Velocity, b.Position, b.Velocity, a.Mass(), b.Mass())

		overlap := a.Radius() + b.Radius() - dist
		dir := r2.Scale(1/dist, r2.Sub(b.Position, a.Position))
		shift := r2.Scale(overlap*0.5, dir)
		a.Position = r2.Sub(a.Position, shift)
		b.Position = r2.Add(b.Position, shift)
		g.collisions++
	})

	for i := range ps {
		ps[i].Position = r2.Add(ps[i].Position, r2.Scale(g.dt, ps[i].Velocity))
	}

	g.t += g.dt
	g.steps++
}

// RemoveDivider takes the internal wall away for the rest of the run.
func (g *Gas) RemoveDivider() { g.divider = false }

func (g *Gas) DividerPresent() bool { return g.divider }
func (g *Gas) Dt() float64          { return g.dt }
func (g *Gas) Time() float64        { return g.t }
func (g *Gas) Steps() int           { return g.steps }
func (g *Gas) Len() int             { return len(g.particles) }
func (g *Gas) Box() dynamo.Box      { return g.box }

// Collisions returns the number of pairs resolved during the last step.
func (g *Gas) Collisions() int { return g.collisions }

func (g *Gas) Particle(i int) dynamo.Particle { return g.particles[i] }

// Particles returns a copy of the particle slice.
func (g *Gas) Particles() []dynamo.Particle {
	ps := make([]dynamo.Particle, len(g.particles))
	copy(ps, g.particles)
	return ps
}

func (g *Gas) State() dynamo.State {
	return dynamo.State{
		Particles: g.Particles(),
		Box:       g.box,
		Divider:   g.divider,
		Time:      g.t,
		Step:      g.steps,
	}
}

// Energy returns the total kinetic energy.
func (g *Gas) Energy() float64 {
	e := 0.0
	for _, p := range g.particles {
		e += p.KineticEnergy()
	}
	return e
}

func (g *Gas) Momentum() dynamo.Vec2 {
	var m dynamo.Vec2
	for _, p := range g.particles {
		m = r2.Add(m, r2.Scale(p.Mass(), p.Velocity))
	}
	return m
}
