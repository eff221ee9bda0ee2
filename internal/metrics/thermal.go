package metrics

import (
	"math"

	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// Temperature is the mean squared speed of one species in the latest state.
// It is NaN while the species is absent.
type Temperature struct {
	name    string
	species int
	buf     []float64
	value   float64
}

func NewTemperature(species int) *Temperature {
	name := "temperature_a"
	if species == physics.SpeciesB {
		name = "temperature_b"
	}
	return &Temperature{name: name, species: species, value: math.NaN()}
}

func (t *Temperature) Name() string { return t.name }

func (t *Temperature) Observe(x dynamo.State) {
	t.buf = t.buf[:0]
	for _, p := range x.Particles {
		if p.Species() == t.species {
			t.buf = append(t.buf, r2.Norm2(p.Velocity))
		}
	}
	if len(t.buf) == 0 {
		t.value = math.NaN()
		return
	}
	t.value = stat.Mean(t.buf, nil)
}

func (t *Temperature) Value() float64 { return t.value }

func (t *Temperature) Reset() {
	t.buf = t.buf[:0]
	t.value = math.NaN()
}

// Mixing is the fraction of species A whose centre lies right of the box
// midpoint. A segregated start reads 0; a well mixed gas approaches 0.5.
type Mixing struct {
	name  string
	value float64
}

func NewMixing() *Mixing {
	return &Mixing{name: "mixing"}
}

func (m *Mixing) Name() string { return m.name }

func (m *Mixing) Observe(x dynamo.State) {
	center := x.Box.Center()
	right, total := 0, 0
	for _, p := range x.Particles {
		if p.Species() != physics.SpeciesA {
			continue
		}
		total++
		if p.Position.X > center {
			right++
		}
	}
	if total == 0 {
		m.value = 0
		return
	}
	m.value = float64(right) / float64(total)
}

func (m *Mixing) Value() float64 { return m.value }
func (m *Mixing) Reset()         { m.value = 0 }

// Containment is the fraction of observed states in which every particle
// centre lies inside the box. Disk edges are not checked: between steps a
// disk near a wall may overhang it until the next wall pass.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(x dynamo.State) {
	c.samples++
	for _, p := range x.Particles {
		if !x.Box.Contains(p.Position, 0) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// Collisions is the mean number of overlapping pairs per observed state.
type Collisions struct {
	name    string
	sum     int
	samples int
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions"}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Observe(x dynamo.State) {
	c.sum += len(physics.CollidingPairs(x.Particles))
	c.samples++
}

func (c *Collisions) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *Collisions) Reset() {
	c.sum = 0
	c.samples = 0
}
