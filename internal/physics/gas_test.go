package physics

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gassim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func particle(x, y, vx, vy, m, r float64, species int) dynamo.Particle {
	p, err := dynamo.NewParticle(dynamo.Vec2{X: x, Y: y}, dynamo.Vec2{X: vx, Y: vy}, m, r, species)
	Expect(err).NotTo(HaveOccurred())
	return p
}

func unitBox() dynamo.Box { return dynamo.Box{Min: 0, Max: 1} }

var _ = Describe("Gas", func() {
	Describe("Step", func() {
		It("swaps velocities in an equal-mass head-on collision", func() {
			gas, err := NewGas([]dynamo.Particle{
				particle(0.45, 0.5, 1, 0, 1, 0.1, SpeciesA),
				particle(0.55, 0.5, -1, 0, 1, 0.1, SpeciesA),
			}, unitBox(), 0.001, false)
			Expect(err).NotTo(HaveOccurred())

			gas.Step()

			a, b := gas.Particle(0), gas.Particle(1)
			Expect(a.Velocity.X).To(BeNumerically("~", -1, 1e-12))
			Expect(a.Velocity.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(b.Velocity.X).To(BeNumerically("~", 1, 1e-12))
			Expect(b.Velocity.Y).To(BeNumerically("~", 0, 1e-12))

			Expect(a.Position.X).To(BeNumerically("~", 0.4-0.001, 1e-12))
			Expect(b.Position.X).To(BeNumerically("~", 0.6+0.001, 1e-12))
			Expect(r2.Norm(r2.Sub(b.Position, a.Position))).To(BeNumerically(">=", 0.2-1e-12))
			Expect(gas.Collisions()).To(Equal(1))
		})

		It("reflects both particles off the divider before any pair is tested", func() {
			gas, err := NewGas([]dynamo.Particle{
				particle(0.46, 0.5, 1, 0, 1, 0.05, SpeciesA),
				particle(0.53, 0.5, -1, 0, 1, 0.05, SpeciesB),
			}, unitBox(), 0.001, true)
			Expect(err).NotTo(HaveOccurred())

			gas.Step()

			Expect(gas.Collisions()).To(Equal(0))
			Expect(gas.Particle(0).Velocity.X).To(Equal(-1.0))
			Expect(gas.Particle(1).Velocity.X).To(Equal(1.0))
			Expect(gas.Particle(0).Position.X).To(BeNumerically("~", 0.449, 1e-12))
			Expect(gas.Particle(1).Position.X).To(BeNumerically("~", 0.551, 1e-12))
		})

		It("removes all penetration when the overlap is corrected", func() {
			gas, err := NewGas([]dynamo.Particle{
				particle(0.30, 0.40, 0, 0, 1, 0.05, SpeciesA),
				particle(0.36, 0.44, 0, 0, 3, 0.08, SpeciesB),
			}, unitBox(), 0.01, false)
			Expect(err).NotTo(HaveOccurred())

			gas.Step()

			dist := r2.Norm(r2.Sub(gas.Particle(1).Position, gas.Particle(0).Position))
			Expect(dist).To(BeNumerically("~", 0.13, 1e-12))
		})

		It("resolves pairs sequentially so a chain passes momentum along in one step", func() {
			gas, err := NewGas([]dynamo.Particle{
				particle(0.40, 0.5, 1, 0, 1, 0.05, SpeciesA),
				particle(0.48, 0.5, 0, 0, 1, 0.05, SpeciesA),
				particle(0.56, 0.5, 0, 0, 1, 0.05, SpeciesA),
			}, unitBox(), 0.001, false)
			Expect(err).NotTo(HaveOccurred())

			gas.Step()

			Expect(gas.Collisions()).To(Equal(2))
			Expect(gas.Particle(0).Velocity.X).To(BeNumerically("~", 0, 1e-12))
			Expect(gas.Particle(1).Velocity.X).To(BeNumerically("~", 0, 1e-12))
			Expect(gas.Particle(2).Velocity.X).To(BeNumerically("~", 1, 1e-12))
			Expect(gas.Particle(0).Position.X).To(BeNumerically("~", 0.39, 1e-12))
			Expect(gas.Particle(1).Position.X).To(BeNumerically("~", 0.475, 1e-12))
			Expect(gas.Particle(2).Position.X).To(BeNumerically("~", 0.576, 1e-12))
		})

		It("propagates NaN for coincident centres instead of failing", func() {
			gas, err := NewGas([]dynamo.Particle{
				particle(0.5, 0.5, 1, 0, 1, 0.05, SpeciesA),
				particle(0.5, 0.5, -1, 0, 1, 0.05, SpeciesA),
			}, unitBox(), 0.001, false)
			Expect(err).NotTo(HaveOccurred())

			Expect(gas.Step).NotTo(Panic())
			Expect(gas.State().IsValid()).To(BeFalse())
		})

		It("advances time and the step counter", func() {
			gas, err := NewGas([]dynamo.Particle{particle(0.5, 0.5, 0.1, 0, 1, 0.05, SpeciesA)}, unitBox(), 0.01, false)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 10; i++ {
				gas.Step()
			}
			Expect(gas.Steps()).To(Equal(10))
			Expect(gas.Time()).To(BeNumerically("~", 0.1, 1e-12))
			Expect(gas.Particle(0).Position.X).To(BeNumerically("~", 0.51, 1e-12))
		})
	})

	Describe("divider", func() {
		var gas *Gas

		BeforeEach(func() {
			var err error
			gas, err = NewGas([]dynamo.Particle{particle(0.4, 0.5, 1, 0, 1, 0.05, SpeciesA)}, unitBox(), 0.01, true)
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps a particle on its side while present", func() {
			for i := 0; i < 300; i++ {
				gas.Step()
				Expect(gas.Particle(0).Position.X).To(BeNumerically("<", 0.5))
			}
		})

		It("lets the particle through once removed, for good", func() {
			for i := 0; i < 20; i++ {
				gas.Step()
			}
			gas.RemoveDivider()
			Expect(gas.DividerPresent()).To(BeFalse())
			Expect(gas.State().Divider).To(BeFalse())

			crossed := false
			for i := 0; i < 200; i++ {
				gas.Step()
				if gas.Particle(0).Position.X > 0.5 {
					crossed = true
				}
			}
			Expect(crossed).To(BeTrue())
			Expect(gas.DividerPresent()).To(BeFalse())
		})
	})

	Describe("random gas", func() {
		setup := Setup{
			Species: [2]Species{
				{Count: 80, Radius: 0.01, Mass: 1, Temperature: 1},
				{Count: 80, Radius: 0.015, Mass: 2, Temperature: 0.5},
			},
			Box: dynamo.Box{Min: 0, Max: 1},
			Dt:  0.0005,
		}

		It("is deterministic for a fixed seed", func() {
			a, err := NewRandomGas(setup, rand.New(rand.NewSource(11)))
			Expect(err).NotTo(HaveOccurred())
			b, err := NewRandomGas(setup, rand.New(rand.NewSource(11)))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 400; i++ {
				a.Step()
				b.Step()
			}
			Expect(a.Particles()).To(Equal(b.Particles()))
		})

		It("conserves kinetic energy and keeps centres near the box", func() {
			gas, err := NewRandomGas(setup, rand.New(rand.NewSource(12)))
			Expect(err).NotTo(HaveOccurred())
			e0 := gas.Energy()

			for i := 0; i < 400; i++ {
				gas.Step()
			}

			Expect(math.Abs(gas.Energy()-e0) / e0).To(BeNumerically("<", 1e-9))
			for _, p := range gas.Particles() {
				Expect(p.Position.X).To(BeNumerically(">", -0.05))
				Expect(p.Position.X).To(BeNumerically("<", 1.05))
				Expect(p.Position.Y).To(BeNumerically(">", -0.05))
				Expect(p.Position.Y).To(BeNumerically("<", 1.05))
			}
		})

		It("hands out copies so callers cannot mutate the gas", func() {
			gas, err := NewRandomGas(setup, rand.New(rand.NewSource(13)))
			Expect(err).NotTo(HaveOccurred())
			ps := gas.Particles()
			ps[0].Position = dynamo.Vec2{X: 42, Y: 42}
			Expect(gas.Particle(0).Position).NotTo(Equal(dynamo.Vec2{X: 42, Y: 42}))
		})
	})
})
