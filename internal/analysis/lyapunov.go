package analysis

import (
	"math"

	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// Perturbed returns an independent copy of g with particle 0 shifted by eps
// along x.
func Perturbed(g *physics.Gas, eps float64) (*physics.Gas, error) {
	ps := g.Particles()
	if len(ps) > 0 {
		ps[0].Position.X += eps
	}
	return physics.NewGas(ps, g.Box(), g.Dt(), g.DividerPresent())
}

// Separation is the phase-space distance between two states with the same
// particle ordering.
func Separation(a, b dynamo.State) float64 {
	sum := 0.0
	for i := range a.Particles {
		if i >= len(b.Particles) {
			break
		}
		dp := r2.Sub(a.Particles[i].Position, b.Particles[i].Position)
		dv := r2.Sub(a.Particles[i].Velocity, b.Particles[i].Velocity)
		sum += r2.Norm2(dp) + r2.Norm2(dv)
	}
	return math.Sqrt(sum)
}

// LyapunovExponent estimates the largest Lyapunov exponent of a hard-disk gas
// by stepping ref and a perturbed copy side by side and fitting the growth
// rate of ln(separation) against time. Fitting stops once the separation
// reaches saturation, after which it no longer grows exponentially.
//
// Both systems are advanced by up to steps steps.
func LyapunovExponent(ref, perturbed dynamo.System, steps int, saturation float64) float64 {
	times := make([]float64, 0, steps)
	logs := make([]float64, 0, steps)

	for i := 0; i < steps; i++ {
		ref.Step()
		perturbed.Step()

		a, b := ref.State(), perturbed.State()
		if !a.IsValid() || !b.IsValid() {
			break
		}
		sep := Separation(a, b)
		if sep >= saturation {
			break
		}
		if sep > 0 {
			times = append(times, a.Time)
			logs = append(logs, math.Log(sep))
		}
	}

	if len(times) < 2 {
		return 0
	}
	_, slope := stat.LinearRegression(times, logs, nil, false)
	return slope
}
