package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/gassim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// AllSpecies selects every particle.
const AllSpecies = -1

func speeds(ps []dynamo.Particle, species int) (v []float64, meanSq float64) {
	for _, p := range ps {
		if species != AllSpecies && p.Species() != species {
			continue
		}
		s := r2.Norm(p.Velocity)
		v = append(v, s)
		meanSq += s * s
	}
	if len(v) > 0 {
		meanSq /= float64(len(v))
	}
	sort.Float64s(v)
	return v, meanSq
}

// SpeedHistogram bins particle speeds of one species (or AllSpecies) into
// equal-width bins from zero to the largest speed. It returns the bin edges
// and the probability density in each bin.
func SpeedHistogram(ps []dynamo.Particle, species, bins int) (edges, density []float64) {
	v, _ := speeds(ps, species)
	if len(v) == 0 || bins <= 0 {
		return nil, nil
	}

	top := v[len(v)-1]
	if top == 0 {
		top = 1
	}
	// stat.Histogram requires every sample strictly below the last edge.
	edges = floats.Span(make([]float64, bins+1), 0, math.Nextafter(top, math.Inf(1)))
	counts := stat.Histogram(nil, edges, v, nil)

	width := edges[1] - edges[0]
	density = make([]float64, bins)
	for i, c := range counts {
		density[i] = c / (float64(len(v)) * width)
	}
	return edges, density
}

// SpeedPDF is the equilibrium speed density of a two-dimensional ideal gas
// with mean squared speed meanSq: f(v) = 2v/⟨v²⟩ · exp(-v²/⟨v²⟩).
func SpeedPDF(v, meanSq float64) float64 {
	if meanSq <= 0 || v < 0 {
		return 0
	}
	return 2 * v / meanSq * math.Exp(-v*v/meanSq)
}

// ThermalDeviation is the L1 distance between the sampled speed histogram and
// SpeedPDF at the same mean squared speed. It is 0 for a perfectly thermal
// sample and at most 2.
func ThermalDeviation(ps []dynamo.Particle, species, bins int) float64 {
	_, meanSq := speeds(ps, species)
	edges, density := SpeedHistogram(ps, species, bins)
	if density == nil || meanSq == 0 {
		return 0
	}

	dev := 0.0
	for i, d := range density {
		lo, hi := edges[i], edges[i+1]
		expected := math.Exp(-lo*lo/meanSq) - math.Exp(-hi*hi/meanSq)
		dev += math.Abs(d*(hi-lo) - expected)
	}
	// probability mass beyond the largest sample
	dev += math.Exp(-edges[len(edges)-1] * edges[len(edges)-1] / meanSq)
	return dev
}
