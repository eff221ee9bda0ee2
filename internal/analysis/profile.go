package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/san-kum/gassim/internal/dynamo"
	"github.com/san-kum/gassim/internal/physics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DensityProfile returns the fraction of a species' particles in each of bins
// equal-width vertical slabs spanning the box.
func DensityProfile(s dynamo.State, species, bins int) []float64 {
	if bins <= 0 {
		return nil
	}

	xs := make([]float64, 0, len(s.Particles))
	for _, p := range s.Particles {
		if species != AllSpecies && p.Species() != species {
			continue
		}
		// overlap correction can leave a centre just outside the box
		x := math.Min(math.Max(p.Position.X, s.Box.Min), s.Box.Max)
		xs = append(xs, x)
	}
	profile := make([]float64, bins)
	if len(xs) == 0 {
		return profile
	}
	sort.Float64s(xs)

	edges := floats.Span(make([]float64, bins+1), s.Box.Min, math.Nextafter(s.Box.Max, math.Inf(1)))
	counts := stat.Histogram(nil, edges, xs, nil)
	for i, c := range counts {
		profile[i] = c / float64(len(xs))
	}
	return profile
}

// StateToASCII draws particle centres on a width×height character grid:
// species A as '•', species B as '○', and the divider as '│' while present.
func StateToASCII(s dynamo.State, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	size := s.Box.Size()
	if size <= 0 {
		size = 1
	}

	if s.Divider {
		col := int((s.Box.Center() - s.Box.Min) / size * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}

	for _, p := range s.Particles {
		col := int((p.Position.X - s.Box.Min) / size * float64(width-1))
		row := height - 1 - int((p.Position.Y-s.Box.Min)/size*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			if p.Species() == physics.SpeciesA {
				canvas[row][col] = '•'
			} else {
				canvas[row][col] = '○'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
