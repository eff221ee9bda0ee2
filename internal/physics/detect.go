package physics

import (
	"github.com/san-kum/gassim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Pair is an unordered particle pair with I < J.
type Pair struct {
	I, J     int
	Distance float64
}

// Overlapping reports whether two disks intersect and the distance between
// their centres.
func Overlapping(a, b dynamo.Particle) (float64, bool) {
	dist := r2.Norm(r2.Sub(a.Position, b.Position))
	return dist, dist < a.Radius()+b.Radius()
}

// Scan visits every colliding pair in ascending (i, j) order. Each pair is
// tested against the current contents of ps, so changes fn makes while
// handling one pair are seen by every later pair.
func Scan(ps []dynamo.Particle, fn func(i, j int, dist float64)) {
	n := len(ps)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if dist, ok := Overlapping(ps[i], ps[j]); ok {
				fn(i, j, dist)
			}
		}
	}
}

// CollidingPairs lists the overlapping pairs of a snapshot without resolving
// them.
func CollidingPairs(ps []dynamo.Particle) []Pair {
	var pairs []Pair
	Scan(ps, func(i, j int, dist float64) {
		pairs = append(pairs, Pair{I: i, J: j, Distance: dist})
	})
	return pairs
}
