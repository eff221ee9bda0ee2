package physics

import (
	"math"

	"github.com/san-kum/gassim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// ParticleCollision resolves an elastic collision between two overlapping
// disks and returns their new velocities. The impulse acts along the line of
// centres. Coincident centres produce NaN velocities.
func ParticleCollision(p1, v1, p2, v2 dynamo.Vec2, m1, m2 float64) (dynamo.Vec2, dynamo.Vec2) {
	dx := r2.Sub(p2, p1)
	dv := r2.Sub(v1, v2)
	d := r2.Norm(dx)
	d2 := d * d

	c1 := 2 * m2 / (m1 + m2)
	c2 := 2 * m1 / (m1 + m2)

	v1New := r2.Add(v1, r2.Scale(c1*r2.Dot(dv, r2.Scale(-1, dx))/d2, dx))
	v2New := r2.Sub(v2, r2.Scale(c2*r2.Dot(r2.Scale(-1, dv), dx)/d2, dx))
	return v1New, v2New
}

// WallCollision reflects a disk off the outer box. Each axis is corrected at
// most once per call.
func WallCollision(p, v dynamo.Vec2, r, boxMin, boxMax float64) (dynamo.Vec2, dynamo.Vec2) {
	p.X, v.X = reflectAxis(p.X, v.X, r, boxMin, boxMax)
	p.Y, v.Y = reflectAxis(p.Y, v.Y, r, boxMin, boxMax)
	return p, v
}

func reflectAxis(x, vx, r, lo, hi float64) (float64, float64) {
	if x-r < lo {
		return lo + r, -vx
	} else if x+r > hi {
		return hi - r, -vx
	}
	return x, vx
}

// CenterWallCollision reflects a disk off a full-height divider at x = center,
// keeping it on the side it was already on.
func CenterWallCollision(p, v dynamo.Vec2, r, center float64) (dynamo.Vec2, dynamo.Vec2) {
	if math.Abs(p.X-center) < r {
		if p.X < center {
			p.X = center - r
		} else {
			p.X = center + r
		}
		v.X = -v.X
	}
	return p, v
}
