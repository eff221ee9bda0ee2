package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/gassim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestParticleCollisionConservation(t *testing.T) {
	tests := []struct {
		name   string
		p1, v1 dynamo.Vec2
		p2, v2 dynamo.Vec2
		m1, m2 float64
	}{
		{"head-on equal", dynamo.Vec2{X: 0.45, Y: 0.5}, dynamo.Vec2{X: 1}, dynamo.Vec2{X: 0.55, Y: 0.5}, dynamo.Vec2{X: -1}, 1, 1},
		{"glancing unequal", dynamo.Vec2{}, dynamo.Vec2{X: 1, Y: 0.3}, dynamo.Vec2{X: 0.15, Y: 0.05}, dynamo.Vec2{X: -0.5, Y: 0.2}, 1, 3},
		{"heavy at rest", dynamo.Vec2{X: 0.2, Y: 0.2}, dynamo.Vec2{X: 2, Y: -1}, dynamo.Vec2{X: 0.25, Y: 0.22}, dynamo.Vec2{}, 0.5, 40},
		{"receding", dynamo.Vec2{}, dynamo.Vec2{X: -1}, dynamo.Vec2{X: 0.1}, dynamo.Vec2{X: 1, Y: 1}, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u1, u2 := ParticleCollision(tt.p1, tt.v1, tt.p2, tt.v2, tt.m1, tt.m2)

			before := r2.Add(r2.Scale(tt.m1, tt.v1), r2.Scale(tt.m2, tt.v2))
			after := r2.Add(r2.Scale(tt.m1, u1), r2.Scale(tt.m2, u2))
			if r2.Norm(r2.Sub(before, after)) > 1e-12 {
				t.Errorf("momentum not conserved: before %v, after %v", before, after)
			}

			ke := func(a, b dynamo.Vec2) float64 {
				return 0.5*tt.m1*r2.Norm2(a) + 0.5*tt.m2*r2.Norm2(b)
			}
			if e0, e1 := ke(tt.v1, tt.v2), ke(u1, u2); math.Abs(e0-e1) > 1e-12*math.Max(1, e0) {
				t.Errorf("kinetic energy not conserved: before %.15f, after %.15f", e0, e1)
			}
		})
	}
}

func TestParticleCollisionHeadOnSwap(t *testing.T) {
	u1, u2 := ParticleCollision(
		dynamo.Vec2{X: 0.45, Y: 0.5}, dynamo.Vec2{X: 1},
		dynamo.Vec2{X: 0.55, Y: 0.5}, dynamo.Vec2{X: -1},
		1, 1,
	)
	if math.Abs(u1.X+1) > 1e-12 || math.Abs(u1.Y) > 1e-12 {
		t.Errorf("expected v1' = (-1, 0), got %v", u1)
	}
	if math.Abs(u2.X-1) > 1e-12 || math.Abs(u2.Y) > 1e-12 {
		t.Errorf("expected v2' = (1, 0), got %v", u2)
	}
}

func TestParticleCollisionTangentialUnchanged(t *testing.T) {
	// line of centres along x, so y components must survive untouched
	u1, u2 := ParticleCollision(
		dynamo.Vec2{}, dynamo.Vec2{X: 1, Y: 0.7},
		dynamo.Vec2{X: 0.1}, dynamo.Vec2{X: 0, Y: -0.3},
		1, 1,
	)
	if u1.Y != 0.7 || u2.Y != -0.3 {
		t.Errorf("tangential components changed: %v %v", u1, u2)
	}
}

func TestParticleCollisionCoincidentCentres(t *testing.T) {
	p := dynamo.Vec2{X: 0.5, Y: 0.5}
	u1, u2 := ParticleCollision(p, dynamo.Vec2{X: 1}, p, dynamo.Vec2{X: -1}, 1, 1)
	if !math.IsNaN(u1.X) || !math.IsNaN(u2.X) {
		t.Errorf("expected NaN velocities for coincident centres, got %v %v", u1, u2)
	}
}

func TestWallCollision(t *testing.T) {
	tests := []struct {
		name         string
		p, v         dynamo.Vec2
		r            float64
		wantP, wantV dynamo.Vec2
	}{
		{"left wall", dynamo.Vec2{X: 0.02, Y: 0.5}, dynamo.Vec2{X: -1}, 0.05, dynamo.Vec2{X: 0.05, Y: 0.5}, dynamo.Vec2{X: 1}},
		{"right wall", dynamo.Vec2{X: 0.99, Y: 0.5}, dynamo.Vec2{X: 2, Y: 1}, 0.05, dynamo.Vec2{X: 0.95, Y: 0.5}, dynamo.Vec2{X: -2, Y: 1}},
		{"floor", dynamo.Vec2{X: 0.5, Y: 0.01}, dynamo.Vec2{Y: -3}, 0.02, dynamo.Vec2{X: 0.5, Y: 0.02}, dynamo.Vec2{Y: 3}},
		{"corner", dynamo.Vec2{X: 0.99, Y: 0.99}, dynamo.Vec2{X: 1, Y: 1}, 0.05, dynamo.Vec2{X: 0.95, Y: 0.95}, dynamo.Vec2{X: -1, Y: -1}},
		{"inside", dynamo.Vec2{X: 0.5, Y: 0.5}, dynamo.Vec2{X: 1, Y: 1}, 0.05, dynamo.Vec2{X: 0.5, Y: 0.5}, dynamo.Vec2{X: 1, Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, v := WallCollision(tt.p, tt.v, tt.r, 0, 1)
			if math.Abs(p.X-tt.wantP.X) > 1e-12 || math.Abs(p.Y-tt.wantP.Y) > 1e-12 {
				t.Errorf("position = %v, want %v", p, tt.wantP)
			}
			if v != tt.wantV {
				t.Errorf("velocity = %v, want %v", v, tt.wantV)
			}
			if !(dynamo.Box{Min: 0, Max: 1}).Contains(p, tt.r-1e-12) {
				t.Errorf("disk at %v radius %g leaves the box", p, tt.r)
			}
		})
	}
}

func TestWallCollisionDoesNotMutateArguments(t *testing.T) {
	p, v := dynamo.Vec2{X: -0.1, Y: 0.5}, dynamo.Vec2{X: -1}
	WallCollision(p, v, 0.05, 0, 1)
	if p.X != -0.1 || v.X != -1 {
		t.Errorf("arguments mutated: %v %v", p, v)
	}
}

func TestCenterWallCollision(t *testing.T) {
	tests := []struct {
		name  string
		x, vx float64
		wantX float64
		wantV float64
	}{
		{"left side", 0.48, 1, 0.45, -1},
		{"right side", 0.53, -2, 0.55, 2},
		{"exactly on divider", 0.5, 1, 0.55, -1},
		{"clear of divider", 0.3, 1, 0.3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, v := CenterWallCollision(dynamo.Vec2{X: tt.x, Y: 0.2}, dynamo.Vec2{X: tt.vx, Y: 0.4}, 0.05, 0.5)
			if math.Abs(p.X-tt.wantX) > 1e-12 || v.X != tt.wantV {
				t.Errorf("got x=%g vx=%g, want x=%g vx=%g", p.X, v.X, tt.wantX, tt.wantV)
			}
			if p.Y != 0.2 || v.Y != 0.4 {
				t.Errorf("vertical axis changed: %v %v", p, v)
			}
		})
	}
}

func TestCenterWallContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const center = 0.5
	for i := 0; i < 1000; i++ {
		r := 0.001 + rng.Float64()*0.1
		p := dynamo.Vec2{X: rng.Float64(), Y: rng.Float64()}
		v := dynamo.Vec2{X: rng.NormFloat64(), Y: rng.NormFloat64()}
		q, _ := CenterWallCollision(p, v, r, center)
		if math.Abs(q.X-center) < r-1e-12 {
			t.Fatalf("centre %g within radius %g of divider", q.X, r)
		}
		if (p.X < center) != (q.X < center) {
			t.Fatalf("particle switched sides: %g -> %g", p.X, q.X)
		}
	}
}
