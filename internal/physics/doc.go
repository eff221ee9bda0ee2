// Package physics implements the hard-disk gas: collision resolution,
// collision detection and the time stepper.
//
//   - [ParticleCollision]: elastic impulse along the line of centres
//   - [WallCollision], [CenterWallCollision]: reflection off the box and divider
//   - [Scan]: brute-force O(N²) overlap scan in ascending (i, j) order
//   - [Gas]: the particle system, implementing [dynamo.System]
//   - [NewRandomGas]: species-segregated random initial state
//
// Collisions are found only when disks already overlap at a discrete step, so
// fast particles can tunnel through each other or through a wall.
//
// # Coincident centres
//
// Two disks with identical centres have no line of centres. The resolver and
// the overlap correction divide by zero in that case and the affected
// velocities and positions become NaN. The stepper does not guard against it;
// use [dynamo.Config.ValidateState] to stop a run at the first invalid state.
package physics
