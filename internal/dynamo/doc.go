// Package dynamo provides core simulation primitives for hard-disk gases.
//
// The package defines the fundamental types shared by the physics engine,
// the metrics, and the hosts that drive a simulation:
//
//   - [Vec2]: 2D point/vector (gonum r2)
//   - [Particle]: a massive disk with immutable mass and radius
//   - [State]: snapshot of a particle system after a step
//   - [System]: anything that advances one discrete time step
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	gas, _ := physics.NewRandomGas(setup, rng)
//	sim := dynamo.New(gas)
//	sim.AddMetric(metrics.NewEnergy())
//	result, _ := sim.Run(ctx, cfg)
//
// # Thread Safety
//
// Systems and Simulator instances are NOT thread-safe. A step must run to
// completion before the state is read or mutated again. For parallel runs,
// use the [Ensemble] type which builds one independent system per run.
package dynamo
