// Package dynamo provides core simulation primitives shared by the engine,
// integrators, metrics and driver loop.
//
//   - [State]: flat state vector ({x, y, z, vx, vy, vz} for a rigid body)
//   - [Control]: external force held constant over a step
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//   - [Metric]: per-frame observation reduced to a scalar
//   - [Result]: recorded trajectory of a run
//
// Errors are sentinels declared in errors.go; wrap them with fmt.Errorf and %w.
package dynamo
