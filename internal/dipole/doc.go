// Package dipole computes forces between idealized cylindrical magnets using the
// point-dipole approximation.
//
// The package is pure: every function is deterministic and free of side effects,
// so it can be called once per frame from any host loop.
//
//   - [MagneticForce]: the force law the pendulum demo was built with
//   - [DipoleDipoleForce]: the textbook dipole-dipole force
//   - [DipoleMoment]: moment of a magnet oriented away from a pivot
//   - [Cylinder]: magnet geometry and volume
//
// # Degenerate input
//
// Coincident positions and zero-length orientations are preconditions the caller
// must avoid. The unchecked functions let the resulting NaN/Inf propagate; use
// [CheckedForce] and [CheckedMoment] to fail fast instead:
//
//	m1, err := dipole.CheckedMoment(pos, pivot, br, mag.Volume())
//	if err != nil {
//	    return err
//	}
package dipole
