// Package scene assembles the magnetic pendulum and advances it one frame at a time.
//
// A [Context] names every body the demo needs and carries the magnet parameters.
// [Step] is the whole per-frame contract: read the bob pose, derive both dipole
// moments from the current geometry, evaluate the force law and hand the result
// to the engine for exactly one step.
package scene
