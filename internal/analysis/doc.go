// Package analysis post-processes recorded pendulum runs.
//
//   - [PowerSpectrum], [DominantFrequency]: spectral content of one state component
//   - [Summarize]: descriptive statistics
//   - [NewPhasePortrait], [PoincareSection]: 2D projections of the trajectory
//   - [Separation], [LyapunovExponent]: sensitivity to initial conditions
//
// # Chaos Detection
//
// Build two scenes whose initial angles differ slightly and compare them:
//
//	sep, err := analysis.Separation(a, b, dt, steps)
//	if err == nil && analysis.LyapunovExponent(sep, dt) > 0 {
//	    // trajectories diverge exponentially
//	}
package analysis
