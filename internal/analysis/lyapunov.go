package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/magpend/internal/scene"
	"gonum.org/v1/gonum/stat"
)

// Separation steps two scenes side by side and records the distance between
// their bobs after every frame.
func Separation(a, b *scene.Context, dt float64, steps int) ([]float64, error) {
	sep := make([]float64, 0, steps)
	for i := 0; i < steps; i++ {
		if _, err := scene.Step(a, dt); err != nil {
			return sep, fmt.Errorf("reference: %w", err)
		}
		if _, err := scene.Step(b, dt); err != nil {
			return sep, fmt.Errorf("perturbed: %w", err)
		}

		xa, err := a.State()
		if err != nil {
			return sep, err
		}
		xb, err := b.State()
		if err != nil {
			return sep, err
		}
		sep = append(sep, xa[:3].Sub(xb[:3]).Norm())
	}
	return sep, nil
}

// LyapunovExponent estimates the largest Lyapunov exponent as the slope of
// ln(separation) against time. A positive value indicates chaos. Zero and
// non-finite separations are skipped.
func LyapunovExponent(sep []float64, dt float64) float64 {
	ts := make([]float64, 0, len(sep))
	logs := make([]float64, 0, len(sep))
	for i, d := range sep {
		if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}
		ts = append(ts, float64(i+1)*dt)
		logs = append(logs, math.Log(d))
	}
	if len(ts) < 2 {
		return 0
	}
	_, slope := stat.LinearRegression(ts, logs, nil, false)
	return slope
}
