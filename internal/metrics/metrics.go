package metrics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magpend/internal/dynamo"
)

// Default returns the metric set recorded for every pendulum run.
func Default(mass float64, gravity, pivot mgl64.Vec3) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(mass, gravity),
		NewEnergyDrift(mass, gravity),
		NewMaxSwing(pivot),
		NewForceEffort(),
		NewNonFinite(),
	}
}
