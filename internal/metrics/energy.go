package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magpend/internal/dynamo"
)

// Energy is the mean mechanical energy of the bob, ½mv² - m g·r, over the run.
// The magnetic potential is not included.
type Energy struct {
	name        string
	mass        float64
	gravity     mgl64.Vec3
	samples     int
	totalEnergy float64
}

func NewEnergy(mass float64, gravity mgl64.Vec3) *Energy {
	return &Energy{
		name:    "energy",
		mass:    mass,
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

// Of returns the mechanical energy of a single state.
func (e *Energy) Of(x dynamo.State) float64 {
	if len(x) < dynamo.BodyDim {
		return 0
	}
	pos, vel := x.Position(), x.Velocity()
	return 0.5*e.mass*vel.LenSqr() - e.mass*e.gravity.Dot(pos)
}

func (e *Energy) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < dynamo.BodyDim {
		return
	}
	e.totalEnergy += e.Of(x)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative departure from the first observed energy.
// When that energy is exactly zero (bob at rest at the origin height) the
// departure is reported in joules instead.
type EnergyDrift struct {
	energy   *Energy
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(mass float64, gravity mgl64.Vec3) *EnergyDrift {
	return &EnergyDrift{energy: NewEnergy(mass, gravity)}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < dynamo.BodyDim {
		return
	}
	energy := e.energy.Of(x)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	drift := math.Abs(energy - e.initial)
	if e.initial != 0 {
		drift /= math.Abs(e.initial)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
