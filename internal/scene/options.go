package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magpend/internal/dipole"
)

// Options describes the pendulum rig. Lengths are metres, masses kilograms,
// remanence tesla.
type Options struct {
	Length      float64
	RodDiameter float64
	Mass        float64
	Restitution float64
	Damping     float64
	Gravity     mgl64.Vec3

	MagnetDiameter float64
	MagnetHeight   float64
	Remanence      float64

	// BaseDirection is the fixed moment axis of the ground magnet.
	BaseDirection mgl64.Vec3
	// BasePosition overrides the default spot resting on the ground under the pivot.
	BasePosition *mgl64.Vec3

	Law    string
	Negate bool
	Strict bool

	// Theta is the initial angle from vertical, Phi its azimuth about the y axis.
	Theta float64
	Phi   float64
}

func DefaultOptions() Options {
	return Options{
		Length:         0.5,
		RodDiameter:    0.02,
		Mass:           1.0,
		Restitution:    0.9,
		Gravity:        mgl64.Vec3{0, -0.81, 0},
		MagnetDiameter: 0.1,
		MagnetHeight:   0.05,
		Remanence:      1.2,
		BaseDirection:  mgl64.Vec3{0, 1, 0},
		Law:            dipole.DefaultLaw,
		Negate:         true,
	}
}
