package sim

import "github.com/go-gl/mathgl/mgl64"

// Impulse is a prod scheduled at a simulation time.
type Impulse struct {
	Time      float64
	Direction mgl64.Vec3
	Magnitude float64
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
	Impulses      []Impulse
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ValidateState: true,
	}
}

// Steps is the number of frames a run of cfg takes.
func (c Config) Steps() int {
	return int(c.Duration/c.Dt + 1e-9)
}
