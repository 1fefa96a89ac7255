package dipole

import "math"

// Cylinder is a solid cylindrical magnet.
type Cylinder struct {
	diameter float64
	height   float64
	volume   float64
}

func NewCylinder(diameter, height float64) Cylinder {
	return Cylinder{
		diameter: diameter,
		height:   height,
		volume:   height * diameter * diameter * math.Pi / 4,
	}
}

func (c Cylinder) Diameter() float64 { return c.diameter }
func (c Cylinder) Height() float64   { return c.height }
func (c Cylinder) Volume() float64   { return c.volume }

// MomentMagnitude returns Br*V/mu0 for a magnet of the given remanence and volume.
func MomentMagnitude(remanence, volume float64) float64 {
	return remanence * volume / Mu0
}

// DipoleMoment returns the moment of a magnet whose axis points from pivot to position.
// Requires position != pivot.
func DipoleMoment(position, pivot Vector3, remanence, volume float64) Vector3 {
	dir := position.Sub(pivot).Normalize()
	return dir.Mul(MomentMagnitude(remanence, volume))
}

// FixedMoment returns the moment of a magnet with a constant axis direction.
func FixedMoment(direction Vector3, remanence, volume float64) Vector3 {
	return direction.Normalize().Mul(MomentMagnitude(remanence, volume))
}
