package dipole

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3 is an immutable 3-component vector.
type Vector3 = mgl64.Vec3

const (
	// Mu0 is the permeability of free space in T·m/A.
	Mu0 = 4e-7 * math.Pi

	// K is the dipole force prefactor 3*mu0/(4*pi).
	K = 3 * Mu0 / (4 * math.Pi)
)

// ForceLaw computes the force exerted on dipole 1 (r1, m1) by dipole 2 (r2, m2).
type ForceLaw func(r1, m1, r2, m2 Vector3) Vector3

// MagneticForce is the force law the pendulum was tuned against:
//
//	K * (m2*(m1·r) + m2*(m2·r) + r*(m1·m2 + 5*(m1·r)(m2·r)/|r|²))
//
// with r = r1 - r2. Both additive moment terms scale m2; see [DipoleDipoleForce] for
// the symmetric law. Requires r1 != r2.
func MagneticForce(r1, m1, r2, m2 Vector3) Vector3 {
	r := r1.Sub(r2)
	rMag := r.Len()

	s1 := m1.Dot(r)
	s2 := m2.Dot(r)
	s3 := m1.Dot(m2)
	s4 := 5 * s1 * s2 / (rMag * rMag)

	return m2.Mul(s1).Add(m2.Mul(s2)).Add(r.Mul(s3 + s4)).Mul(K)
}

// DipoleDipoleForce is the point-dipole force on dipole 1 due to dipole 2:
//
//	3*mu0/(4*pi*|r|^5) * (m2*(m1·r) + m1*(m2·r) + r*(m1·m2) - 5*r*(m1·r)(m2·r)/|r|²)
//
// Requires r1 != r2.
func DipoleDipoleForce(r1, m1, r2, m2 Vector3) Vector3 {
	r := r1.Sub(r2)
	rMag := r.Len()
	r2Mag := rMag * rMag

	s1 := m1.Dot(r)
	s2 := m2.Dot(r)
	s3 := m1.Dot(m2)
	s4 := 5 * s1 * s2 / r2Mag

	scale := K / (r2Mag * r2Mag * rMag)
	return m2.Mul(s1).Add(m1.Mul(s2)).Add(r.Mul(s3 - s4)).Mul(scale)
}

// Laws maps law names to implementations.
var Laws = map[string]ForceLaw{
	"literal": MagneticForce,
	"dipole":  DipoleDipoleForce,
}

// DefaultLaw is the name of the law used when none is configured.
const DefaultLaw = "literal"

// LookupLaw returns the force law registered under name.
func LookupLaw(name string) (ForceLaw, error) {
	law, ok := Laws[name]
	if !ok {
		return nil, fmt.Errorf("unknown force law: %s (available: %v)", name, LawNames())
	}
	return law, nil
}

// LawNames returns the registered law names in sorted order.
func LawNames() []string {
	names := make([]string, 0, len(Laws))
	for name := range Laws {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFinite reports whether every component of v is neither NaN nor Inf.
func IsFinite(v Vector3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
