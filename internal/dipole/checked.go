package dipole

import (
	"errors"
	"fmt"
)

var (
	// ErrCoincident indicates two dipoles share the same position.
	ErrCoincident = errors.New("dipole: coincident positions")

	// ErrZeroDirection indicates a moment axis of zero length.
	ErrZeroDirection = errors.New("dipole: zero-length moment direction")

	// ErrNonFinite indicates a force law produced NaN or Inf.
	ErrNonFinite = errors.New("dipole: non-finite force")
)

// CheckedForce evaluates law after verifying r1 != r2.
func CheckedForce(law ForceLaw, r1, m1, r2, m2 Vector3) (Vector3, error) {
	if r1.Sub(r2).LenSqr() == 0 {
		return Vector3{}, fmt.Errorf("force between %v and %v: %w", r1, r2, ErrCoincident)
	}
	f := law(r1, m1, r2, m2)
	if !IsFinite(f) {
		return f, fmt.Errorf("force between %v and %v: %w", r1, r2, ErrNonFinite)
	}
	return f, nil
}

// CheckedMoment is DipoleMoment with the position != pivot precondition enforced.
func CheckedMoment(position, pivot Vector3, remanence, volume float64) (Vector3, error) {
	if position.Sub(pivot).LenSqr() == 0 {
		return Vector3{}, fmt.Errorf("moment at %v: %w", position, ErrZeroDirection)
	}
	return DipoleMoment(position, pivot, remanence, volume), nil
}

// CheckedFixedMoment is FixedMoment with a non-zero direction enforced.
func CheckedFixedMoment(direction Vector3, remanence, volume float64) (Vector3, error) {
	if direction.LenSqr() == 0 {
		return Vector3{}, fmt.Errorf("fixed moment: %w", ErrZeroDirection)
	}
	return FixedMoment(direction, remanence, volume), nil
}
