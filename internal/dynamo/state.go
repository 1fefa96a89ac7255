package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Component offsets of a rigid-body State.
const (
	PosX = iota
	PosY
	PosZ
	VelX
	VelY
	VelZ

	// BodyDim is the length of a rigid-body State.
	BodyDim
)

// State is a flat state vector. Rigid bodies use {x, y, z, vx, vy, vz}.
type State []float64

// BodyState packs a position and velocity into the rigid-body layout.
func BodyState(pos, vel mgl64.Vec3) State {
	return State{pos[0], pos[1], pos[2], vel[0], vel[1], vel[2]}
}

// Position returns the first three components, or zero for a shorter state.
func (s State) Position() mgl64.Vec3 {
	if len(s) < PosZ+1 {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{s[PosX], s[PosY], s[PosZ]}
}

// Velocity returns components 3..5, or zero for a shorter state.
func (s State) Velocity() mgl64.Vec3 {
	if len(s) < BodyDim {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{s[VelX], s[VelY], s[VelZ]}
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	return finite(s)
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Add, Sub and Scale return new states. Components missing from other are
// treated as zero.
func (s State) Add(other State) State {
	out := s.Clone()
	for i := range out {
		if i < len(other) {
			out[i] += other[i]
		}
	}
	return out
}

func (s State) Sub(other State) State {
	out := s.Clone()
	for i := range out {
		if i < len(other) {
			out[i] -= other[i]
		}
	}
	return out
}

func (s State) Scale(factor float64) State {
	out := make(State, len(s))
	for i, v := range s {
		out[i] = v * factor
	}
	return out
}

// Control is the external input held constant over one step: the applied force.
type Control []float64

// ForceControl wraps a force vector.
func ForceControl(f mgl64.Vec3) Control {
	return Control{f[0], f[1], f[2]}
}

// Force returns the force vector, or zero when u carries fewer than three components.
func (u Control) Force() mgl64.Vec3 {
	if len(u) < 3 {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{u[0], u[1], u[2]}
}

// Magnitude is |F|; NaN or Inf for a degenerate frame.
func (u Control) Magnitude() float64 {
	return State(u).Norm()
}

func (u Control) IsFinite() bool {
	return finite(u)
}

func finite(v []float64) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
