package engine

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrUnknownBody  = errors.New("engine: unknown body")
	ErrStaticBody   = errors.New("engine: body is static")
	ErrInvalidJoint = errors.New("engine: invalid joint")
	ErrInvalidStep  = errors.New("engine: timestep must be positive")
)

// BodyID is a handle returned by AddBody.
type BodyID int

// Pose is the kinematic snapshot of a body.
type Pose struct {
	Position         mgl64.Vec3
	AbsolutePosition mgl64.Vec3
	Velocity         mgl64.Vec3
}

// Engine is the set of rigid-body operations the host calls each frame.
type Engine interface {
	Pose(id BodyID) (Pose, error)
	// ApplyForce adds force at point for the next Step only.
	ApplyForce(id BodyID, force, point mgl64.Vec3) error
	ApplyImpulse(id BodyID, impulse, point mgl64.Vec3) error
	Step(dt float64) error
}
