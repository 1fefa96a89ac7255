package engine

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magpend/internal/dynamo"
)

type Shape int

const (
	ShapeBox Shape = iota
	ShapeCylinder
	ShapeSphere
	// ShapePlane is a horizontal plane through the body's position. Static planes
	// are the only contact surfaces.
	ShapePlane
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeSphere:
		return "sphere"
	case ShapePlane:
		return "plane"
	default:
		return "unknown"
	}
}

// Impostor carries the physical parameters of a body. Mass 0 makes it static.
type Impostor struct {
	Shape       Shape
	Mass        float64
	Restitution float64
}

func (i Impostor) Static() bool { return i.Mass == 0 }

// BallJoint pins ConnectedPivot (in the body's frame) to MainPivot (in the
// anchor's frame) while leaving rotation about that point free.
type BallJoint struct {
	MainPivot      mgl64.Vec3
	ConnectedPivot mgl64.Vec3
}

type joint struct {
	anchor BodyID
	offset mgl64.Vec3
	radius float64
}

type body struct {
	name     string
	impostor Impostor
	position mgl64.Vec3
	velocity mgl64.Vec3
	force    mgl64.Vec3
	joint    *joint
}

func (b *body) state() dynamo.State {
	return dynamo.BodyState(b.position, b.velocity)
}

func (b *body) setState(x dynamo.State) {
	b.position = x.Position()
	b.velocity = x.Velocity()
}
