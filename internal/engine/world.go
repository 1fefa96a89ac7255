package engine

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magpend/internal/dynamo"
)

// World is the reference Engine: a set of point-mass bodies under uniform gravity.
type World struct {
	gravity    mgl64.Vec3
	damping    float64
	integrator dynamo.Integrator
	bodies     []*body
	names      map[string]BodyID
	time       float64
}

// NewWorld creates an empty world stepped with integ.
func NewWorld(gravity mgl64.Vec3, integ dynamo.Integrator) *World {
	return &World{
		gravity:    gravity,
		integrator: integ,
		names:      make(map[string]BodyID),
	}
}

func (w *World) Gravity() mgl64.Vec3 { return w.gravity }
func (w *World) Time() float64       { return w.time }
func (w *World) Damping() float64    { return w.damping }

// SetDamping sets the linear damping coefficient (N·s/m) applied to every dynamic body.
func (w *World) SetDamping(c float64) { w.damping = c }

// AddBody registers a body at position and returns its handle.
func (w *World) AddBody(name string, position mgl64.Vec3, imp Impostor) BodyID {
	id := BodyID(len(w.bodies))
	w.bodies = append(w.bodies, &body{name: name, impostor: imp, position: position})
	w.names[name] = id
	return id
}

// Lookup returns the handle of a named body.
func (w *World) Lookup(name string) (BodyID, bool) {
	id, ok := w.names[name]
	return id, ok
}

func (w *World) get(id BodyID) (*body, error) {
	if id < 0 || int(id) >= len(w.bodies) {
		return nil, fmt.Errorf("body %d: %w", id, ErrUnknownBody)
	}
	return w.bodies[id], nil
}

func (w *World) Impostor(id BodyID) (Impostor, error) {
	b, err := w.get(id)
	if err != nil {
		return Impostor{}, err
	}
	return b.impostor, nil
}

// AddJoint attaches a dynamic body to a static anchor with a ball-and-socket joint.
// The body is moved onto the joint sphere if it is not already there.
func (w *World) AddJoint(anchor, id BodyID, j BallJoint) error {
	a, err := w.get(anchor)
	if err != nil {
		return err
	}
	b, err := w.get(id)
	if err != nil {
		return err
	}
	if !a.impostor.Static() {
		return fmt.Errorf("anchor %q must be static: %w", a.name, ErrInvalidJoint)
	}
	if b.impostor.Static() {
		return fmt.Errorf("body %q: %w", b.name, ErrStaticBody)
	}
	radius := j.ConnectedPivot.Len()
	if radius == 0 {
		return fmt.Errorf("connected pivot at body centre: %w", ErrInvalidJoint)
	}

	b.joint = &joint{anchor: anchor, offset: j.MainPivot, radius: radius}

	pivot := a.position.Add(j.MainPivot)
	rel := b.position.Sub(pivot)
	if rel.LenSqr() == 0 {
		rel = j.ConnectedPivot.Mul(-1)
	}
	b.position = pivot.Add(rel.Normalize().Mul(radius))
	b.velocity = mgl64.Vec3{}
	return nil
}

// Pivot returns the world position of the joint pivot holding id.
func (w *World) Pivot(id BodyID) (mgl64.Vec3, error) {
	b, err := w.get(id)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	if b.joint == nil {
		return mgl64.Vec3{}, fmt.Errorf("body %q has no joint: %w", b.name, ErrInvalidJoint)
	}
	return w.bodies[b.joint.anchor].position.Add(b.joint.offset), nil
}

func (w *World) Pose(id BodyID) (Pose, error) {
	b, err := w.get(id)
	if err != nil {
		return Pose{}, err
	}
	return Pose{Position: b.position, AbsolutePosition: b.position, Velocity: b.velocity}, nil
}

// SetPose overwrites a dynamic body's position and velocity, re-projecting jointed bodies.
func (w *World) SetPose(id BodyID, position, velocity mgl64.Vec3) error {
	b, err := w.get(id)
	if err != nil {
		return err
	}
	if b.impostor.Static() {
		return fmt.Errorf("body %q: %w", b.name, ErrStaticBody)
	}
	b.position, b.velocity = position, velocity
	w.constrain(b)
	return nil
}

// ApplyForce accumulates force until the next Step. The point-mass model applies it
// at the centre of mass; point is accepted for interface parity.
func (w *World) ApplyForce(id BodyID, force, point mgl64.Vec3) error {
	b, err := w.get(id)
	if err != nil {
		return err
	}
	if b.impostor.Static() {
		return nil
	}
	b.force = b.force.Add(force)
	return nil
}

func (w *World) ApplyImpulse(id BodyID, impulse, point mgl64.Vec3) error {
	b, err := w.get(id)
	if err != nil {
		return err
	}
	if b.impostor.Static() {
		return nil
	}
	b.velocity = b.velocity.Add(impulse.Mul(1 / b.impostor.Mass))
	w.constrain(b)
	return nil
}

// Step advances every dynamic body by dt and clears accumulated forces.
func (w *World) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("dt=%g: %w", dt, ErrInvalidStep)
	}

	for _, b := range w.bodies {
		if b.impostor.Static() {
			continue
		}

		dyn := &pointMass{mass: b.impostor.Mass, gravity: w.gravity, damping: w.damping}
		if b.joint != nil {
			dyn.jointed = true
			dyn.pivot = w.bodies[b.joint.anchor].position.Add(b.joint.offset)
		}

		u := dynamo.ForceControl(b.force)
		b.setState(w.integrator.Step(dyn, b.state(), u, w.time, dt))
		w.constrain(b)
		w.collide(b)
		b.force = mgl64.Vec3{}
	}

	w.time += dt
	return nil
}

// constrain projects a jointed body back onto its sphere and strips radial velocity.
func (w *World) constrain(b *body) {
	if b.joint == nil {
		return
	}
	pivot := w.bodies[b.joint.anchor].position.Add(b.joint.offset)
	rel := b.position.Sub(pivot)
	l := rel.Len()
	if l == 0 {
		return
	}
	n := rel.Mul(1 / l)
	b.position = pivot.Add(n.Mul(b.joint.radius))
	b.velocity = b.velocity.Sub(n.Mul(b.velocity.Dot(n)))
}

// collide bounces b off every static plane it has passed through.
func (w *World) collide(b *body) {
	for _, s := range w.bodies {
		if !s.impostor.Static() || s.impostor.Shape != ShapePlane {
			continue
		}
		floor := s.position.Y()
		if b.position.Y() >= floor {
			continue
		}
		b.position[1] = floor
		if b.velocity.Y() < 0 {
			b.velocity[1] = -b.velocity.Y() * b.impostor.Restitution * s.impostor.Restitution
		}
	}
}

var _ Engine = (*World)(nil)
