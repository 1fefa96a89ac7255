package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magpend/internal/dipole"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/san-kum/magpend/internal/engine"
)

// Context is everything one frame needs: the engine, the body handles and the
// magnet parameters. It holds no per-frame cache.
type Context struct {
	Engine engine.Engine

	Support engine.BodyID
	Bob     engine.BodyID
	Base    engine.BodyID
	Ground  engine.BodyID

	Pivot   mgl64.Vec3
	Mass    float64
	Gravity mgl64.Vec3

	Magnet        dipole.Cylinder
	Remanence     float64
	BaseDirection mgl64.Vec3

	LawName string
	Law     dipole.ForceLaw
	Negate  bool
	Strict  bool
}

// Build creates the rig in a fresh engine.World stepped by integ.
//
// The support box sits at y = length/2 and the pendulum hangs from it through a
// ball-and-socket joint at the top of the rod, so at rest the bob's centre is at
// the origin. The ground is at y = -0.6*length with the base magnet on it.
func Build(opts Options, integ dynamo.Integrator) (*Context, error) {
	if opts.Length <= 0 {
		return nil, fmt.Errorf("length=%g: %w", opts.Length, dynamo.ErrParameterBounds)
	}
	if opts.Mass <= 0 {
		return nil, fmt.Errorf("mass=%g: %w", opts.Mass, dynamo.ErrParameterBounds)
	}
	law, err := dipole.LookupLaw(opts.Law)
	if err != nil {
		return nil, err
	}

	world := engine.NewWorld(opts.Gravity, integ)
	world.SetDamping(opts.Damping)

	half := opts.Length / 2
	groundY := -0.6 * opts.Length

	support := world.AddBody("support", mgl64.Vec3{0, half, 0},
		engine.Impostor{Shape: engine.ShapeBox, Restitution: opts.Restitution})
	bob := world.AddBody("pendulum", mgl64.Vec3{},
		engine.Impostor{Shape: engine.ShapeCylinder, Mass: opts.Mass, Restitution: opts.Restitution})
	ground := world.AddBody("ground", mgl64.Vec3{0, groundY, 0},
		engine.Impostor{Shape: engine.ShapePlane, Restitution: opts.Restitution})

	basePos := mgl64.Vec3{0, groundY + opts.MagnetHeight/2, 0}
	if opts.BasePosition != nil {
		basePos = *opts.BasePosition
	}
	base := world.AddBody("base", basePos, engine.Impostor{Shape: engine.ShapeCylinder})

	joint := engine.BallJoint{ConnectedPivot: mgl64.Vec3{0, half, 0}}
	if err := world.AddJoint(support, bob, joint); err != nil {
		return nil, fmt.Errorf("attach pendulum: %w", err)
	}

	pivot, err := world.Pivot(bob)
	if err != nil {
		return nil, err
	}

	sinT, cosT := math.Sincos(opts.Theta)
	sinP, cosP := math.Sincos(opts.Phi)
	start := pivot.Add(mgl64.Vec3{sinT * cosP, -cosT, sinT * sinP}.Mul(half))
	if err := world.SetPose(bob, start, mgl64.Vec3{}); err != nil {
		return nil, err
	}

	return &Context{
		Engine:        world,
		Support:       support,
		Bob:           bob,
		Base:          base,
		Ground:        ground,
		Pivot:         pivot,
		Mass:          opts.Mass,
		Gravity:       opts.Gravity,
		Magnet:        dipole.NewCylinder(opts.MagnetDiameter, opts.MagnetHeight),
		Remanence:     opts.Remanence,
		BaseDirection: opts.BaseDirection,
		LawName:       opts.Law,
		Law:           law,
		Negate:        opts.Negate,
		Strict:        opts.Strict,
	}, nil
}

// Force evaluates the magnetic force on a bob at r1 from the base magnet at r2,
// with the context's sign convention applied.
func (c *Context) Force(r1, r2 mgl64.Vec3) (mgl64.Vec3, error) {
	vol := c.Magnet.Volume()

	var f mgl64.Vec3
	if c.Strict {
		m1, err := dipole.CheckedMoment(r1, c.Pivot, c.Remanence, vol)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		m2, err := dipole.CheckedFixedMoment(c.BaseDirection, c.Remanence, vol)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		if f, err = dipole.CheckedForce(c.Law, r1, m1, r2, m2); err != nil {
			return mgl64.Vec3{}, err
		}
	} else {
		m1 := dipole.DipoleMoment(r1, c.Pivot, c.Remanence, vol)
		m2 := dipole.FixedMoment(c.BaseDirection, c.Remanence, vol)
		f = c.Law(r1, m1, r2, m2)
	}

	if c.Negate {
		f = f.Mul(-1)
	}
	return f, nil
}

// Step runs one frame and returns the force applied to the bob.
func Step(c *Context, dt float64) (dynamo.Control, error) {
	bob, err := c.Engine.Pose(c.Bob)
	if err != nil {
		return nil, err
	}
	base, err := c.Engine.Pose(c.Base)
	if err != nil {
		return nil, err
	}

	force, err := c.Force(bob.Position, base.Position)
	if err != nil {
		return nil, fmt.Errorf("frame force: %w", err)
	}

	if err := c.Engine.ApplyForce(c.Bob, force, bob.AbsolutePosition); err != nil {
		return nil, err
	}
	if err := c.Engine.Step(dt); err != nil {
		return nil, err
	}

	return dynamo.ForceControl(force), nil
}

// State returns the bob's {x, y, z, vx, vy, vz}.
func (c *Context) State() (dynamo.State, error) {
	p, err := c.Engine.Pose(c.Bob)
	if err != nil {
		return nil, err
	}
	return dynamo.BodyState(p.Position, p.Velocity), nil
}
