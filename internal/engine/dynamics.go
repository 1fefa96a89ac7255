package engine

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magpend/internal/dynamo"
)

// pointMass is the equation of motion of one dynamic body for a single step:
// gravity, linear damping and the frame's external force, optionally
// constrained to a sphere around a fixed pivot.
type pointMass struct {
	mass    float64
	gravity mgl64.Vec3
	damping float64

	jointed bool
	pivot   mgl64.Vec3
}

func (p *pointMass) StateDim() int   { return dynamo.BodyDim }
func (p *pointMass) ControlDim() int { return 3 }

func (p *pointMass) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	pos, vel := x.Position(), x.Velocity()
	force := u.Force()

	acc := p.gravity.Add(force.Sub(vel.Mul(p.damping)).Mul(1 / p.mass))

	if p.jointed {
		rel := pos.Sub(p.pivot)
		l := rel.Len()
		if l > 0 {
			n := rel.Mul(1 / l)
			vt := vel.Sub(n.Mul(vel.Dot(n)))
			// Rod tension cancels the radial part and supplies the centripetal term.
			acc = acc.Sub(n.Mul(acc.Dot(n))).Sub(n.Mul(vt.LenSqr() / l))
		}
	}

	return dynamo.BodyState(vel, acc)
}
