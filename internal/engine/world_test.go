package engine_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/magpend/internal/engine"
	"github.com/san-kum/magpend/internal/integrators"
)

var _ = Describe("World", func() {
	var (
		world *engine.World
		g     = mgl64.Vec3{0, -9.81, 0}
	)

	BeforeEach(func() {
		world = engine.NewWorld(g, integrators.NewRK4())
	})

	It("rejects unknown bodies", func() {
		_, err := world.Pose(42)
		Expect(err).To(MatchError(engine.ErrUnknownBody))
		Expect(world.ApplyForce(-1, mgl64.Vec3{}, mgl64.Vec3{})).To(MatchError(engine.ErrUnknownBody))
	})

	It("rejects non-positive timesteps", func() {
		Expect(world.Step(0)).To(MatchError(engine.ErrInvalidStep))
		Expect(world.Step(-0.1)).To(MatchError(engine.ErrInvalidStep))
	})

	It("keeps static bodies fixed", func() {
		id := world.AddBody("support", mgl64.Vec3{0, 1, 0}, engine.Impostor{Shape: engine.ShapeBox})
		Expect(world.ApplyForce(id, mgl64.Vec3{100, 0, 0}, mgl64.Vec3{})).To(Succeed())
		for i := 0; i < 10; i++ {
			Expect(world.Step(0.01)).To(Succeed())
		}
		pose, err := world.Pose(id)
		Expect(err).NotTo(HaveOccurred())
		Expect(pose.Position).To(Equal(mgl64.Vec3{0, 1, 0}))
	})

	It("integrates free fall exactly", func() {
		id := world.AddBody("ball", mgl64.Vec3{0, 10, 0}, engine.Impostor{Shape: engine.ShapeSphere, Mass: 2})
		for i := 0; i < 100; i++ {
			Expect(world.Step(0.01)).To(Succeed())
		}
		pose, _ := world.Pose(id)
		Expect(pose.Position.Y()).To(BeNumerically("~", 10-0.5*9.81, 1e-9))
		Expect(pose.Velocity.Y()).To(BeNumerically("~", -9.81, 1e-9))
		Expect(world.Time()).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("applies forces for one step only", func() {
		id := world.AddBody("ball", mgl64.Vec3{}, engine.Impostor{Shape: engine.ShapeSphere, Mass: 2})
		Expect(world.ApplyForce(id, mgl64.Vec3{4, 0, 0}, mgl64.Vec3{})).To(Succeed())
		Expect(world.Step(0.1)).To(Succeed())
		first, _ := world.Pose(id)
		Expect(first.Velocity.X()).To(BeNumerically("~", 0.2, 1e-12))

		Expect(world.Step(0.1)).To(Succeed())
		second, _ := world.Pose(id)
		Expect(second.Velocity.X()).To(BeNumerically("~", 0.2, 1e-12))
	})

	It("changes velocity by impulse over mass", func() {
		id := world.AddBody("ball", mgl64.Vec3{}, engine.Impostor{Shape: engine.ShapeSphere, Mass: 0.5})
		Expect(world.ApplyImpulse(id, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{})).To(Succeed())
		pose, _ := world.Pose(id)
		Expect(pose.Velocity).To(Equal(mgl64.Vec3{0, 0, 2}))
	})

	It("bounces off static planes with combined restitution", func() {
		world.AddBody("ground", mgl64.Vec3{0, 0, 0}, engine.Impostor{Shape: engine.ShapePlane, Restitution: 1})
		id := world.AddBody("ball", mgl64.Vec3{0, 1, 0}, engine.Impostor{Shape: engine.ShapeSphere, Mass: 1, Restitution: 0.5})

		bounced := false
		for i := 0; i < 200 && !bounced; i++ {
			before, _ := world.Pose(id)
			Expect(world.Step(0.01)).To(Succeed())
			after, _ := world.Pose(id)
			Expect(after.Position.Y()).To(BeNumerically(">=", 0))
			if after.Velocity.Y() > 0 {
				bounced = true
				Expect(after.Velocity.Y()).To(BeNumerically("<", -before.Velocity.Y()))
			}
		}
		Expect(bounced).To(BeTrue())
	})

	Context("with a ball-and-socket joint", func() {
		var support, bob engine.BodyID

		BeforeEach(func() {
			support = world.AddBody("support", mgl64.Vec3{0, 1, 0}, engine.Impostor{Shape: engine.ShapeBox})
			bob = world.AddBody("bob", mgl64.Vec3{0.5, 0.5, 0}, engine.Impostor{Shape: engine.ShapeCylinder, Mass: 1})
			Expect(world.AddJoint(support, bob, engine.BallJoint{
				ConnectedPivot: mgl64.Vec3{0, 0.5, 0},
			})).To(Succeed())
		})

		It("validates joint endpoints", func() {
			other := world.AddBody("other", mgl64.Vec3{}, engine.Impostor{Mass: 1})
			Expect(world.AddJoint(bob, other, engine.BallJoint{ConnectedPivot: mgl64.Vec3{0, 1, 0}})).
				To(MatchError(engine.ErrInvalidJoint))
			Expect(world.AddJoint(support, support, engine.BallJoint{ConnectedPivot: mgl64.Vec3{0, 1, 0}})).
				To(MatchError(engine.ErrStaticBody))
			Expect(world.AddJoint(support, other, engine.BallJoint{})).
				To(MatchError(engine.ErrInvalidJoint))
		})

		It("snaps the body onto the joint sphere", func() {
			pose, _ := world.Pose(bob)
			pivot, err := world.Pivot(bob)
			Expect(err).NotTo(HaveOccurred())
			Expect(pose.Position.Sub(pivot).Len()).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("preserves rod length and mechanical energy", func() {
			energy := func() float64 {
				p, _ := world.Pose(bob)
				return 0.5*p.Velocity.LenSqr() + 9.81*p.Position.Y()
			}
			e0 := energy()
			pivot, _ := world.Pivot(bob)

			for i := 0; i < 2000; i++ {
				Expect(world.Step(0.005)).To(Succeed())
				p, _ := world.Pose(bob)
				Expect(p.Position.Sub(pivot).Len()).To(BeNumerically("~", 0.5, 1e-9))
				Expect(p.Velocity.Dot(p.Position.Sub(pivot))).To(BeNumerically("~", 0, 1e-9))
			}
			Expect(math.Abs(energy()-e0) / math.Abs(e0)).To(BeNumerically("<", 1e-3))
		})

		It("stays at rest when hanging straight down", func() {
			Expect(world.SetPose(bob, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{})).To(Succeed())
			for i := 0; i < 100; i++ {
				Expect(world.Step(0.01)).To(Succeed())
			}
			p, _ := world.Pose(bob)
			Expect(p.Position.ApproxEqualThreshold(mgl64.Vec3{0, 0.5, 0}, 1e-12)).To(BeTrue())
		})

		It("loses energy with damping", func() {
			world.SetDamping(0.5)
			for i := 0; i < 2000; i++ {
				Expect(world.Step(0.005)).To(Succeed())
			}
			p, _ := world.Pose(bob)
			Expect(p.Position.Y()).To(BeNumerically("<", 0.52))
		})
	})
})
