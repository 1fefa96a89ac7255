package scene_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/magpend/internal/dipole"
	"github.com/san-kum/magpend/internal/dynamo"
	"github.com/san-kum/magpend/internal/integrators"
	"github.com/san-kum/magpend/internal/scene"
)

var _ = Describe("Context", func() {
	var opts scene.Options

	BeforeEach(func() {
		opts = scene.DefaultOptions()
	})

	build := func() *scene.Context {
		sc, err := scene.Build(opts, integrators.NewRK4())
		Expect(err).NotTo(HaveOccurred())
		return sc
	}

	Describe("Build", func() {
		It("hangs the bob at the origin below the pivot", func() {
			sc := build()
			Expect(sc.Pivot).To(Equal(mgl64.Vec3{0, 0.25, 0}))
			x, err := sc.State()
			Expect(err).NotTo(HaveOccurred())
			Expect(x[0]).To(BeNumerically("~", 0, 1e-12))
			Expect(x[1]).To(BeNumerically("~", 0, 1e-12))
			Expect(x[2]).To(BeNumerically("~", 0, 1e-12))
		})

		It("rests the base magnet on the ground", func() {
			sc := build()
			base, err := sc.Engine.Pose(sc.Base)
			Expect(err).NotTo(HaveOccurred())
			Expect(base.Position.Y()).To(BeNumerically("~", -0.275, 1e-12))
		})

		It("starts displaced by theta and phi", func() {
			opts.Theta = math.Pi / 2
			opts.Phi = math.Pi / 2
			x, _ := build().State()
			Expect(x[0]).To(BeNumerically("~", 0, 1e-12))
			Expect(x[1]).To(BeNumerically("~", 0.25, 1e-12))
			Expect(x[2]).To(BeNumerically("~", 0.25, 1e-12))
		})

		It("rejects unknown laws and bad parameters", func() {
			opts.Law = "coulomb"
			_, err := scene.Build(opts, integrators.NewRK4())
			Expect(err).To(HaveOccurred())

			opts = scene.DefaultOptions()
			opts.Mass = 0
			_, err = scene.Build(opts, integrators.NewRK4())
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})
	})

	Describe("Step", func() {
		It("applies the negated literal force at rest", func() {
			sc := build()
			u, err := scene.Step(sc, 0.01)
			Expect(err).NotTo(HaveOccurred())

			vol := sc.Magnet.Volume()
			r1 := mgl64.Vec3{0, 0, 0}
			r2 := mgl64.Vec3{0, -0.275, 0}
			m1 := dipole.DipoleMoment(r1, sc.Pivot, opts.Remanence, vol)
			m2 := dipole.FixedMoment(opts.BaseDirection, opts.Remanence, vol)
			want := dipole.MagneticForce(r1, m1, r2, m2).Mul(-1)

			Expect(u).To(HaveLen(3))
			Expect(u[0]).To(BeNumerically("~", want[0], 1e-12))
			Expect(u[1]).To(BeNumerically("~", want[1], 1e-12))
			Expect(u[2]).To(BeNumerically("~", want[2], 1e-12))
			Expect(u[1]).To(BeNumerically(">", 0))
		})

		It("applies nothing without remanence", func() {
			opts.Remanence = 0
			sc := build()
			u, err := scene.Step(sc, 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(u).To(Equal(dynamo.Control{0, 0, 0}))
		})

		It("keeps a centred pendulum on the axis", func() {
			sc := build()
			for i := 0; i < 500; i++ {
				_, err := scene.Step(sc, 0.01)
				Expect(err).NotTo(HaveOccurred())
			}
			x, _ := sc.State()
			Expect(x[0]).To(BeNumerically("~", 0, 1e-12))
			Expect(x[2]).To(BeNumerically("~", 0, 1e-12))
		})

		It("recomputes the moment from the current pose", func() {
			opts.Theta = 0.4
			sc := build()
			first, err := scene.Step(sc, 0.05)
			Expect(err).NotTo(HaveOccurred())
			var last dynamo.Control
			for i := 0; i < 10; i++ {
				last, err = scene.Step(sc, 0.05)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(last).NotTo(Equal(first))
		})

		It("repels and attracts with the dipole law", func() {
			opts.Law = "dipole"
			opts.Negate = false
			u, err := scene.Step(build(), 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(u[1]).To(BeNumerically(">", 0))

			opts.BaseDirection = mgl64.Vec3{0, -1, 0}
			u, err = scene.Step(build(), 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(u[1]).To(BeNumerically("<", 0))
		})

		Context("with the base magnet at the bob", func() {
			BeforeEach(func() {
				at := mgl64.Vec3{0, 0, 0}
				opts.BasePosition = &at
			})

			It("poisons the frame when not strict", func() {
				sc := build()
				u, err := scene.Step(sc, 0.01)
				Expect(err).NotTo(HaveOccurred())
				Expect(u.IsFinite()).To(BeFalse())
				x, _ := sc.State()
				Expect(x.IsValid()).To(BeFalse())
			})

			It("fails fast when strict", func() {
				opts.Strict = true
				sc := build()
				before, _ := sc.State()
				_, err := scene.Step(sc, 0.01)
				Expect(err).To(MatchError(dipole.ErrCoincident))
				after, _ := sc.State()
				Expect(after).To(Equal(before))
			})
		})
	})

	Describe("Prod", func() {
		It("kicks the bob along x and z", func() {
			sc := build()
			Expect(scene.Prod(sc, scene.AxisX, scene.DefaultProd)).To(Succeed())
			x, _ := sc.State()
			Expect(x[3]).To(BeNumerically("~", 0.5, 1e-12))

			Expect(scene.Prod(sc, scene.AxisZ, scene.DefaultProd)).To(Succeed())
			x, _ = sc.State()
			Expect(x[5]).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("rejects a zero direction", func() {
			Expect(scene.Prod(build(), mgl64.Vec3{}, 1)).NotTo(Succeed())
		})
	})

	Describe("params", func() {
		It("tunes remanence and damping", func() {
			sc := build()
			Expect(sc.SetParam("remanence", 0.5)).To(Succeed())
			Expect(sc.SetParam("damping", 0.2)).To(Succeed())
			Expect(sc.GetParams()).To(Equal(map[string]float64{"remanence": 0.5, "damping": 0.2}))
			Expect(sc.SetParam("damping", -1)).To(MatchError(dynamo.ErrParameterBounds))
			Expect(sc.SetParam("colour", 1)).To(MatchError(dynamo.ErrUnknownParam))
		})
	})
})
