package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/magpend/internal/dynamo"
)

// MaxSwing tracks the largest angle, in degrees, between the rod and the
// downward vertical through the pivot.
type MaxSwing struct {
	pivot mgl64.Vec3
	max   float64
}

func NewMaxSwing(pivot mgl64.Vec3) *MaxSwing {
	return &MaxSwing{pivot: pivot}
}

func (s *MaxSwing) Name() string { return "max_swing" }

func (s *MaxSwing) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if angle := SwingAngle(s.pivot, x); angle > s.max {
		s.max = angle
	}
}

func (s *MaxSwing) Value() float64 { return s.max }
func (s *MaxSwing) Reset()         { s.max = 0 }

// SwingAngle returns the rod angle from vertical in degrees, or 0 for a
// degenerate or non-finite state.
func SwingAngle(pivot mgl64.Vec3, x dynamo.State) float64 {
	if len(x) < 3 || !x.IsValid() {
		return 0
	}
	rel := x.Position().Sub(pivot)
	l := rel.Len()
	if l == 0 {
		return 0
	}
	c := math.Max(-1, math.Min(1, -rel.Y()/l))
	return math.Acos(c) * 180 / math.Pi
}
