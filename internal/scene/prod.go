package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultProd is the impulse magnitude (N·s) of a user prod.
const DefaultProd = 0.5

var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// Prod kicks the bob along direction with the given impulse magnitude, applied at
// its absolute position.
func Prod(c *Context, direction mgl64.Vec3, magnitude float64) error {
	if direction.LenSqr() == 0 {
		return fmt.Errorf("prod: zero direction")
	}
	pose, err := c.Engine.Pose(c.Bob)
	if err != nil {
		return err
	}
	return c.Engine.ApplyImpulse(c.Bob, direction.Normalize().Mul(magnitude), pose.AbsolutePosition)
}
