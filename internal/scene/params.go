package scene

import (
	"fmt"

	"github.com/san-kum/magpend/internal/dynamo"
)

type damped interface {
	Damping() float64
	SetDamping(float64)
}

func (c *Context) GetParams() map[string]float64 {
	params := map[string]float64{"remanence": c.Remanence}
	if d, ok := c.Engine.(damped); ok {
		params["damping"] = d.Damping()
	}
	return params
}

func (c *Context) SetParam(name string, value float64) error {
	switch name {
	case "remanence":
		c.Remanence = value
	case "damping":
		d, ok := c.Engine.(damped)
		if !ok {
			return fmt.Errorf("engine has no damping: %w", dynamo.ErrUnknownParam)
		}
		if value < 0 {
			return fmt.Errorf("damping=%g: %w", value, dynamo.ErrParameterBounds)
		}
		d.SetDamping(value)
	default:
		return fmt.Errorf("%s: %w", name, dynamo.ErrUnknownParam)
	}
	return nil
}

var _ dynamo.Configurable = (*Context)(nil)
