package integrators

import "github.com/san-kum/magpend/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method. The control input is held
// constant across the four stages, matching a force applied for one whole frame.
type RK4 struct {
	stage dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

// offset writes x + h*k into the stage buffer.
func (r *RK4) offset(x, k dynamo.State, h float64) dynamo.State {
	if len(r.stage) != len(x) {
		r.stage = make(dynamo.State, len(x))
	}
	for i := range x {
		r.stage[i] = x[i] + h*k[i]
	}
	return r.stage
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	half := 0.5 * dt

	k1 := dyn.Derive(x, u, t).Clone()
	k2 := dyn.Derive(r.offset(x, k1, half), u, t+half).Clone()
	k3 := dyn.Derive(r.offset(x, k2, half), u, t+half).Clone()
	k4 := dyn.Derive(r.offset(x, k3, dt), u, t+dt)

	result := make(dynamo.State, len(x))
	dt6 := dt / 6.0
	for i := range x {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}
