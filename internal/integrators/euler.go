package integrators

import "github.com/san-kum/magpend/internal/dynamo"

// Euler is the explicit first-order method. Cheap, drifts quickly; kept for comparison.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	return x.Add(dyn.Derive(x, u, t).Scale(dt))
}
