package integrators

import "github.com/san-kum/magpend/internal/dynamo"

// Verlet and Leapfrog assume the state is laid out as positions followed by
// velocities of equal length, e.g. {x, y, z, vx, vy, vz}.

type Verlet struct {
	trial dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.trial) != n {
		v.trial = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	acc := dyn.Derive(x, u, t).Clone()

	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dt + 0.5*acc[half+i]*dt*dt
		v.trial[i] = result[i]
		v.trial[half+i] = x[half+i] + acc[half+i]*dt
	}

	accNew := dyn.Derive(v.trial, u, t+dt)
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + 0.5*(acc[half+i]+accNew[half+i])*dt
	}
	return result
}

type Leapfrog struct {
	trial dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(l.trial) != n {
		l.trial = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	acc := dyn.Derive(x, u, t)
	halfDt := 0.5 * dt

	// kick, drift
	for i := 0; i < half; i++ {
		l.trial[half+i] = x[half+i] + acc[half+i]*halfDt
		result[i] = x[i] + l.trial[half+i]*dt
		l.trial[i] = result[i]
	}

	// kick
	accNew := dyn.Derive(l.trial, u, t+dt)
	for i := 0; i < half; i++ {
		result[half+i] = l.trial[half+i] + accNew[half+i]*halfDt
	}
	return result
}
