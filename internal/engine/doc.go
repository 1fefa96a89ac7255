// Package engine defines the rigid-body capabilities the pendulum host relies on
// and a small reference implementation.
//
// [Engine] is the whole contract: query a pose, apply a force or impulse, advance
// one step. [World] implements it for point masses hanging from ball-and-socket
// joints, which is all the magnetic pendulum needs. It is not a general solver:
// there is no rotation, no torque and contact is only resolved against static
// planes.
package engine
