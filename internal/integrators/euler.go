package integrators

import "github.com/san-kum/servosim/internal/dynamics"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamics.System, x dynamics.State, torque, t, dt float64) dynamics.State {
	dx := dyn.Derive(x, torque, t)
	result := make(dynamics.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
