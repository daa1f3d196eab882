package dynamics

import "math"

// State is the continuous state vector of a joint's dynamics.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an ODE of the form dX/dt = f(X, torque, t) describing one
// rotational degree of freedom.
type System interface {
	Derive(x State, torque, t float64) State
	StateDim() int
}

// Integrator advances a System by a fixed step.
type Integrator interface {
	Step(dyn System, x State, torque, t, dt float64) State
}
