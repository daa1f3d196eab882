package joint

import "github.com/san-kum/servosim/internal/dynamics"

// Free is an unloaded rotational joint: inertia and viscous damping
// only, no gravity term. Suited to velocity and force mode runs where
// a pendulum load would fight the reference.
type Free struct {
	Inertia float64
	Damping float64

	state  dynamics.State // [theta, omega]
	torque float64
	integ  dynamics.Integrator
	t      float64
}

func NewFree(integ dynamics.Integrator) *Free {
	return &Free{
		Inertia: 1.0,
		Damping: 0.1,
		state:   dynamics.State{0, 0},
		integ:   integ,
	}
}

func (f *Free) StateDim() int {
	return 2
}

func (f *Free) Derive(x dynamics.State, torque, t float64) dynamics.State {
	omega := x[1]
	alpha := (torque - f.Damping*omega) / f.Inertia
	return dynamics.State{omega, alpha}
}

func (f *Free) SetState(theta, omega float64) {
	f.state = dynamics.State{theta, omega}
}

func (f *Free) Position() float64       { return f.state[0] }
func (f *Free) Velocity() float64       { return f.state[1] }
func (f *Free) MeasuredEffort() float64 { return f.torque }
func (f *Free) SetForce(v float64)      { f.torque = v }

func (f *Free) Step(dt float64) {
	f.state = f.integ.Step(f, f.state, f.torque, f.t, dt)
	f.t += dt
}
