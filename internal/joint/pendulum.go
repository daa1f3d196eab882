package joint

import (
	"math"

	"github.com/san-kum/servosim/internal/dynamics"
)

// Pendulum is a rotational joint loaded by damped pendulum dynamics.
// Zero angle is straight down.
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64

	state  dynamics.State // [theta, omega]
	torque float64
	integ  dynamics.Integrator
	t      float64
}

func NewPendulum(integ dynamics.Integrator) *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
		state:   dynamics.State{0, 0},
		integ:   integ,
	}
}

func (p *Pendulum) StateDim() int {
	return 2
}

func (p *Pendulum) Derive(x dynamics.State, torque, t float64) dynamics.State {
	theta := x[0]
	omega := x[1]
	alpha := (-p.Damping*omega - p.Mass*p.Gravity*p.Length*math.Sin(theta) + torque) / (p.Mass * p.Length * p.Length)
	return dynamics.State{omega, alpha}
}

// SetState places the joint at an angle with an angular velocity.
func (p *Pendulum) SetState(theta, omega float64) {
	p.state = dynamics.State{theta, omega}
}

func (p *Pendulum) Position() float64       { return p.state[0] }
func (p *Pendulum) Velocity() float64       { return p.state[1] }
func (p *Pendulum) MeasuredEffort() float64 { return p.torque }
func (p *Pendulum) SetForce(v float64)      { p.torque = v }

// Step advances the physics by dt using the torque set this tick.
func (p *Pendulum) Step(dt float64) {
	p.state = p.integ.Step(p, p.state, p.torque, p.t, dt)
	p.t += dt
}

func (p *Pendulum) Energy() float64 {
	v := p.Length * p.state[1]
	ke := 0.5 * p.Mass * v * v
	pe := p.Mass * p.Gravity * p.Length * (1.0 - math.Cos(p.state[0]))
	return ke + pe
}
