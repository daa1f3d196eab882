package joint

import (
	"math"
	"testing"

	"github.com/san-kum/servosim/internal/integrators"
)

func TestPendulumSettlesWithoutTorque(t *testing.T) {
	p := NewPendulum(integrators.NewRK4())
	p.Damping = 0.5
	p.SetState(0.5, 0)

	for i := 0; i < 5000; i++ {
		p.Step(0.01)
	}

	if math.Abs(p.Position()) > 0.05 {
		t.Errorf("damped pendulum should settle near 0, got theta=%f", p.Position())
	}
	if math.Abs(p.Velocity()) > 0.05 {
		t.Errorf("damped pendulum should stop, got omega=%f", p.Velocity())
	}
}

func TestPendulumEnergyDecays(t *testing.T) {
	p := NewPendulum(integrators.NewRK4())
	p.SetState(1.0, 0)

	initial := p.Energy()
	for i := 0; i < 1000; i++ {
		p.Step(0.01)
	}

	if p.Energy() >= initial {
		t.Errorf("energy should decay under damping: initial=%f final=%f", initial, p.Energy())
	}
}

func TestPendulumHoldsAppliedTorque(t *testing.T) {
	p := NewPendulum(integrators.NewRK4())
	p.SetForce(2.5)

	if p.MeasuredEffort() != 2.5 {
		t.Errorf("expected measured effort 2.5, got %f", p.MeasuredEffort())
	}
}

func TestFreeJointAcceleratesUnderTorque(t *testing.T) {
	f := NewFree(integrators.NewRK4())
	f.Damping = 0
	f.Inertia = 2.0
	f.SetForce(1.0)

	for i := 0; i < 100; i++ {
		f.Step(0.01)
	}

	// omega = torque/inertia * t = 0.5 rad/s after 1s.
	if math.Abs(f.Velocity()-0.5) > 1e-6 {
		t.Errorf("expected omega 0.5, got %f", f.Velocity())
	}
	if f.Position() <= 0 {
		t.Errorf("expected positive rotation, got theta=%f", f.Position())
	}
}

func TestFreeJointDampingLimitsVelocity(t *testing.T) {
	f := NewFree(integrators.NewRK4())
	f.Damping = 0.5
	f.SetForce(1.0)

	for i := 0; i < 10000; i++ {
		f.Step(0.01)
	}

	// Terminal velocity is torque/damping.
	if math.Abs(f.Velocity()-2.0) > 1e-3 {
		t.Errorf("expected terminal velocity 2.0, got %f", f.Velocity())
	}
}
