package sim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/servosim/internal/pid"
	"github.com/san-kum/servosim/internal/servo"
)

// inertiaJoint is a minimal steppable joint: torque integrates
// straight into velocity and position.
type inertiaJoint struct {
	theta  float64
	omega  float64
	torque float64
}

func (j *inertiaJoint) Position() float64       { return j.theta }
func (j *inertiaJoint) Velocity() float64       { return j.omega }
func (j *inertiaJoint) MeasuredEffort() float64 { return j.torque }
func (j *inertiaJoint) SetForce(v float64)      { j.torque = v }

func (j *inertiaJoint) Step(dt float64) {
	j.omega += dt * j.torque
	j.theta += dt * j.omega
}

// nanJoint reports NaN position after a few steps.
type nanJoint struct {
	inertiaJoint
	steps int
}

func (j *nanJoint) Step(dt float64) {
	j.steps++
	if j.steps >= 3 {
		j.theta = math.NaN()
	}
}

func velocityMotor(j *inertiaJoint) *servo.Motor {
	return servo.New(servo.Config{
		Mode:        servo.Velocity,
		Direction:   servo.CCW,
		MaxVelocity: 100,
		MaxTorque:   100,
		MaxPosition: math.Pi,
		MinPosition: -math.Pi,
		PID:         pid.Gains{P: 1.0, CmdMax: 50, CmdMin: -50},
	}, j)
}

func TestSimulatorRun(t *testing.T) {
	jnt := &inertiaJoint{}
	s := New(jnt, velocityMotor(jnt), Constant{Value: 1.0})

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Ticks) != 10 {
		t.Errorf("expected 10 ticks, got %d", len(result.Ticks))
	}

	// The joint should have been pushed toward the reference velocity.
	if jnt.omega <= 0 {
		t.Errorf("expected positive velocity, got %f", jnt.omega)
	}

	last := result.Ticks[len(result.Ticks)-1]
	if last.Reference != 1.0 {
		t.Errorf("expected reference 1.0, got %f", last.Reference)
	}
}

func TestSimulatorValidatesConfig(t *testing.T) {
	jnt := &inertiaJoint{}
	s := New(jnt, velocityMotor(jnt), Constant{Value: 0})

	if _, err := s.Run(context.Background(), Config{Dt: 0, Duration: 1.0}); err == nil {
		t.Error("expected error for zero dt")
	}
	if _, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: -1}); err == nil {
		t.Error("expected error for negative duration")
	}
}

func TestSimulatorContextCancel(t *testing.T) {
	jnt := &inertiaJoint{}
	s := New(jnt, velocityMotor(jnt), Constant{Value: 1.0})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, Config{Dt: 0.01, Duration: 10.0})
	if err == nil {
		t.Error("expected context error")
	}
	if len(result.Ticks) != 0 {
		t.Errorf("expected no ticks after immediate cancel, got %d", len(result.Ticks))
	}
}

func TestSimulatorStopsOnInvalidState(t *testing.T) {
	jnt := &nanJoint{}
	motor := velocityMotor(&jnt.inertiaJoint)
	s := New(jnt, motor, Constant{Value: 1.0})

	result, err := s.Run(context.Background(), Config{Dt: 0.01, Duration: 10.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 recorded error, got %d", len(result.Errors))
	}
	if len(result.Ticks) >= 1000 {
		t.Errorf("expected early stop, got %d ticks", len(result.Ticks))
	}
}

func TestSimulatorMetrics(t *testing.T) {
	jnt := &inertiaJoint{}
	s := New(jnt, velocityMotor(jnt), Constant{Value: 1.0})

	m := &countingMetric{}
	s.AddMetric(m)

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if m.count != 10 {
		t.Errorf("metric should observe every tick, got %d", m.count)
	}
	if result.Metrics["count"] != 10 {
		t.Errorf("expected metric value 10, got %f", result.Metrics["count"])
	}
}

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string    { return "count" }
func (c *countingMetric) Observe(tk Tick) { c.count++ }
func (c *countingMetric) Value() float64  { return float64(c.count) }
func (c *countingMetric) Reset()          { c.count = 0 }

func TestRunWithCallbackStops(t *testing.T) {
	jnt := &inertiaJoint{}
	s := New(jnt, velocityMotor(jnt), Constant{Value: 1.0})

	calls := 0
	err := s.RunWithCallback(context.Background(), Config{Dt: 0.01, Duration: 10.0}, func(tk Tick) bool {
		calls++
		return calls < 5
	})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if calls != 5 {
		t.Errorf("expected 5 callbacks, got %d", calls)
	}
}

func TestCommanders(t *testing.T) {
	c := Constant{Value: 2.0}
	if c.Reference(0) != 2.0 || c.Reference(100) != 2.0 {
		t.Error("constant commander should never change")
	}

	st := Step{Before: 1.0, After: -1.0, At: 5.0}
	if st.Reference(4.99) != 1.0 {
		t.Error("step commander switched early")
	}
	if st.Reference(5.0) != -1.0 {
		t.Error("step commander should switch at the boundary")
	}

	sine := Sine{Amplitude: 2.0, Frequency: 0.5, Offset: 1.0}
	if sine.Reference(0) != 1.0 {
		t.Errorf("sine at t=0 should equal offset, got %f", sine.Reference(0))
	}
	// Quarter period of 0.5 Hz is 0.5 s: peak amplitude.
	if math.Abs(sine.Reference(0.5)-3.0) > 1e-9 {
		t.Errorf("sine peak should be offset+amplitude, got %f", sine.Reference(0.5))
	}
}
