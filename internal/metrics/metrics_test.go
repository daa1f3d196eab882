package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/servosim/internal/sim"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()

	m.Observe(sim.Tick{Applied: 2.0})
	m.Observe(sim.Tick{Applied: -4.0})

	if got := m.Value(); got != 3.0 {
		t.Errorf("expected mean effort 3.0, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}

func TestPeakForce(t *testing.T) {
	m := NewPeakForce()

	m.Observe(sim.Tick{Applied: 1.0})
	m.Observe(sim.Tick{Applied: -5.0})
	m.Observe(sim.Tick{Applied: 2.0})

	if got := m.Value(); got != 5.0 {
		t.Errorf("expected peak 5.0, got %f", got)
	}
}

func TestTrackingErrorWrapAware(t *testing.T) {
	m := NewTrackingError()

	// Position and reference straddle the 0/2π boundary: the error is
	// small, not a full turn.
	m.Observe(sim.Tick{Position: 0.01, Reference: 2*math.Pi - 0.01})

	if got := m.Value(); math.Abs(got-0.02) > 1e-9 {
		t.Errorf("expected wrap-aware RMS ~0.02, got %f", got)
	}
}

func TestTrackingErrorRMS(t *testing.T) {
	m := NewTrackingError()

	m.Observe(sim.Tick{Position: 1.0, Reference: 0.0})
	m.Observe(sim.Tick{Position: 0.0, Reference: 1.0})

	if got := m.Value(); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected RMS 1.0, got %f", got)
	}
}

func TestVelocityError(t *testing.T) {
	m := NewVelocityError()

	m.Observe(sim.Tick{Velocity: 3.0, Reference: 5.0})

	if got := m.Value(); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("expected velocity RMS 2.0, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}
