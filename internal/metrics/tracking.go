package metrics

import (
	"math"

	"github.com/san-kum/servosim/internal/servo"
	"github.com/san-kum/servosim/internal/sim"
)

// TrackingError is the RMS angle error between joint position and
// reference, computed wrap-aware so a reference across the 0/2π
// boundary isn't scored as a full turn off.
type TrackingError struct {
	name    string
	sumSq   float64
	samples int
}

func NewTrackingError() *TrackingError {
	return &TrackingError{name: "tracking_error_rms"}
}

func (t *TrackingError) Name() string {
	return t.name
}

func (t *TrackingError) Observe(tk sim.Tick) {
	err := servo.WrapAngleError(servo.NormalizeAngle(tk.Position) - servo.NormalizeAngle(tk.Reference))
	t.sumSq += err * err
	t.samples++
}

func (t *TrackingError) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return math.Sqrt(t.sumSq / float64(t.samples))
}

func (t *TrackingError) Reset() {
	t.sumSq = 0
	t.samples = 0
}

// VelocityError is the RMS error between joint velocity and reference,
// for velocity-mode runs.
type VelocityError struct {
	name    string
	sumSq   float64
	samples int
}

func NewVelocityError() *VelocityError {
	return &VelocityError{name: "velocity_error_rms"}
}

func (v *VelocityError) Name() string {
	return v.name
}

func (v *VelocityError) Observe(tk sim.Tick) {
	err := tk.Velocity - tk.Reference
	v.sumSq += err * err
	v.samples++
}

func (v *VelocityError) Value() float64 {
	if v.samples == 0 {
		return 0
	}
	return math.Sqrt(v.sumSq / float64(v.samples))
}

func (v *VelocityError) Reset() {
	v.sumSq = 0
	v.samples = 0
}
