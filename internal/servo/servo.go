package servo

import (
	"math"

	"github.com/san-kum/servosim/internal/joint"
	"github.com/san-kum/servosim/internal/pid"
)

// ControlMode selects which control law drives the joint. It is fixed
// for the lifetime of a Motor.
type ControlMode int

const (
	Velocity ControlMode = iota
	Position
	Force
)

func (m ControlMode) String() string {
	switch m {
	case Velocity:
		return "velocity"
	case Position:
		return "position"
	case Force:
		return "force"
	}
	return "unknown"
}

// SpinDirection maps the control output sign onto the physically
// mounted actuator's positive rotation sense.
type SpinDirection int

const (
	CW  SpinDirection = -1
	CCW SpinDirection = 1
)

func (d SpinDirection) String() string {
	if d == CW {
		return "cw"
	}
	return "ccw"
}

// Config holds the resolved parameters for one Motor. Produced by the
// config package's resolver; all fields are plain values with safe
// defaults already applied.
type Config struct {
	Mode        ControlMode
	Direction   SpinDirection
	MaxVelocity float64
	MaxTorque   float64
	MaxPosition float64
	MinPosition float64
	ZeroOffset  float64
	PID         pid.Gains
}

// Motor is a per-joint servo controller. It owns its PID state, holds a
// capability on the joint it drives, and runs one bounded control
// computation per simulation tick. Not safe for concurrent use; the
// host loop must serialize calls per instance.
type Motor struct {
	mode      ControlMode
	direction SpinDirection

	maxVelocity float64
	maxTorque   float64
	maxPosition float64
	minPosition float64
	zeroOffset  float64

	pid   *pid.Controller
	joint joint.Joint

	reference float64

	// measured state captured at the top of the last Update
	measuredPosition float64
	measuredVelocity float64
	measuredEffort   float64
}

// New builds a Motor from resolved config. A position band with
// min > max is collapsed onto the max bound; the resolver normally
// repairs this earlier with a diagnostic.
func New(cfg Config, j joint.Joint) *Motor {
	if cfg.MinPosition > cfg.MaxPosition {
		cfg.MinPosition = cfg.MaxPosition
	}
	m := &Motor{
		mode:        cfg.Mode,
		direction:   cfg.Direction,
		maxVelocity: cfg.MaxVelocity,
		maxTorque:   cfg.MaxTorque,
		maxPosition: cfg.MaxPosition,
		minPosition: cfg.MinPosition,
		zeroOffset:  cfg.ZeroOffset,
		pid:         pid.New(),
		joint:       j,
	}
	m.pid.InitGains(cfg.PID)
	return m
}

func (m *Motor) Mode() ControlMode        { return m.mode }
func (m *Motor) Direction() SpinDirection { return m.direction }

// SetReference sets the command for the next Update call, interpreted
// per the active mode: radians, rad/s, or N·m.
func (m *Motor) SetReference(v float64) { m.reference = v }

// Reference returns the last commanded reference.
func (m *Motor) Reference() float64 { return m.reference }

// Measured returns the joint state captured by the last Update.
func (m *Motor) Measured() (position, velocity, effort float64) {
	return m.measuredPosition, m.measuredVelocity, m.measuredEffort
}

// Update runs one control tick: reads the joint, computes a bounded
// force per the active mode, applies direction * force to the joint,
// and returns the applied value. Never fails; non-finite joint reads
// propagate through unchanged.
func (m *Motor) Update(dt float64) float64 {
	m.measuredPosition = m.joint.Position()
	m.measuredVelocity = m.joint.Velocity()
	m.measuredEffort = m.joint.MeasuredEffort()

	var force float64
	switch m.mode {
	case Position:
		// zeroOffset shifts the commanded frame onto the mounted zero.
		ref := m.reference + m.zeroOffset
		ref = math.Max(math.Min(ref, m.maxPosition), m.minPosition)
		err := NormalizeAngle(m.measuredPosition) - NormalizeAngle(ref)
		err = WrapAngleError(err)
		force = m.pid.Update(err, dt)
	case Force:
		// Open-loop passthrough with a magnitude clamp.
		force = math.Copysign(math.Min(math.Abs(m.reference), m.maxTorque), m.reference)
	case Velocity:
		ref := math.Copysign(math.Min(math.Abs(m.reference), m.maxVelocity), m.reference)
		err := m.measuredVelocity - ref
		force = m.pid.Update(err, dt)
	}

	applied := float64(m.direction) * force
	m.joint.SetForce(applied)
	return applied
}
