package config

import (
	"fmt"
	"math"

	"github.com/san-kum/servosim/internal/pid"
	"github.com/san-kum/servosim/internal/servo"
)

// Level classifies a resolution diagnostic. Neither level aborts
// anything: a misconfigured actuator degrades to safe defaults rather
// than taking down the whole simulation setup.
type Level int

const (
	Warn Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "warn"
}

// Diagnostic is one non-fatal finding from config resolution.
type Diagnostic struct {
	Level   Level
	Field   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Level, d.Field, d.Message)
}

func warnf(field, format string, args ...any) Diagnostic {
	return Diagnostic{Level: Warn, Field: field, Message: fmt.Sprintf(format, args...)}
}

func errorf(field, format string, args ...any) Diagnostic {
	return Diagnostic{Level: Error, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Resolve turns the raw servo block into a usable servo.Config plus a
// list of diagnostics. It never fails: every missing or invalid field
// is replaced by its documented default.
func (s ServoConfig) Resolve() (servo.Config, []Diagnostic) {
	out := servo.Config{
		Mode:        servo.Position,
		Direction:   servo.CCW,
		MaxVelocity: DefaultMaxVelocity,
		MaxTorque:   DefaultMaxTorque,
		MaxPosition: math.Pi,
		MinPosition: -math.Pi,
		ZeroOffset:  DefaultZeroOffset,
	}
	var diags []Diagnostic

	switch s.ControlMode {
	case "velocity":
		out.Mode = servo.Velocity
	case "position":
		out.Mode = servo.Position
	case "force":
		out.Mode = servo.Force
	case "":
		diags = append(diags, warnf("control_mode", "not specified, using position"))
	default:
		diags = append(diags, warnf("control_mode", "%q not valid, using position", s.ControlMode))
	}

	switch s.SpinDirection {
	case "cw":
		out.Direction = servo.CW
	case "ccw":
		out.Direction = servo.CCW
	case "":
		diags = append(diags, warnf("spin_direction", "not specified, using ccw"))
	default:
		diags = append(diags, errorf("spin_direction", "%q not valid, using ccw", s.SpinDirection))
	}

	if s.MaxRotVelocity != nil {
		out.MaxVelocity = *s.MaxRotVelocity
	}
	if s.MaxTorque != nil {
		out.MaxTorque = *s.MaxTorque
	}
	if s.MaxRotPosition != nil {
		out.MaxPosition = *s.MaxRotPosition
	}
	if s.MinRotPosition != nil {
		out.MinPosition = *s.MinRotPosition
	}
	if s.ZeroOffset != nil {
		out.ZeroOffset = *s.ZeroOffset
	}

	if out.MinPosition > out.MaxPosition {
		diags = append(diags, warnf("min_rot_position", "%g exceeds max_rot_position %g, swapping", out.MinPosition, out.MaxPosition))
		out.MinPosition, out.MaxPosition = out.MaxPosition, out.MinPosition
	}

	if s.PID != nil {
		out.PID = pid.Gains{
			P:      s.PID.P,
			I:      s.PID.I,
			D:      s.PID.D,
			IMax:   s.PID.IMax,
			IMin:   s.PID.IMin,
			CmdMax: s.PID.CmdMax,
			CmdMin: s.PID.CmdMin,
		}
	} else {
		// Zero gains and zero clamps: the controller outputs zero force
		// until a pid block is supplied.
		diags = append(diags, errorf("pid", "block not found, setting all gains and clamps to zero"))
	}

	return out, diags
}
