package config

import (
	"math"
	"sort"
)

func pf(v float64) *float64 { return &v }

var Presets = map[string]*Config{
	"hold": {
		Servo: ServoConfig{
			ControlMode:   "position",
			SpinDirection: "ccw",
			PID:           &PIDConfig{P: 20.0, I: 0.5, D: 2.0, IMax: 5.0, IMin: -5.0, CmdMax: 30.0, CmdMin: -30.0},
		},
		Joint:    JointConfig{Backend: "pendulum", Mass: 1.0, Length: 1.0, Damping: 0.3, Gravity: 9.81, Theta: 0.0},
		Command:  CommandConfig{Type: "constant", Value: math.Pi / 2},
		Dt:       0.01,
		Duration: 10.0,
	},
	"swing": {
		Servo: ServoConfig{
			ControlMode:   "position",
			SpinDirection: "ccw",
			PID:           &PIDConfig{P: 30.0, I: 0.2, D: 3.0, IMax: 8.0, IMin: -8.0, CmdMax: 40.0, CmdMin: -40.0},
		},
		Joint:    JointConfig{Backend: "pendulum", Mass: 1.0, Length: 1.0, Damping: 0.2, Gravity: 9.81, Theta: 0.0},
		Command:  CommandConfig{Type: "sine", Amplitude: 1.0, Frequency: 0.25, Offset: math.Pi},
		Dt:       0.01,
		Duration: 20.0,
	},
	"track": {
		Servo: ServoConfig{
			ControlMode:    "velocity",
			SpinDirection:  "ccw",
			MaxRotVelocity: pf(20.0),
			PID:            &PIDConfig{P: 4.0, I: 2.0, D: 0.0, IMax: 10.0, IMin: -10.0, CmdMax: 15.0, CmdMin: -15.0},
		},
		Joint:    JointConfig{Backend: "free", Inertia: 0.5, Damping: 0.2},
		Command:  CommandConfig{Type: "step", Value: 0.0, StepTime: 2.0, StepTo: 5.0},
		Dt:       0.01,
		Duration: 10.0,
	},
	"spin": {
		Servo: ServoConfig{
			ControlMode:    "velocity",
			SpinDirection:  "ccw",
			MaxRotVelocity: pf(10.0),
			PID:            &PIDConfig{P: 3.0, I: 1.0, D: 0.0, IMax: 8.0, IMin: -8.0, CmdMax: 12.0, CmdMin: -12.0},
		},
		Joint:    JointConfig{Backend: "free", Inertia: 1.0, Damping: 0.1},
		Command:  CommandConfig{Type: "constant", Value: 50.0}, // clamped to max_rot_velocity
		Dt:       0.01,
		Duration: 15.0,
	},
	"torque": {
		Servo: ServoConfig{
			ControlMode:   "force",
			SpinDirection: "ccw",
			MaxTorque:     pf(2.0),
			PID:           &PIDConfig{},
		},
		Joint:    JointConfig{Backend: "pendulum", Mass: 1.0, Length: 1.0, Damping: 0.5, Gravity: 9.81},
		Command:  CommandConfig{Type: "step", Value: 0.5, StepTime: 5.0, StepTo: -5.0}, // clamped to ±max_torque
		Dt:       0.01,
		Duration: 10.0,
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
