package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 0.01
	DefaultDuration    = 10.0
	DefaultMaxVelocity = 838.0
	DefaultMaxTorque   = 10.0
	DefaultZeroOffset  = 0.0
)

type Config struct {
	Servo    ServoConfig   `yaml:"servo"`
	Joint    JointConfig   `yaml:"joint"`
	Command  CommandConfig `yaml:"command"`
	Dt       float64       `yaml:"dt"`
	Duration float64       `yaml:"duration"`
	Seed     int64         `yaml:"seed"`
}

// ServoConfig is the raw parameter block for one actuator. Scalar
// fields are pointers so the resolver can tell "absent" from "zero".
type ServoConfig struct {
	ControlMode    string     `yaml:"control_mode"`
	SpinDirection  string     `yaml:"spin_direction"`
	MaxRotVelocity *float64   `yaml:"max_rot_velocity"`
	MaxTorque      *float64   `yaml:"max_torque"`
	MaxRotPosition *float64   `yaml:"max_rot_position"`
	MinRotPosition *float64   `yaml:"min_rot_position"`
	ZeroOffset     *float64   `yaml:"zero_offset"`
	PID            *PIDConfig `yaml:"pid"`
}

type PIDConfig struct {
	P      float64 `yaml:"p"`
	I      float64 `yaml:"i"`
	D      float64 `yaml:"d"`
	IMax   float64 `yaml:"i_max"`
	IMin   float64 `yaml:"i_min"`
	CmdMax float64 `yaml:"cmd_max"`
	CmdMin float64 `yaml:"cmd_min"`
}

type JointConfig struct {
	Backend string  `yaml:"backend"` // pendulum | free
	Mass    float64 `yaml:"mass"`
	Length  float64 `yaml:"length"`
	Damping float64 `yaml:"damping"`
	Gravity float64 `yaml:"gravity"`
	Inertia float64 `yaml:"inertia"`
	Theta   float64 `yaml:"theta"`
	Omega   float64 `yaml:"omega"`
}

type CommandConfig struct {
	Type      string  `yaml:"type"` // constant | step | sine
	Value     float64 `yaml:"value"`
	StepTime  float64 `yaml:"step_time"`
	StepTo    float64 `yaml:"step_to"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Offset    float64 `yaml:"offset"`
}

func DefaultConfig() *Config {
	return &Config{
		Servo: ServoConfig{
			ControlMode:   "position",
			SpinDirection: "ccw",
			PID:           &PIDConfig{P: 10.0, I: 0.1, D: 1.0, IMax: 5.0, IMin: -5.0, CmdMax: 20.0, CmdMin: -20.0},
		},
		Joint: JointConfig{
			Backend: "pendulum",
			Mass:    1.0,
			Length:  1.0,
			Damping: 0.1,
			Gravity: 9.81,
			Inertia: 1.0,
		},
		Command: CommandConfig{
			Type:  "constant",
			Value: math.Pi / 2,
		},
		Dt:       DefaultDt,
		Duration: DefaultDuration,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
