package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/servosim/internal/joint"
	"github.com/san-kum/servosim/internal/servo"
)

// Simulator drives one servo-controlled joint through a fixed-step
// closed loop: per tick it asks the commander for a reference, runs the
// motor's control update, then advances the joint physics.
type Simulator struct {
	joint     joint.Steppable
	motor     *servo.Motor
	commander Commander
	metrics   []Metric
	observers []Observer
}

func New(j joint.Steppable, m *servo.Motor, c Commander) *Simulator {
	return &Simulator{
		joint:     j,
		motor:     m,
		commander: c,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Ticks:   make([]Tick, 0, steps),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		ref := s.commander.Reference(t)
		s.motor.SetReference(ref)
		applied := s.motor.Update(cfg.Dt)

		tk := Tick{
			Time:      t,
			Position:  s.joint.Position(),
			Velocity:  s.joint.Velocity(),
			Effort:    s.joint.MeasuredEffort(),
			Reference: ref,
			Applied:   applied,
		}
		result.Ticks = append(result.Ticks, tk)

		for _, m := range s.metrics {
			m.Observe(tk)
		}
		for _, obs := range s.observers {
			obs.OnTick(tk)
		}

		s.joint.Step(cfg.Dt)
		t += cfg.Dt

		if !stateValid(s.joint) {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: "invalid joint state (NaN/Inf)"})
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback streams ticks to the callback instead of
// accumulating them; returning false stops the run.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Tick) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ref := s.commander.Reference(t)
		s.motor.SetReference(ref)
		applied := s.motor.Update(cfg.Dt)

		tk := Tick{
			Time:      t,
			Position:  s.joint.Position(),
			Velocity:  s.joint.Velocity(),
			Effort:    s.joint.MeasuredEffort(),
			Reference: ref,
			Applied:   applied,
		}
		if !callback(tk) {
			return nil
		}

		s.joint.Step(cfg.Dt)
		t += cfg.Dt

		if !stateValid(s.joint) {
			return fmt.Errorf("invalid joint state at t=%.4f", t)
		}
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

func stateValid(j joint.Joint) bool {
	for _, v := range []float64{j.Position(), j.Velocity()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
