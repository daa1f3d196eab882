package sim

import "fmt"

// Commander supplies the reference command for each tick, interpreted
// per the motor's control mode.
type Commander interface {
	Reference(t float64) float64
}

// Tick is one sample of the closed loop: the joint state seen by the
// controller, the reference it was given, and the force it applied.
type Tick struct {
	Time      float64
	Position  float64
	Velocity  float64
	Effort    float64
	Reference float64
	Applied   float64
}

type Metric interface {
	Name() string
	Observe(tk Tick)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(tk Tick)
}

type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
}

type Result struct {
	Ticks   []Tick
	Metrics map[string]float64
	Errors  []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
