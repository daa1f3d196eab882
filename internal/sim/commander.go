package sim

import "math"

// Constant holds the reference at a fixed value.
type Constant struct {
	Value float64
}

func (c Constant) Reference(t float64) float64 { return c.Value }

// Step holds Before until time At, then switches to After.
type Step struct {
	Before float64
	After  float64
	At     float64
}

func (s Step) Reference(t float64) float64 {
	if t < s.At {
		return s.Before
	}
	return s.After
}

// Sine sweeps the reference sinusoidally around Offset.
type Sine struct {
	Amplitude float64
	Frequency float64
	Offset    float64
}

func (s Sine) Reference(t float64) float64 {
	return s.Offset + s.Amplitude*math.Sin(2*math.Pi*s.Frequency*t)
}
