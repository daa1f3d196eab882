package metrics

import (
	"math"

	"github.com/san-kum/servosim/internal/sim"
)

// ControlEffort is the mean absolute applied force over the run.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(tk sim.Tick) {
	c.sum += math.Abs(tk.Applied)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// PeakForce is the largest absolute applied force over the run.
type PeakForce struct {
	name string
	peak float64
}

func NewPeakForce() *PeakForce {
	return &PeakForce{name: "peak_force"}
}

func (p *PeakForce) Name() string {
	return p.name
}

func (p *PeakForce) Observe(tk sim.Tick) {
	if v := math.Abs(tk.Applied); v > p.peak {
		p.peak = v
	}
}

func (p *PeakForce) Value() float64 {
	return p.peak
}

func (p *PeakForce) Reset() {
	p.peak = 0
}
