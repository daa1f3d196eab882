package pid

import "math"

// Gains holds the tunable parameters for one controller instance.
// IMax/IMin bound the integral term, CmdMax/CmdMin bound the output.
// A clamp pair is active when max >= min, so the zero value clamps
// everything to zero.
type Gains struct {
	P      float64
	I      float64
	D      float64
	IMax   float64
	IMin   float64
	CmdMax float64
	CmdMin float64
}

// Controller is a single-input single-output PID integrator.
//
// The error convention is measured minus target: Update returns a
// command that opposes the error (negative feedback). With only a
// proportional gain p, an error e yields the command -p*e.
type Controller struct {
	gains Gains

	integral float64
	prevErr  float64
	cmd      float64
	first    bool
}

func New() *Controller {
	return &Controller{first: true}
}

// Init configures gains and clamps and resets all accumulated state.
func (c *Controller) Init(p, i, d, iMax, iMin, cmdMax, cmdMin float64) {
	c.gains = Gains{P: p, I: i, D: d, IMax: iMax, IMin: iMin, CmdMax: cmdMax, CmdMin: cmdMin}
	c.Reset()
}

// InitGains is Init with the parameters bundled.
func (c *Controller) InitGains(g Gains) {
	c.gains = g
	c.Reset()
}

// Reset clears integral and derivative state.
func (c *Controller) Reset() {
	c.integral = 0
	c.prevErr = 0
	c.cmd = 0
	c.first = true
}

// Gains returns the configured parameters.
func (c *Controller) Gains() Gains {
	return c.gains
}

// Update advances the integrator by dt and returns the clamped command.
// A non-positive dt leaves all state untouched and returns the previous
// command.
func (c *Controller) Update(err, dt float64) float64 {
	if dt <= 0 {
		return c.cmd
	}

	pTerm := c.gains.P * err

	c.integral += dt * err
	iTerm := c.gains.I * c.integral
	if c.gains.IMax >= c.gains.IMin {
		// Clamp the term and back-solve the accumulator so windup stops
		// at the clamp instead of building up behind it.
		if iTerm > c.gains.IMax {
			iTerm = c.gains.IMax
			if c.gains.I != 0 {
				c.integral = iTerm / c.gains.I
			}
		} else if iTerm < c.gains.IMin {
			iTerm = c.gains.IMin
			if c.gains.I != 0 {
				c.integral = iTerm / c.gains.I
			}
		}
	}

	var dTerm float64
	if !c.first {
		dTerm = c.gains.D * (err - c.prevErr) / dt
	}
	c.first = false
	c.prevErr = err

	cmd := -(pTerm + iTerm + dTerm)
	if c.gains.CmdMax >= c.gains.CmdMin {
		cmd = math.Min(math.Max(cmd, c.gains.CmdMin), c.gains.CmdMax)
	}
	c.cmd = cmd
	return cmd
}
