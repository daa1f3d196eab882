package joint

// Joint is the read/write capability a servo controller holds on one
// rotational degree of freedom. The joint owns its true physical state;
// the controller only reads it and commands a force for the current
// tick.
type Joint interface {
	// Position returns the joint angle in radians.
	Position() float64
	// Velocity returns the angular velocity in rad/s.
	Velocity() float64
	// MeasuredEffort returns the torque currently applied, in N·m.
	MeasuredEffort() float64
	// SetForce applies a torque for the current tick, in N·m.
	SetForce(v float64)
}

// Steppable is a Joint that owns its physics and can advance it by one
// fixed tick using the force set since the last step.
type Steppable interface {
	Joint
	Step(dt float64)
}
