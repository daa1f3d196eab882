// Package servo implements the per-tick controller for a single
// rotational joint.
//
// A [Motor] is fixed to one of three control modes for its lifetime:
//
//   - [Position]: closed-loop angle tracking with wrap-aware error
//   - [Velocity]: closed-loop angular velocity tracking
//   - [Force]: open-loop torque passthrough with a magnitude clamp
//
// # Usage
//
//	cfg, diags := servoCfg.Resolve()        // config package
//	m := servo.New(cfg, jnt)                // jnt implements joint.Joint
//	m.SetReference(math.Pi / 2)
//	applied := m.Update(dt)                 // once per simulation tick
//
// Position mode normalizes both the measured and the reference angle
// into [0, 2π) and wraps their difference into (−π, π], so tracking
// across the 0/2π boundary never produces a full-turn error spike.
package servo
