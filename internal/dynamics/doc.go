// Package dynamics provides the ODE primitives backing simulated joints.
//
// A [System] describes one rotational degree of freedom as
// dX/dt = f(X, torque, t); an [Integrator] advances it by a fixed step.
// Joint backends in the joint package pair a System with an Integrator
// and expose the actuator read/write surface consumed by the servo
// controller.
package dynamics
