package servo_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/servosim/internal/pid"
	"github.com/san-kum/servosim/internal/servo"
)

// wideClamps leaves the PID output effectively unbounded so specs can
// reason about raw gain arithmetic.
func wideClamps(p float64) pid.Gains {
	return pid.Gains{P: p, IMax: 0, IMin: 0, CmdMax: 1e6, CmdMin: -1e6}
}

func positionConfig(p float64) servo.Config {
	return servo.Config{
		Mode:        servo.Position,
		Direction:   servo.CCW,
		MaxVelocity: 100,
		MaxTorque:   100,
		MaxPosition: 2 * math.Pi,
		MinPosition: -2 * math.Pi,
		PID:         wideClamps(p),
	}
}

var _ = Describe("Motor", func() {
	const dt = 0.01

	Describe("position mode", func() {
		It("drives toward the reference with a proportional gain", func() {
			jnt := &fakeJoint{position: 0}
			m := servo.New(positionConfig(1.0), jnt)

			m.SetReference(math.Pi / 2)
			applied := m.Update(dt)

			// err = norm(0) - norm(π/2) = -π/2, force = -p*err = π/2.
			Expect(applied).To(BeNumerically("~", math.Pi/2, 1e-9))
			Expect(jnt.applied).To(HaveLen(1))
			Expect(jnt.applied[0]).To(Equal(applied))
		})

		It("treats a reference across the 0/2π boundary as a small error", func() {
			jnt := &fakeJoint{position: 0.01}
			m := servo.New(positionConfig(1.0), jnt)

			m.SetReference(2*math.Pi - 0.01)
			applied := m.Update(dt)

			Expect(math.Abs(applied)).To(BeNumerically("~", 0.02, 1e-6))
		})

		It("clamps the reference into the position band before computing error", func() {
			cfg := positionConfig(1.0)
			cfg.MaxPosition = 1.0
			cfg.MinPosition = -1.0
			jnt := &fakeJoint{position: 0}
			m := servo.New(cfg, jnt)

			m.SetReference(100.0)
			applied := m.Update(dt)

			// Clamped reference is 1.0: err = -1.0, force = 1.0.
			Expect(applied).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("shifts the reference by the zero offset", func() {
			cfg := positionConfig(1.0)
			cfg.ZeroOffset = 0.5
			jnt := &fakeJoint{position: 0}
			m := servo.New(cfg, jnt)

			m.SetReference(0.25)
			applied := m.Update(dt)

			Expect(applied).To(BeNumerically("~", 0.75, 1e-9))
		})

		It("outputs zero force when the pid block was absent", func() {
			cfg := positionConfig(0)
			cfg.PID = pid.Gains{}
			jnt := &fakeJoint{position: 0}
			m := servo.New(cfg, jnt)

			m.SetReference(math.Pi / 2)
			Expect(m.Update(dt)).To(BeZero())
		})
	})

	Describe("velocity mode", func() {
		velocityConfig := func(maxVel float64) servo.Config {
			return servo.Config{
				Mode:        servo.Velocity,
				Direction:   servo.CCW,
				MaxVelocity: maxVel,
				MaxTorque:   100,
				MaxPosition: math.Pi,
				MinPosition: -math.Pi,
				PID:         wideClamps(1.0),
			}
		}

		It("tracks the reference velocity", func() {
			jnt := &fakeJoint{velocity: 2.0}
			m := servo.New(velocityConfig(100), jnt)

			m.SetReference(5.0)
			applied := m.Update(dt)

			// err = 2 - 5 = -3, force = 3.
			Expect(applied).To(BeNumerically("~", 3.0, 1e-9))
		})

		It("clamps the reference magnitude preserving sign", func() {
			jnt := &fakeJoint{velocity: 0}
			m := servo.New(velocityConfig(10), jnt)

			m.SetReference(-50.0)
			applied := m.Update(dt)

			// Clamped reference is -10, err = 10, force = -10.
			Expect(applied).To(BeNumerically("~", -10.0, 1e-9))
		})
	})

	Describe("force mode", func() {
		forceConfig := func(dir servo.SpinDirection) servo.Config {
			return servo.Config{
				Mode:        servo.Force,
				Direction:   dir,
				MaxVelocity: 100,
				MaxTorque:   10,
				MaxPosition: math.Pi,
				MinPosition: -math.Pi,
			}
		}

		It("passes the reference torque through with a magnitude clamp", func() {
			jnt := &fakeJoint{}
			m := servo.New(forceConfig(servo.CCW), jnt)

			m.SetReference(3.0)
			Expect(m.Update(dt)).To(Equal(3.0))

			m.SetReference(-50.0)
			Expect(m.Update(dt)).To(Equal(-10.0))
		})

		It("never involves the pid", func() {
			jnt := &fakeJoint{}
			m := servo.New(forceConfig(servo.CCW), jnt)

			// Zero gains and clamps would force a pid output of zero,
			// but force mode bypasses it entirely.
			m.SetReference(5.0)
			Expect(m.Update(dt)).To(Equal(5.0))
		})
	})

	Describe("spin direction", func() {
		It("flips the applied force sign under identical inputs", func() {
			run := func(dir servo.SpinDirection) float64 {
				cfg := positionConfig(1.0)
				cfg.Direction = dir
				jnt := &fakeJoint{position: 0}
				m := servo.New(cfg, jnt)
				m.SetReference(math.Pi / 2)
				return m.Update(dt)
			}

			ccw := run(servo.CCW)
			cw := run(servo.CW)

			Expect(cw).To(Equal(-ccw))
			Expect(math.Abs(cw)).To(BeNumerically(">", 0))
		})
	})

	Describe("measured state", func() {
		It("captures the joint reads from the last update", func() {
			jnt := &fakeJoint{position: 1.0, velocity: 2.0}
			jnt.effort = 3.0
			m := servo.New(positionConfig(1.0), jnt)

			m.SetReference(1.0)
			m.Update(dt)

			pos, vel, effort := m.Measured()
			Expect(pos).To(Equal(1.0))
			Expect(vel).To(Equal(2.0))
			Expect(effort).To(Equal(3.0))
		})
	})

	Describe("config normalization", func() {
		It("collapses an inverted position band", func() {
			cfg := positionConfig(1.0)
			cfg.MinPosition = 2.0
			cfg.MaxPosition = 1.0
			jnt := &fakeJoint{position: 0}
			m := servo.New(cfg, jnt)

			m.SetReference(5.0)
			applied := m.Update(dt)

			// Both bounds collapse onto 1.0.
			Expect(applied).To(BeNumerically("~", 1.0, 1e-9))
		})
	})
})
