package servo

import "math"

// snapTol absorbs floating-point residue at the periodic branch cuts.
const snapTol = 1e-8

// NormalizeAngle maps an unbounded angle into [0, 2π).
func NormalizeAngle(x float64) float64 {
	wrapped := math.Mod(math.Abs(x), 2*math.Pi)
	wrapped = math.Copysign(wrapped, x)

	// A hair under a full turn counts as zero, so a measured angle just
	// below 2π and a reference just above 0 don't produce a full-turn
	// error.
	if math.Abs(wrapped-2*math.Pi) < snapTol {
		wrapped = 0
	}

	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped
}

// WrapAngleError constrains the difference of two normalized angles to
// (−π, π]. Both operands must already lie in [0, 2π), so the input is
// within (−2π, 2π) and a single adjustment suffices.
func WrapAngleError(err float64) float64 {
	if err > math.Pi {
		err -= 2 * math.Pi
	} else if err <= -math.Pi {
		err += 2 * math.Pi
	}
	if math.Abs(err-math.Pi) < snapTol {
		err = math.Pi
	}
	return err
}
