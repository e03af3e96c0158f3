package interp

import "golang.org/x/exp/constraints"

func lerp[F constraints.Float](t, a, b F) F {
	return (1-t)*a + t*b
}

// fraction returns where v sits between a and b as a fraction of the
// bracket width. A zero-width bracket yields 0 so the caller takes the
// value at a.
func fraction[F constraints.Float](v, a, b F) F {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

// findSurroundingIndex returns i such that [axis[i], axis[i+1]] is the
// bracket for value in an ascending axis. Values below the first sample use
// the first bracket and values above the last use the last bracket, so the
// caller extrapolates from the nearest edge.
func findSurroundingIndex(axis []float64, value float64) int {
	if len(axis) <= 2 {
		return 0
	}
	for i := 0; i < len(axis)-1; i++ {
		if value >= axis[i] && value <= axis[i+1] {
			return i
		}
	}
	if value < axis[0] {
		return 0
	}
	return len(axis) - 2
}

// Linear interpolates values (sampled at axis) at x, extrapolating
// linearly from the edge bracket when x is outside the axis. The axis must
// be ascending and have at least two samples.
func Linear(axis, values []float64, x float64) (float64, error) {
	if len(axis) < 2 {
		return 0, validationErrorf("linear interpolation needs at least 2 samples, got %d", len(axis))
	}
	if len(values) != len(axis) {
		return 0, validationErrorf("values (%d) must match axis length (%d)", len(values), len(axis))
	}
	if err := checkAscending("axis", axis); err != nil {
		return 0, err
	}
	return linear(axis, values, x), nil
}

func linear(axis, values []float64, x float64) float64 {
	i := findSurroundingIndex(axis, x)
	t := fraction(x, axis[i], axis[i+1])
	return lerp(t, values[i], values[i+1])
}
