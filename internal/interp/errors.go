package interp

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned by FindInverseX when no bracket or extrapolation
// rule yields an answer.
var ErrNoMatch = errors.New("no matching value")

// ValidationError reports a malformed table: an empty axis, a data shape
// that does not match the axes, an axis out of order, or a missing named
// axis.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "invalid table: " + e.Msg
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// RangeError reports a query point outside the table bounds when
// extrapolation is disabled.
type RangeError struct {
	X, Y   float64
	Bounds Bounds
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("values outside table range: x=%g (range: %g to %g), y=%g (range: %g to %g)",
		e.X, e.Bounds.XMin, e.Bounds.XMax, e.Y, e.Bounds.YMin, e.Bounds.YMax)
}
