package interp

import (
	"math"

	"go.ngs.io/perf-worksheet/internal/log"
)

// Table is a sampled surface: Data[i][j] is the value at (XAxis[i], YAxis[j]).
// Axes need not be evenly spaced but must be in ascending order.
type Table struct {
	XAxis []float64   `json:"xAxis"`
	YAxis []float64   `json:"yAxis"`
	Data  [][]float64 `json:"data"`
}

// FlexibleTable is a Table whose axes are looked up by name, as aircraft
// profiles name them (e.g. "pressureAltitudes" and "temperatures").
type FlexibleTable struct {
	Fields map[string]any `json:"fields"`
	Data   [][]float64    `json:"data"`
}

// Axis returns the named field as a numeric sequence.
func (f FlexibleTable) Axis(name string) ([]float64, error) {
	v, ok := f.Fields[name]
	if !ok {
		return nil, validationErrorf("invalid axis data: %q is missing", name)
	}
	switch axis := v.(type) {
	case []float64:
		return axis, nil
	case []int:
		out := make([]float64, len(axis))
		for i, a := range axis {
			out[i] = float64(a)
		}
		return out, nil
	case []any:
		// Decoded JSON arrives as []any.
		out := make([]float64, len(axis))
		for i, a := range axis {
			n, ok := a.(float64)
			if !ok {
				return nil, validationErrorf("invalid axis data: %q element %d is %T, not a number", name, i, a)
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, validationErrorf("invalid axis data: %q is %T, not a numeric sequence", name, v)
	}
}

// Bounds is the extent of a table's axes.
type Bounds struct {
	XMin float64 `json:"xMin"`
	XMax float64 `json:"xMax"`
	YMin float64 `json:"yMin"`
	YMax float64 `json:"yMax"`
}

// Contains reports whether (x, y) lies inside the bounds.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax
}

// covers is Contains except that a zero-width axis (a single sample) never
// excludes a point, since degenerate tables do not interpolate along it.
func (b Bounds) covers(x, y float64) bool {
	inX := b.XMin == b.XMax || (x >= b.XMin && x <= b.XMax)
	inY := b.YMin == b.YMax || (y >= b.YMin && y <= b.YMax)
	return inX && inY
}

// Result is the outcome of InterpolateDetailed.
type Result struct {
	Value           float64 `json:"value"`
	WasExtrapolated bool    `json:"wasExtrapolated"`
	Bounds          Bounds  `json:"bounds"`
}

// Options controls out-of-range handling.
type Options struct {
	AllowExtrapolation  bool
	WarnOnExtrapolation bool

	// Logger receives the extrapolation warning; nil goes to slog's
	// default logger.
	Logger *log.Logger
}

// DefaultOptions allows extrapolation and warns when it happens.
func DefaultOptions() Options {
	return Options{
		AllowExtrapolation:  true,
		WarnOnExtrapolation: true,
	}
}

// MakeTable builds a Table from axis samples and a data matrix. When both
// axis names are given it also returns a FlexibleTable whose named fields
// alias the same slices; otherwise the second result is nil. No
// validation is done here.
func MakeTable(xValues, yValues []float64, data [][]float64, axisNames ...string) (Table, *FlexibleTable) {
	t := Table{XAxis: xValues, YAxis: yValues, Data: data}
	if len(axisNames) < 2 || axisNames[0] == "" || axisNames[1] == "" {
		return t, nil
	}
	return t, &FlexibleTable{
		Fields: map[string]any{
			"xAxis":      xValues,
			"yAxis":      yValues,
			axisNames[0]: xValues,
			axisNames[1]: yValues,
		},
		Data: data,
	}
}

func axisBounds(axis []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range axis {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func tableBounds(xAxis, yAxis []float64) Bounds {
	var b Bounds
	b.XMin, b.XMax = axisBounds(xAxis)
	b.YMin, b.YMax = axisBounds(yAxis)
	return b
}

// validate checks table shape in a fixed order: empty axes, row widths,
// row count, then axis ordering.
func validate(xAxis, yAxis []float64, data [][]float64) error {
	if len(xAxis) == 0 || len(yAxis) == 0 {
		return validationErrorf("axis arrays cannot be empty")
	}
	for i, row := range data {
		if len(row) != len(yAxis) {
			return validationErrorf("data row %d has %d columns, all rows must have %d to match yAxis",
				i, len(row), len(yAxis))
		}
	}
	if len(data) != len(xAxis) {
		return validationErrorf("data rows (%d) must match xAxis length (%d)", len(data), len(xAxis))
	}
	if err := checkAscending("xAxis", xAxis); err != nil {
		return err
	}
	return checkAscending("yAxis", yAxis)
}

// checkAscending allows repeated samples; zero-width brackets are handled
// at interpolation time.
func checkAscending(name string, axis []float64) error {
	for i := 1; i < len(axis); i++ {
		if axis[i] < axis[i-1] {
			return validationErrorf("%s must be in ascending order: %s[%d] = %g, %s[%d] = %g",
				name, name, i-1, axis[i-1], name, i, axis[i])
		}
	}
	return nil
}

func checkStrictlyIncreasing(name string, axis []float64) error {
	for i := 1; i < len(axis); i++ {
		if axis[i] <= axis[i-1] {
			return validationErrorf("%s must be strictly increasing: %s[%d] = %g, %s[%d] = %g",
				name, name, i-1, axis[i-1], name, i, axis[i])
		}
	}
	return nil
}
