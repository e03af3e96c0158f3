// Package interp interpolates values in irregular one- and two-dimensional
// lookup tables such as aircraft climb-performance charts.
package interp

import (
	"log/slog"
)

// GridCell is the bracket around a query point: four corner values on a
// rectangle.
type GridCell struct {
	// Corner coordinates.
	X0, X1 float64
	Y0, Y1 float64

	// Values at the four corners:
	// V00: value at (X0, Y0).
	// V10: value at (X1, Y0).
	// V01: value at (X0, Y1).
	// V11: value at (X1, Y1).
	V00, V10, V01, V11 float64
}

// BilinearInterpolate evaluates the cell at (x, y). Points outside the
// cell are extrapolated from the same plane.
// Formula:
//
//	f(x,y) ≈ (1-t)(1-u)f(x0,y0) + t(1-u)f(x1,y0) + (1-t)u*f(x0,y1) + tu*f(x1,y1)
//
// where:
//
//	t = (x - x0) / (x1 - x0)
//	u = (y - y0) / (y1 - y0)
//
// A zero-width side (x0 == x1 or y0 == y1) contributes t = 0 or u = 0.
func BilinearInterpolate(cell GridCell, x, y float64) float64 {
	t := fraction(x, cell.X0, cell.X1)
	u := fraction(y, cell.Y0, cell.Y1)

	return (1-t)*(1-u)*cell.V00 +
		t*(1-u)*cell.V10 +
		(1-t)*u*cell.V01 +
		t*u*cell.V11
}

// Interpolate evaluates table at (x, y).
//
// A table with a single x sample interpolates along y only, and one with a
// single y sample along x only; a 1x1 table returns its only value for any
// point. Outside the table bounds the result is extrapolated from the
// nearest bracket unless opts disallows it, in which case a *RangeError is
// returned. Malformed tables return a *ValidationError.
func Interpolate(table Table, x, y float64, opts Options) (float64, error) {
	return interpolate(table.XAxis, table.YAxis, table.Data, x, y, opts)
}

// InterpolateFlexible is Interpolate for a table whose axes are the fields
// named xAxisName and yAxisName.
func InterpolateFlexible(table FlexibleTable, x, y float64, xAxisName, yAxisName string, opts Options) (float64, error) {
	xAxis, err := table.Axis(xAxisName)
	if err != nil {
		return 0, err
	}
	yAxis, err := table.Axis(yAxisName)
	if err != nil {
		return 0, err
	}
	return interpolate(xAxis, yAxis, table.Data, x, y, opts)
}

// InterpolateDetailed is Interpolate that also reports the table bounds
// and whether the point was extrapolated.
func InterpolateDetailed(table Table, x, y float64, opts Options) (Result, error) {
	v, err := Interpolate(table, x, y, opts)
	if err != nil {
		return Result{}, err
	}
	b := tableBounds(table.XAxis, table.YAxis)
	return Result{
		Value:           v,
		WasExtrapolated: !b.Contains(x, y),
		Bounds:          b,
	}, nil
}

func interpolate(xAxis, yAxis []float64, data [][]float64, x, y float64, opts Options) (float64, error) {
	if err := validate(xAxis, yAxis, data); err != nil {
		return 0, err
	}

	if len(xAxis) == 1 && len(yAxis) == 1 {
		return data[0][0], nil
	}

	b := tableBounds(xAxis, yAxis)
	if !b.covers(x, y) {
		if !opts.AllowExtrapolation {
			return 0, &RangeError{X: x, Y: y, Bounds: b}
		}
		if opts.WarnOnExtrapolation {
			opts.Logger.Warn("extrapolating outside table bounds",
				slog.Float64("x", x), slog.Float64("xMin", b.XMin), slog.Float64("xMax", b.XMax),
				slog.Float64("y", y), slog.Float64("yMin", b.YMin), slog.Float64("yMax", b.YMax))
		}
	}

	switch {
	case len(xAxis) == 1:
		return linear(yAxis, data[0], y), nil
	case len(yAxis) == 1:
		column := make([]float64, len(data))
		for i, row := range data {
			column[i] = row[0]
		}
		return linear(xAxis, column, x), nil
	}

	xi := findSurroundingIndex(xAxis, x)
	yi := findSurroundingIndex(yAxis, y)

	// Rows are indexed by x and columns by y.
	cell := GridCell{
		X0:  xAxis[xi],
		X1:  xAxis[xi+1],
		Y0:  yAxis[yi],
		Y1:  yAxis[yi+1],
		V00: data[xi][yi],
		V10: data[xi+1][yi],
		V01: data[xi][yi+1],
		V11: data[xi+1][yi+1],
	}
	return BilinearInterpolate(cell, x, y), nil
}
