package interp

import (
	"fmt"
	"math"
)

// FindInverseX solves the table for x: it returns the x at which the
// surface, evaluated at the fixed yValue, equals targetZ. data is indexed
// data[xIndex][yIndex], and both axes must be strictly increasing.
//
// For example, given a climb table of rate of climb by pressure altitude
// (x) and temperature (y), FindInverseX(data, altitudes, temps, 300, 30)
// is the pressure altitude where the rate of climb falls to 300 ft/min at
// 30°C.
//
// Targets beyond the values at the ends of the x axis are extrapolated
// from the first or last pair of samples.
func FindInverseX(data [][]float64, xAxis, yAxis []float64, targetZ, yValue float64) (float64, error) {
	if len(data) != len(xAxis) {
		return 0, validationErrorf("data row count (%d) does not match xAxis length (%d)", len(data), len(xAxis))
	}
	for i, row := range data {
		if len(row) != len(yAxis) {
			return 0, validationErrorf("data row %d length (%d) does not match yAxis length (%d)", i, len(row), len(yAxis))
		}
	}
	if err := checkStrictlyIncreasing("xAxis", xAxis); err != nil {
		return 0, err
	}
	if err := checkStrictlyIncreasing("yAxis", yAxis); err != nil {
		return 0, err
	}
	if len(xAxis) < 2 {
		return 0, validationErrorf("xAxis needs at least 2 samples, got %d", len(xAxis))
	}
	if len(yAxis) == 0 {
		return 0, validationErrorf("yAxis cannot be empty")
	}

	zAtY := make([]float64, len(xAxis))
	for i, row := range data {
		zAtY[i] = valueAt(yAxis, row, yValue)
	}

	for i := 0; i < len(zAtY)-1; i++ {
		z1, z2 := zAtY[i], zAtY[i+1]
		if (targetZ >= z1 && targetZ <= z2) || (targetZ >= z2 && targetZ <= z1) {
			t := fraction(targetZ, z1, z2)
			return lerp(t, xAxis[i], xAxis[i+1]), nil
		}
	}

	first, last := zAtY[0], zAtY[len(zAtY)-1]
	n := len(xAxis) - 1
	switch {
	case targetZ < math.Min(first, last):
		if zAtY[1] != zAtY[0] {
			return xAxis[0] + (targetZ-zAtY[0])/(zAtY[1]-zAtY[0])*(xAxis[1]-xAxis[0]), nil
		}
	case targetZ > math.Max(first, last):
		if zAtY[n] != zAtY[n-1] {
			return xAxis[n-1] + (targetZ-zAtY[n-1])/(zAtY[n]-zAtY[n-1])*(xAxis[n]-xAxis[n-1]), nil
		}
	}

	return 0, fmt.Errorf("z=%g at y=%g: %w", targetZ, yValue, ErrNoMatch)
}

// valueAt returns the row's value at y, reading the sample directly when y
// is on the axis.
func valueAt(yAxis, row []float64, y float64) float64 {
	for j, v := range yAxis {
		if v == y {
			return row[j]
		}
	}
	if len(yAxis) == 1 {
		return row[0]
	}
	return linear(yAxis, row, y)
}
