package domain

import (
	"math"

	"go.ngs.io/perf-worksheet/internal/interp"
)

const (
	// StandardAltimeterInHg is the standard sea-level altimeter setting.
	StandardAltimeterInHg = 29.92

	// StandardSeaLevelTempC is the ISA temperature at sea level.
	StandardSeaLevelTempC = 15.0

	// LapseRateCPer1000Ft is the ISA temperature lapse rate used on
	// performance worksheets.
	LapseRateCPer1000Ft = 2.0

	// DensityAltitudeFtPerC is the rule-of-thumb density altitude change
	// per degree of deviation from standard temperature.
	DensityAltitudeFtPerC = 120.0
)

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// PressureAltitude converts an indicated altitude (ft) at the given
// altimeter setting (inHg) to pressure altitude. Each 0.01 inHg below
// standard adds 10 ft.
func PressureAltitude(indicatedAltitudeFt, altimeterInHg float64) float64 {
	return indicatedAltitudeFt + (StandardAltimeterInHg-altimeterInHg)*1000
}

// StandardTemperatureC returns the ISA temperature at a pressure altitude.
func StandardTemperatureC(pressureAltitudeFt float64) float64 {
	return StandardSeaLevelTempC - pressureAltitudeFt/1000*LapseRateCPer1000Ft
}

// DensityAltitude corrects a pressure altitude for non-standard
// temperature.
func DensityAltitude(pressureAltitudeFt, outsideAirTempC float64) float64 {
	return pressureAltitudeFt + DensityAltitudeFtPerC*(outsideAirTempC-StandardTemperatureC(pressureAltitudeFt))
}

// RateOfClimb interpolates a climb table indexed by pressure altitude and
// outside air temperature and rounds to whole feet per minute.
func RateOfClimb(table interp.Table, pressureAltitudeFt, outsideAirTempC float64, opts interp.Options) (int, error) {
	roc, err := interp.Interpolate(table, pressureAltitudeFt, outsideAirTempC, opts)
	if err != nil {
		return 0, err
	}
	return round(roc), nil
}

// round rounds half up, matching how the figures are shown on the
// worksheet.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
