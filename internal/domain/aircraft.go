package domain

import (
	"fmt"

	"go.ngs.io/perf-worksheet/internal/interp"
)

// Axis names used by climb tables in aircraft profiles.
const (
	PressureAltitudesAxis = "pressureAltitudes"
	TemperaturesAxis      = "temperatures"
)

// ServiceCeilingRateOfClimb is the rate of climb (ft/min) that defines the
// service ceiling.
const ServiceCeilingRateOfClimb = 300

// Aircraft is a static performance profile.
type Aircraft struct {
	ID               string           `json:"id"`
	Name             string           `json:"name,omitempty"`
	MaxGrossWeight   float64          `json:"maxGrossWeight"`
	ClimbPerformance ClimbPerformance `json:"climbPerformance"`
	Maneuvering      Maneuvering      `json:"maneuvering"`
}

// ClimbPerformance is rate of climb at max gross weight by pressure
// altitude (rows) and temperature in °C (columns), with the best-rate
// climb speed (KIAS) at each altitude.
type ClimbPerformance struct {
	PressureAltitudes []float64   `json:"pressureAltitudes"`
	Temperatures      []float64   `json:"temperatures"`
	Data              [][]float64 `json:"data"`
	ClimbSpeeds       []float64   `json:"climbSpeeds"`
}

// Maneuvering is design maneuvering speed (KIAS) by weight (lbs).
type Maneuvering struct {
	Weights []float64 `json:"weights"`
	Va      []float64 `json:"Va"`
}

// ClimbTable returns the climb chart as a named-axis table.
func (a *Aircraft) ClimbTable() interp.FlexibleTable {
	_, flex := interp.MakeTable(a.ClimbPerformance.PressureAltitudes, a.ClimbPerformance.Temperatures,
		a.ClimbPerformance.Data, PressureAltitudesAxis, TemperaturesAxis)
	return *flex
}

// Validate checks the parts of a profile that the interpolation routines
// do not.
func (a *Aircraft) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("aircraft id is required")
	}
	if a.MaxGrossWeight <= 0 {
		return fmt.Errorf("aircraft %s: max gross weight must be positive", a.ID)
	}
	cp := a.ClimbPerformance
	if len(cp.PressureAltitudes) == 0 || len(cp.Temperatures) == 0 {
		return fmt.Errorf("aircraft %s: climb performance axes cannot be empty", a.ID)
	}
	if len(cp.Data) != len(cp.PressureAltitudes) {
		return fmt.Errorf("aircraft %s: climb data rows (%d) must match pressure altitudes (%d)",
			a.ID, len(cp.Data), len(cp.PressureAltitudes))
	}
	if len(cp.ClimbSpeeds) != len(cp.PressureAltitudes) {
		return fmt.Errorf("aircraft %s: climb speeds (%d) must match pressure altitudes (%d)",
			a.ID, len(cp.ClimbSpeeds), len(cp.PressureAltitudes))
	}
	if len(a.Maneuvering.Weights) != len(a.Maneuvering.Va) {
		return fmt.Errorf("aircraft %s: maneuvering weights (%d) must match Va values (%d)",
			a.ID, len(a.Maneuvering.Weights), len(a.Maneuvering.Va))
	}
	return nil
}

// RateOfClimb returns the max-gross-weight rate of climb (ft/min).
func (a *Aircraft) RateOfClimb(pressureAltitudeFt, outsideAirTempC float64, opts interp.Options) (int, error) {
	roc, err := interp.InterpolateFlexible(a.ClimbTable(), pressureAltitudeFt, outsideAirTempC,
		PressureAltitudesAxis, TemperaturesAxis, opts)
	if err != nil {
		return 0, fmt.Errorf("rate of climb for %s: %w", a.ID, err)
	}
	return round(roc), nil
}

// Vy returns the best-rate climb speed at the first tabulated altitude at
// or above the pressure altitude, or the sea-level speed above the table.
func (a *Aircraft) Vy(pressureAltitudeFt float64) float64 {
	speeds := a.ClimbPerformance.ClimbSpeeds
	if len(speeds) == 0 {
		return 0
	}
	idx := 0
	for i, pa := range a.ClimbPerformance.PressureAltitudes {
		if pa >= pressureAltitudeFt {
			idx = i
			break
		}
	}
	if idx >= len(speeds) {
		return 0
	}
	return speeds[idx]
}

// Vx estimates the best-angle climb speed as 90% of Vy.
func (a *Aircraft) Vx(pressureAltitudeFt float64) int {
	return round(a.Vy(pressureAltitudeFt) * 0.9)
}

// Va interpolates design maneuvering speed for the weight.
func (a *Aircraft) Va(weightLbs float64, opts interp.Options) (int, error) {
	table := interp.Table{
		XAxis: []float64{1},
		YAxis: a.Maneuvering.Weights,
		Data:  [][]float64{a.Maneuvering.Va},
	}
	va, err := interp.Interpolate(table, 1, weightLbs, opts)
	if err != nil {
		return 0, fmt.Errorf("maneuvering speed for %s: %w", a.ID, err)
	}
	return round(va), nil
}

// ServiceCeiling returns the pressure altitude at which the max-gross-weight
// rate of climb falls to ServiceCeilingRateOfClimb at the given temperature.
func (a *Aircraft) ServiceCeiling(outsideAirTempC float64) (int, error) {
	cp := a.ClimbPerformance
	alt, err := interp.FindInverseX(cp.Data, cp.PressureAltitudes, cp.Temperatures,
		ServiceCeilingRateOfClimb, outsideAirTempC)
	if err != nil {
		return 0, fmt.Errorf("service ceiling for %s: %w", a.ID, err)
	}
	return round(alt), nil
}

// PercentMGW returns weight as a whole percentage of max gross weight.
func (a *Aircraft) PercentMGW(weightLbs float64) int {
	return round(weightLbs / a.MaxGrossWeight * 100)
}
