package domain

import (
	"github.com/brunoga/deep"
)

// WindsAloftLevels are the altitudes (ft) of the winds-aloft columns.
var WindsAloftLevels = [5]float64{3000, 6000, 9000, 12000, 15000}

// Worksheet is the complete form state. It holds only what the pilot
// entered; derived figures are recomputed from it.
type Worksheet struct {
	Sortie        Sortie        `json:"sortie"`
	Weather       Weather       `json:"wx"`
	Performance   Performance   `json:"perf"`
	Weight        Weight        `json:"wgt"`
	MountainQuals MountainQuals `json:"mtnQuals"`
}

type Sortie struct {
	Pilot      string `json:"pilot"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Aircraft   string `json:"acft"`
	TailNumber string `json:"tailN"`
}

// Weather holds winds aloft at WindsAloftLevels and the go/no-go
// weather flags.
type Weather struct {
	WindDirection       [5]float64 `json:"wDir"`
	WindVelocity        [5]float64 `json:"wVel"`
	Temperature         [5]float64 `json:"temp"`
	Turbulence          bool       `json:"turb"`
	CeilingVisibility   bool       `json:"ceilVis"`
	MountainObscuration bool       `json:"mtnObsc"`
}

// Legs holds one value for each phase of the sortie.
type Legs struct {
	Departure float64 `json:"dep"`
	Operating float64 `json:"op"`
	Arrival   float64 `json:"arr"`
}

// Airports names the departure and arrival fields.
type Airports struct {
	Departure string `json:"dep"`
	Arrival   string `json:"arr"`
}

// Runways holds available runway length (ft) at each field.
type Runways struct {
	Departure float64 `json:"dep"`
	Arrival   float64 `json:"arr"`
}

// Performance holds the per-leg inputs: temperature (°C), altimeter
// setting (inHg) and field or operating altitude (ft).
type Performance struct {
	Airports    Airports `json:"airport"`
	Temperature Legs     `json:"temp"`
	Altimeter   Legs     `json:"altimeter"`
	Altitude    Legs     `json:"altitude"`
	Runway      Runways  `json:"rwy"`
}

// Weight is takeoff weight in pounds; nil until entered.
type Weight struct {
	Pounds *float64 `json:"weight"`
}

type MountainQuals struct {
	Endorsement   bool `json:"hasMountainEndorsement"`
	Certification bool `json:"hasMountainCertification"`
}

// Leg identifies a phase of the sortie.
type Leg string

const (
	Departure Leg = "departure"
	Operating Leg = "operating"
	Arrival   Leg = "arrival"
)

// AllLegs lists the legs in worksheet column order.
var AllLegs = []Leg{Departure, Operating, Arrival}

// Get returns the value for a leg.
func (l Legs) Get(leg Leg) float64 {
	switch leg {
	case Departure:
		return l.Departure
	case Operating:
		return l.Operating
	default:
		return l.Arrival
	}
}

var defaultWorksheet = Worksheet{
	Performance: Performance{
		Temperature: Legs{Departure: 21, Operating: 21, Arrival: 21},
		Altimeter:   Legs{Departure: StandardAltimeterInHg, Operating: StandardAltimeterInHg, Arrival: StandardAltimeterInHg},
		Altitude:    Legs{Departure: 8000, Operating: 8000, Arrival: 8000},
		Runway:      Runways{Departure: 1000, Arrival: 1000},
	},
}

// DefaultWorksheet returns a new worksheet with the form defaults.
func DefaultWorksheet() Worksheet {
	return deep.MustCopy(defaultWorksheet)
}

// Clone returns a copy sharing no memory with w.
func (w Worksheet) Clone() Worksheet {
	return deep.MustCopy(w)
}

// SetWeight sets the takeoff weight; a nil weight clears it.
func (w *Worksheet) SetWeight(lbs *float64) {
	if lbs == nil {
		w.Weight.Pounds = nil
		return
	}
	v := *lbs
	w.Weight.Pounds = &v
}
