package domain

// WeightBand classifies takeoff weight against max gross weight.
type WeightBand string

const (
	WeightNormal    WeightBand = "normal"
	WeightCaution   WeightBand = "caution"
	WeightOverGross WeightBand = "over"
)

// BandForPercentMGW returns the band for a percentage of max gross
// weight: above 100% is over gross, 90% and up calls for caution.
func BandForPercentMGW(percent int) WeightBand {
	switch {
	case percent > 100:
		return WeightOverGross
	case percent >= 90:
		return WeightCaution
	default:
		return WeightNormal
	}
}

// ActualRateOfClimb scales a max-gross-weight rate of climb to the actual
// weight: each percent below max gross adds a percent of climb rate.
func ActualRateOfClimb(rocAtMGW, percentMGW int) int {
	return round(float64(rocAtMGW) * (1 + (1 - float64(percentMGW)/100)))
}
