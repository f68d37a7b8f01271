package lane

import (
	"strconv"

	"gonum.org/v1/gonum/floats/scalar"

	apperrors "github.com/louisbranch/hovlane/internal/platform/errors"
)

// IsDegraded reports whether s meets the degraded-speed condition: a wet
// season with heavy weather, several accidents, and either a crowded HOV
// lane or a thin general-purpose lane.
func (c SpeedCalibration) IsDegraded(s Sample) bool {
	return s.Season.Wet() &&
		s.WeatherIntensity > c.DegradedWeatherAbove &&
		s.NumAccidents > c.DegradedAccidentsAbove &&
		(s.HOVCount > c.CrowdedHOVAbove || s.GPVCount < c.ThinGPVBelow)
}

// Band returns the speed band that applies to s.
func (c SpeedCalibration) Band(s Sample) SpeedBand {
	if c.IsDegraded(s) {
		return c.Degraded
	}
	return c.Normal
}

// Emissions returns grams of CO emitted on each lane at the given speeds.
func (c EmissionCalibration) Emissions(hovSpeed, gpvSpeed float64) (hov, gpv float64) {
	hov = c.HOVFast
	if hovSpeed < c.HOVSlowBelow {
		hov = c.HOVSlow
	}
	gpv = c.GPVFast
	if gpvSpeed < c.GPVSlowBelow {
		gpv = c.GPVSlow
	}
	return hov, gpv
}

// TravelTime returns the hours needed to cover miles at speed mph, rounded
// to two decimals.
func TravelTime(miles, speed float64) (float64, error) {
	if speed <= 0 {
		return 0, apperrors.WithMetadata(apperrors.CodeDivisionByZero, "travel time needs a positive speed", map[string]string{
			"speed": strconv.FormatFloat(speed, 'g', -1, 64),
		})
	}
	return scalar.RoundEven(miles/speed, 2), nil
}
