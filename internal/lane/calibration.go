package lane

import (
	"fmt"
	"math"

	"github.com/louisbranch/hovlane/internal/core/choice"
	"github.com/louisbranch/hovlane/internal/core/pert"
	apperrors "github.com/louisbranch/hovlane/internal/platform/errors"
)

// Calibration holds every domain constant the generator chain consumes.
// The ranges come from observed corridor data and are not meant to be
// general-purpose defaults.
type Calibration struct {
	// Confidence is the PERT lambda used for every range.
	Confidence float64

	Traffic   TrafficCalibration
	Weather   WeatherCalibration
	Accidents AccidentCalibration
	Speed     SpeedCalibration
	Emission  EmissionCalibration
	Fines     FineCalculator

	// LaneLengthMiles is the stretch both lanes cover.
	LaneLengthMiles float64
}

// Volumes holds per-lane vehicle count ranges for one traffic regime.
type Volumes struct {
	HOV pert.Range
	SOV pert.Range
	GPV pert.Range
}

// TrafficCalibration drives vehicle counts.
type TrafficCalibration struct {
	PeakHourProbability float64
	Peak                Volumes
	OffPeak             Volumes
	// FuelEfficientShare is the share of SOVs that are fuel-efficient or
	// hybrid; RegisteredShare is the share of those registered for the lane.
	FuelEfficientShare float64
	RegisteredShare    float64
}

// WeatherCalibration drives season and weather intensity.
type WeatherCalibration struct {
	// SeasonWeights pairs with Seasons.
	SeasonWeights [3]float64
	Winter        pert.Range
	Rains         pert.Range
}

// AccidentCalibration drives accident occurrence and count.
type AccidentCalibration struct {
	Probability     float64
	Count           pert.Range
	FinePerAccident float64
}

// SpeedBand holds lane speed ranges for one condition.
type SpeedBand struct {
	HOV pert.Range
	GPV pert.Range
}

// SpeedCalibration selects and draws lane speeds.
type SpeedCalibration struct {
	Normal   SpeedBand
	Degraded SpeedBand

	DegradedWeatherAbove   float64
	DegradedAccidentsAbove float64
	CrowdedHOVAbove        float64
	ThinGPVBelow           float64
}

// EmissionCalibration is a step function from speed to grams of CO.
type EmissionCalibration struct {
	GPVSlowBelow float64
	GPVSlow      float64
	GPVFast      float64
	HOVSlowBelow float64
	HOVSlow      float64
	HOVFast      float64
}

// DefaultCalibration returns the corridor calibration.
func DefaultCalibration() Calibration {
	return Calibration{
		Confidence: pert.DefaultConfidence,
		Traffic: TrafficCalibration{
			PeakHourProbability: 0.5,
			Peak: Volumes{
				HOV: pert.Range{Low: 1080, Likely: 1440, High: 1740},
				SOV: pert.Range{Low: 150, Likely: 200, High: 300},
				GPV: pert.Range{Low: 1000, Likely: 1250, High: 1500},
			},
			OffPeak: Volumes{
				HOV: pert.Range{Low: 660, Likely: 1080, High: 1680},
				SOV: pert.Range{Low: 50, Likely: 100, High: 200},
				GPV: pert.Range{Low: 1500, Likely: 2000, High: 2200},
			},
			FuelEfficientShare: 0.2,
			RegisteredShare:    0.7,
		},
		Weather: WeatherCalibration{
			SeasonWeights: [3]float64{0.5, 0.3, 0.2},
			Winter:        pert.Range{Low: 1, Likely: 4, High: 10},
			Rains:         pert.Range{Low: 1, Likely: 5, High: 10},
		},
		Accidents: AccidentCalibration{
			Probability:     0.6,
			Count:           pert.Range{Low: 1, Likely: 5, High: 10},
			FinePerAccident: 100,
		},
		Speed: SpeedCalibration{
			Normal: SpeedBand{
				HOV: pert.Range{Low: 70, Likely: 80, High: 85},
				GPV: pert.Range{Low: 35, Likely: 45, High: 60},
			},
			Degraded: SpeedBand{
				HOV: pert.Range{Low: 35, Likely: 45, High: 75},
				GPV: pert.Range{Low: 25, Likely: 35, High: 50},
			},
			DegradedWeatherAbove:   3,
			DegradedAccidentsAbove: 3,
			CrowdedHOVAbove:        1400,
			ThinGPVBelow:           1500,
		},
		Emission: EmissionCalibration{
			GPVSlowBelow: 40,
			GPVSlow:      211,
			GPVFast:      181,
			HOVSlowBelow: 60,
			HOVSlow:      151,
			HOVFast:      211 - 78,
		},
		Fines: FineCalculator{
			Amount:              450,
			Hours:               4,
			CameraUptime:        0.8,
			DetectionEfficiency: 0.8,
		},
		LaneLengthMiles: 20,
	}
}

// Validate reports the first constant that would break the generator
// chain or its invariants.
func (c Calibration) Validate() error {
	ranges := []struct {
		name string
		r    pert.Range
	}{
		{"traffic.peak.hov", c.Traffic.Peak.HOV},
		{"traffic.peak.sov", c.Traffic.Peak.SOV},
		{"traffic.peak.gpv", c.Traffic.Peak.GPV},
		{"traffic.offpeak.hov", c.Traffic.OffPeak.HOV},
		{"traffic.offpeak.sov", c.Traffic.OffPeak.SOV},
		{"traffic.offpeak.gpv", c.Traffic.OffPeak.GPV},
		{"weather.winter", c.Weather.Winter},
		{"weather.rains", c.Weather.Rains},
		{"accidents.count", c.Accidents.Count},
		{"speed.normal.hov", c.Speed.Normal.HOV},
		{"speed.normal.gpv", c.Speed.Normal.GPV},
		{"speed.degraded.hov", c.Speed.Degraded.HOV},
		{"speed.degraded.gpv", c.Speed.Degraded.GPV},
	}
	for _, entry := range ranges {
		if err := entry.r.Validate(c.Confidence); err != nil {
			return fmt.Errorf("%s: %w", entry.name, err)
		}
		if entry.r.Low < 0 {
			return invalidCalibration(entry.name + " must be non-negative")
		}
	}

	// Speeds divide lane length, so a zero low bound could surface as a
	// division by zero deep in the chain.
	for _, band := range []SpeedBand{c.Speed.Normal, c.Speed.Degraded} {
		if band.HOV.Low <= 0 || band.GPV.Low <= 0 {
			return invalidCalibration("speed ranges must stay above zero")
		}
	}

	probabilities := []struct {
		name  string
		value float64
	}{
		{"traffic.peak_hour_probability", c.Traffic.PeakHourProbability},
		{"traffic.fuel_efficient_share", c.Traffic.FuelEfficientShare},
		{"traffic.registered_share", c.Traffic.RegisteredShare},
		{"accidents.probability", c.Accidents.Probability},
		{"fines.camera_uptime", c.Fines.CameraUptime},
		{"fines.detection_efficiency", c.Fines.DetectionEfficiency},
	}
	for _, p := range probabilities {
		if math.IsNaN(p.value) || p.value < 0 || p.value > 1 {
			return invalidCalibration(p.name + " must lie within [0, 1]")
		}
	}

	if err := choice.ValidateWeights(len(Seasons), c.Weather.SeasonWeights[:]); err != nil {
		return fmt.Errorf("weather.season_weights: %w", err)
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"accidents.fine_per_accident", c.Accidents.FinePerAccident},
		{"fines.amount", c.Fines.Amount},
		{"fines.hours", c.Fines.Hours},
		{"emission.gpv_slow", c.Emission.GPVSlow},
		{"emission.gpv_fast", c.Emission.GPVFast},
		{"emission.hov_slow", c.Emission.HOVSlow},
		{"emission.hov_fast", c.Emission.HOVFast},
	}
	for _, v := range nonNegative {
		if math.IsNaN(v.value) || v.value < 0 {
			return invalidCalibration(v.name + " must be non-negative")
		}
	}

	if !(c.LaneLengthMiles > 0) {
		return invalidCalibration("lane length must be positive")
	}
	return nil
}

func invalidCalibration(message string) error {
	return apperrors.New(apperrors.CodeInvalidParameters, "invalid calibration: "+message)
}
