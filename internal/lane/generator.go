package lane

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/louisbranch/hovlane/internal/core/choice"
	"github.com/louisbranch/hovlane/internal/core/pert"
)

// Precision of representative values.
const (
	countPrecision     = 0
	intensityPrecision = 2
	speedPrecision     = 2
)

// step advances a partial sample by one link of the chain.
type step struct {
	name string
	run  func(rand.Source, Sample) (Sample, error)
}

// Generator builds samples from a validated calibration.
type Generator struct {
	cal   Calibration
	steps []step
}

// NewGenerator validates cal and returns a generator for it.
func NewGenerator(cal Calibration) (*Generator, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{cal: cal}
	g.steps = []step{
		{name: "traffic", run: g.withTraffic},
		{name: "weather", run: g.withWeather},
		{name: "accidents", run: g.withAccidents},
		{name: "speeds", run: g.withSpeeds},
		{name: "emissions", run: g.withEmissions},
		{name: "travel time", run: g.withTravelTime},
		{name: "fines", run: cal.Fines.Apply},
	}
	return g, nil
}

// Calibration returns the constants the generator runs with.
func (g *Generator) Calibration() Calibration {
	return g.cal
}

// Generate runs the full chain once. Every draw comes from src, so a
// source in the same state always yields the same sample.
func (g *Generator) Generate(src rand.Source) (Sample, error) {
	var s Sample
	for _, st := range g.steps {
		next, err := st.run(src, s)
		if err != nil {
			return Sample{}, fmt.Errorf("%s: %w", st.name, err)
		}
		s = next
	}
	return s, nil
}

func (g *Generator) representative(src rand.Source, r pert.Range, precision int) (float64, error) {
	return pert.Representative(src, r, g.cal.Confidence, precision)
}

func (g *Generator) withTraffic(src rand.Source, s Sample) (Sample, error) {
	traffic := g.cal.Traffic
	peak, err := choice.Bool(src, traffic.PeakHourProbability)
	if err != nil {
		return s, err
	}
	s.PeakHour = YesNoOf(peak)

	volumes := traffic.OffPeak
	if peak {
		volumes = traffic.Peak
	}
	if s.HOVCount, err = g.representative(src, volumes.HOV, countPrecision); err != nil {
		return s, err
	}
	if s.SOVCount, err = g.representative(src, volumes.SOV, countPrecision); err != nil {
		return s, err
	}
	if s.GPVCount, err = g.representative(src, volumes.GPV, countPrecision); err != nil {
		return s, err
	}

	s.FuelEfficientSOV = scalar.RoundEven(traffic.FuelEfficientShare*s.SOVCount, countPrecision)
	s.RegisteredFuelEfficientSOV = scalar.RoundEven(traffic.RegisteredShare*s.FuelEfficientSOV, countPrecision)
	return s, nil
}

func (g *Generator) withWeather(src rand.Source, s Sample) (Sample, error) {
	weather := g.cal.Weather
	season, err := choice.Choose(src, Seasons, weather.SeasonWeights[:])
	if err != nil {
		return s, err
	}
	s.Season = season

	switch season {
	case Winter:
		s.WeatherIntensity, err = g.representative(src, weather.Winter, intensityPrecision)
	case Rains:
		s.WeatherIntensity, err = g.representative(src, weather.Rains, intensityPrecision)
	default:
		// Summer weather does not affect lane performance.
		s.WeatherIntensity = 0
	}
	return s, err
}

func (g *Generator) withAccidents(src rand.Source, s Sample) (Sample, error) {
	accidents := g.cal.Accidents
	occurred, err := choice.Bool(src, accidents.Probability)
	if err != nil {
		return s, err
	}
	s.AccidentOccurred = YesNoOf(occurred)
	s.NumAccidents = 0
	if occurred {
		if s.NumAccidents, err = g.representative(src, accidents.Count, countPrecision); err != nil {
			return s, err
		}
	}
	s.AccidentFine = s.NumAccidents * accidents.FinePerAccident
	return s, nil
}

func (g *Generator) withSpeeds(src rand.Source, s Sample) (Sample, error) {
	band := g.cal.Speed.Band(s)
	var err error
	if s.HOVSpeed, err = g.representative(src, band.HOV, speedPrecision); err != nil {
		return s, err
	}
	if s.GPVSpeed, err = g.representative(src, band.GPV, speedPrecision); err != nil {
		return s, err
	}
	return s, nil
}

func (g *Generator) withEmissions(_ rand.Source, s Sample) (Sample, error) {
	s.HOVEmission, s.GPVEmission = g.cal.Emission.Emissions(s.HOVSpeed, s.GPVSpeed)
	return s, nil
}

func (g *Generator) withTravelTime(_ rand.Source, s Sample) (Sample, error) {
	var err error
	if s.HOVTime, err = TravelTime(g.cal.LaneLengthMiles, s.HOVSpeed); err != nil {
		return s, fmt.Errorf("hov lane: %w", err)
	}
	if s.GPVTime, err = TravelTime(g.cal.LaneLengthMiles, s.GPVSpeed); err != nil {
		return s, fmt.Errorf("gpv lane: %w", err)
	}
	return s, nil
}
