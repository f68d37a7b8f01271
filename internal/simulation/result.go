package simulation

import (
	"gonum.org/v1/gonum/stat"

	"github.com/louisbranch/hovlane/internal/lane"
)

// Result is one completed run.
type Result struct {
	// Seed reproduces the run when passed back in Config.Seed.
	Seed    int64
	Samples []lane.Sample
	Means   Means
}

// Means holds the arithmetic mean of every numeric sample column.
type Means struct {
	WeatherIntensity           float64
	NumAccidents               float64
	HOVCount                   float64
	SOVCount                   float64
	GPVCount                   float64
	FuelEfficientSOV           float64
	RegisteredFuelEfficientSOV float64
	HOVSpeed                   float64
	GPVSpeed                   float64
	HOVEmission                float64
	GPVEmission                float64
	HOVTime                    float64
	GPVTime                    float64
	EstimatedFine              float64
	ActualFine                 float64
	RevenueLost                float64
	AccidentFine               float64
}

// ComputeMeans averages every numeric column of samples. It returns the
// zero Means for an empty table.
func ComputeMeans(samples []lane.Sample) Means {
	if len(samples) == 0 {
		return Means{}
	}
	mean := func(field func(lane.Sample) float64) float64 {
		column := make([]float64, len(samples))
		for i, s := range samples {
			column[i] = field(s)
		}
		return stat.Mean(column, nil)
	}
	return Means{
		WeatherIntensity:           mean(func(s lane.Sample) float64 { return s.WeatherIntensity }),
		NumAccidents:               mean(func(s lane.Sample) float64 { return s.NumAccidents }),
		HOVCount:                   mean(func(s lane.Sample) float64 { return s.HOVCount }),
		SOVCount:                   mean(func(s lane.Sample) float64 { return s.SOVCount }),
		GPVCount:                   mean(func(s lane.Sample) float64 { return s.GPVCount }),
		FuelEfficientSOV:           mean(func(s lane.Sample) float64 { return s.FuelEfficientSOV }),
		RegisteredFuelEfficientSOV: mean(func(s lane.Sample) float64 { return s.RegisteredFuelEfficientSOV }),
		HOVSpeed:                   mean(func(s lane.Sample) float64 { return s.HOVSpeed }),
		GPVSpeed:                   mean(func(s lane.Sample) float64 { return s.GPVSpeed }),
		HOVEmission:                mean(func(s lane.Sample) float64 { return s.HOVEmission }),
		GPVEmission:                mean(func(s lane.Sample) float64 { return s.GPVEmission }),
		HOVTime:                    mean(func(s lane.Sample) float64 { return s.HOVTime }),
		GPVTime:                    mean(func(s lane.Sample) float64 { return s.GPVTime }),
		EstimatedFine:              mean(func(s lane.Sample) float64 { return s.EstimatedFine }),
		ActualFine:                 mean(func(s lane.Sample) float64 { return s.ActualFine }),
		RevenueLost:                mean(func(s lane.Sample) float64 { return s.RevenueLost }),
		AccidentFine:               mean(func(s lane.Sample) float64 { return s.AccidentFine }),
	}
}
