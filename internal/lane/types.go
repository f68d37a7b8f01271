package lane

import (
	"fmt"
	"strings"
)

// YesNo is a binary categorical field.
type YesNo uint8

const (
	No YesNo = iota
	Yes
)

// YesNoOf converts a boolean draw into a YesNo.
func YesNoOf(b bool) YesNo {
	if b {
		return Yes
	}
	return No
}

// Bool reports whether v is Yes.
func (v YesNo) Bool() bool {
	return v == Yes
}

func (v YesNo) String() string {
	switch v {
	case Yes:
		return "Yes"
	case No:
		return "No"
	default:
		return fmt.Sprintf("YesNo(%d)", uint8(v))
	}
}

// ParseYesNo parses the labels written by String.
func ParseYesNo(s string) (YesNo, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return Yes, nil
	case "no":
		return No, nil
	default:
		return No, fmt.Errorf("unknown yes/no label %q", s)
	}
}

// Season drives weather intensity.
type Season uint8

const (
	Summer Season = iota
	Winter
	Rains
)

// Seasons lists every season in calibration weight order.
var Seasons = []Season{Summer, Winter, Rains}

func (s Season) String() string {
	switch s {
	case Summer:
		return "Summer"
	case Winter:
		return "Winter"
	case Rains:
		return "Rains"
	default:
		return fmt.Sprintf("Season(%d)", uint8(s))
	}
}

// Wet reports whether the season can degrade lane speeds.
func (s Season) Wet() bool {
	return s == Winter || s == Rains
}

// ParseSeason parses the labels written by String.
func ParseSeason(s string) (Season, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "summer":
		return Summer, nil
	case "winter":
		return Winter, nil
	case "rains":
		return Rains, nil
	default:
		return Summer, fmt.Errorf("unknown season %q", s)
	}
}

// Sample is one simulated observation period.
type Sample struct {
	PeakHour                   YesNo
	Season                     Season
	WeatherIntensity           float64 // 0-10, always 0 in Summer
	AccidentOccurred           YesNo
	NumAccidents               float64
	HOVCount                   float64
	SOVCount                   float64
	GPVCount                   float64
	FuelEfficientSOV           float64
	RegisteredFuelEfficientSOV float64
	HOVSpeed                   float64 // mph
	GPVSpeed                   float64 // mph
	HOVEmission                float64 // grams CO
	GPVEmission                float64 // grams CO
	HOVTime                    float64 // hours
	GPVTime                    float64 // hours
	EstimatedFine              float64
	CameraFunctional           YesNo
	ActualFine                 float64
	RevenueLost                float64
	AccidentFine               float64
}
