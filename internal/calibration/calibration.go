// Package calibration loads corridor calibration overrides from Lua scripts.
//
// A script returns a table whose keys override lane.DefaultCalibration:
//
//	return {
//	  hov_peak = {1000, 1400, 1800},
//	  camera_uptime = 0.9,
//	  season_weights = {summer = 0.4, winter = 0.4, rains = 0.2},
//	}
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
package calibration

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/louisbranch/hovlane/internal/core/pert"
	"github.com/louisbranch/hovlane/internal/lane"
	apperrors "github.com/louisbranch/hovlane/internal/platform/errors"
)

// Load runs the script at path and merges its table over the defaults.
func Load(path string) (lane.Calibration, error) {
	if strings.TrimSpace(path) == "" {
		return lane.Calibration{}, fmt.Errorf("calibration path is required")
	}
	overrides, err := evalFile(path)
	if err != nil {
		return lane.Calibration{}, err
	}
	return Apply(lane.DefaultCalibration(), overrides)
}

func evalFile(path string) (map[string]any, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidParameters, "invalid calibration: load lua: "+err.Error(), err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidParameters, "invalid calibration: run lua: "+err.Error(), err)
	}
	defer state.Pop(1)

	if state.TypeOf(-1) != lua.TypeTable {
		return nil, invalid("calibration script must return a table", nil)
	}
	return tableToMap(state, -1), nil
}

// rangeKeys maps triple keys to the range they replace.
var rangeKeys = map[string]func(*lane.Calibration) *pert.Range{
	"hov_peak":           func(c *lane.Calibration) *pert.Range { return &c.Traffic.Peak.HOV },
	"sov_peak":           func(c *lane.Calibration) *pert.Range { return &c.Traffic.Peak.SOV },
	"gpv_peak":           func(c *lane.Calibration) *pert.Range { return &c.Traffic.Peak.GPV },
	"hov_offpeak":        func(c *lane.Calibration) *pert.Range { return &c.Traffic.OffPeak.HOV },
	"sov_offpeak":        func(c *lane.Calibration) *pert.Range { return &c.Traffic.OffPeak.SOV },
	"gpv_offpeak":        func(c *lane.Calibration) *pert.Range { return &c.Traffic.OffPeak.GPV },
	"weather_winter":     func(c *lane.Calibration) *pert.Range { return &c.Weather.Winter },
	"weather_rains":      func(c *lane.Calibration) *pert.Range { return &c.Weather.Rains },
	"accident_count":     func(c *lane.Calibration) *pert.Range { return &c.Accidents.Count },
	"hov_speed_normal":   func(c *lane.Calibration) *pert.Range { return &c.Speed.Normal.HOV },
	"gpv_speed_normal":   func(c *lane.Calibration) *pert.Range { return &c.Speed.Normal.GPV },
	"hov_speed_degraded": func(c *lane.Calibration) *pert.Range { return &c.Speed.Degraded.HOV },
	"gpv_speed_degraded": func(c *lane.Calibration) *pert.Range { return &c.Speed.Degraded.GPV },
}

var numberKeys = map[string]func(*lane.Calibration) *float64{
	"peak_hour_probability": func(c *lane.Calibration) *float64 { return &c.Traffic.PeakHourProbability },
	"accident_probability":  func(c *lane.Calibration) *float64 { return &c.Accidents.Probability },
	"camera_uptime":         func(c *lane.Calibration) *float64 { return &c.Fines.CameraUptime },
	"detection_efficiency":  func(c *lane.Calibration) *float64 { return &c.Fines.DetectionEfficiency },
	"fine_amount":           func(c *lane.Calibration) *float64 { return &c.Fines.Amount },
	"fined_hours":           func(c *lane.Calibration) *float64 { return &c.Fines.Hours },
	"fuel_efficient_share":  func(c *lane.Calibration) *float64 { return &c.Traffic.FuelEfficientShare },
	"registered_share":      func(c *lane.Calibration) *float64 { return &c.Traffic.RegisteredShare },
	"lane_length_miles":     func(c *lane.Calibration) *float64 { return &c.LaneLengthMiles },
	"accident_fine":         func(c *lane.Calibration) *float64 { return &c.Accidents.FinePerAccident },
	"confidence":            func(c *lane.Calibration) *float64 { return &c.Confidence },
}

const seasonWeightsKey = "season_weights"

// Apply merges overrides over base and validates the result.
func Apply(base lane.Calibration, overrides map[string]any) (lane.Calibration, error) {
	cal := base
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := overrides[key]
		switch {
		case rangeKeys[key] != nil:
			r, err := toRange(key, value)
			if err != nil {
				return lane.Calibration{}, err
			}
			*rangeKeys[key](&cal) = r
		case numberKeys[key] != nil:
			n, ok := value.(float64)
			if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
				return lane.Calibration{}, invalid(key+" must be a finite number", map[string]string{"key": key})
			}
			*numberKeys[key](&cal) = n
		case key == seasonWeightsKey:
			weights, err := toSeasonWeights(value)
			if err != nil {
				return lane.Calibration{}, err
			}
			cal.Weather.SeasonWeights = weights
		default:
			return lane.Calibration{}, invalid("unknown calibration key "+key, map[string]string{"key": key})
		}
	}

	if err := cal.Validate(); err != nil {
		return lane.Calibration{}, err
	}
	return cal, nil
}

func toRange(key string, value any) (pert.Range, error) {
	items, ok := value.([]any)
	if !ok || len(items) != 3 {
		return pert.Range{}, invalid(key+" must be {low, likely, high}", map[string]string{"key": key})
	}
	var triple [3]float64
	for i, item := range items {
		n, ok := item.(float64)
		if !ok {
			return pert.Range{}, invalid(key+" must contain numbers", map[string]string{"key": key})
		}
		triple[i] = n
	}
	return pert.Range{Low: triple[0], Likely: triple[1], High: triple[2]}, nil
}

func toSeasonWeights(value any) ([3]float64, error) {
	var weights [3]float64
	table, ok := value.(map[string]any)
	if !ok {
		return weights, invalid("season_weights must be a table of season = weight", map[string]string{"key": seasonWeightsKey})
	}
	seen := 0
	for name, raw := range table {
		season, err := lane.ParseSeason(name)
		if err != nil {
			return weights, invalid("season_weights: "+err.Error(), map[string]string{"key": seasonWeightsKey, "season": name})
		}
		n, ok := raw.(float64)
		if !ok {
			return weights, invalid("season_weights."+name+" must be a number", map[string]string{"key": seasonWeightsKey, "season": name})
		}
		weights[season] = n
		seen++
	}
	if seen != len(lane.Seasons) {
		return weights, invalid("season_weights must name summer, winter and rains", map[string]string{"key": seasonWeightsKey})
	}
	return weights, nil
}

func invalid(message string, metadata map[string]string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidParameters, "invalid calibration: "+message, metadata)
}
