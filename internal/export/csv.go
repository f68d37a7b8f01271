// Package export writes simulation tables for spreadsheet tools.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/louisbranch/hovlane/internal/lane"
)

// DefaultPath is the file name used when no CSV path is configured.
const DefaultPath = "HOV.csv"

type column struct {
	name  string
	value func(lane.Sample) string
}

func number(field func(lane.Sample) float64) func(lane.Sample) string {
	return func(s lane.Sample) string {
		return strconv.FormatFloat(field(s), 'f', -1, 64)
	}
}

var columns = []column{
	{"peak_hour", func(s lane.Sample) string { return s.PeakHour.String() }},
	{"season", func(s lane.Sample) string { return s.Season.String() }},
	{"weather_intensity", number(func(s lane.Sample) float64 { return s.WeatherIntensity })},
	{"accident_occurred", func(s lane.Sample) string { return s.AccidentOccurred.String() }},
	{"num_accidents", number(func(s lane.Sample) float64 { return s.NumAccidents })},
	{"hov_count", number(func(s lane.Sample) float64 { return s.HOVCount })},
	{"sov_count", number(func(s lane.Sample) float64 { return s.SOVCount })},
	{"gpv_count", number(func(s lane.Sample) float64 { return s.GPVCount })},
	{"fuel_efficient_sov", number(func(s lane.Sample) float64 { return s.FuelEfficientSOV })},
	{"registered_fuel_efficient_sov", number(func(s lane.Sample) float64 { return s.RegisteredFuelEfficientSOV })},
	{"hov_speed", number(func(s lane.Sample) float64 { return s.HOVSpeed })},
	{"gpv_speed", number(func(s lane.Sample) float64 { return s.GPVSpeed })},
	{"hov_emission", number(func(s lane.Sample) float64 { return s.HOVEmission })},
	{"gpv_emission", number(func(s lane.Sample) float64 { return s.GPVEmission })},
	{"hov_time", number(func(s lane.Sample) float64 { return s.HOVTime })},
	{"gpv_time", number(func(s lane.Sample) float64 { return s.GPVTime })},
	{"estimated_fine", number(func(s lane.Sample) float64 { return s.EstimatedFine })},
	{"camera_functional", func(s lane.Sample) string { return s.CameraFunctional.String() }},
	{"actual_fine", number(func(s lane.Sample) float64 { return s.ActualFine })},
	{"revenue_lost", number(func(s lane.Sample) float64 { return s.RevenueLost })},
	{"accident_fine", number(func(s lane.Sample) float64 { return s.AccidentFine })},
}

// Header returns the header row: an empty index cell, then one cell per
// column.
func Header() []string {
	header := make([]string, 0, len(columns)+1)
	header = append(header, "")
	for _, c := range columns {
		header = append(header, c.name)
	}
	return header
}

// WriteCSV writes samples as a table whose first cell in each row is the
// 0-based row index.
func WriteCSV(w io.Writer, samples []lane.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(columns)+1)
	for i, s := range samples {
		record[0] = strconv.Itoa(i)
		for j, c := range columns {
			record[j+1] = c.value(s)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteFile replaces path with the CSV table. The file is written to a
// sibling temp file first so a failed run never leaves a truncated table.
func WriteFile(path string, samples []lane.Sample) error {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := WriteCSV(tmp, samples); err != nil {
		_ = tmp.Close()
		return err
	}
	// CreateTemp opens with 0600; exported files are meant to be shared.
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace csv: %w", err)
	}
	return nil
}
