package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/louisbranch/hovlane/internal/lane"
)

func testSamples() []lane.Sample {
	return []lane.Sample{
		{
			PeakHour:                   lane.Yes,
			Season:                     lane.Rains,
			WeatherIntensity:           5.12,
			AccidentOccurred:           lane.Yes,
			NumAccidents:               4,
			HOVCount:                   1420,
			SOVCount:                   205,
			GPVCount:                   1260,
			FuelEfficientSOV:           41,
			RegisteredFuelEfficientSOV: 29,
			HOVSpeed:                   48.31,
			GPVSpeed:                   36.07,
			HOVEmission:                151,
			GPVEmission:                211,
			HOVTime:                    0.41,
			GPVTime:                    0.55,
			EstimatedFine:              316800,
			CameraFunctional:           lane.Yes,
			ActualFine:                 253440,
			RevenueLost:                63360,
			AccidentFine:               400,
		},
		{
			Season:           lane.Summer,
			CameraFunctional: lane.No,
			HOVSpeed:         80,
			GPVSpeed:         45.5,
		},
	}
}

func TestHeaderLeadsWithEmptyIndexCell(t *testing.T) {
	header := Header()
	if header[0] != "" {
		t.Fatalf("first header cell = %q, want empty", header[0])
	}
	if header[1] != "peak_hour" {
		t.Fatalf("second header cell = %q, want peak_hour", header[1])
	}
	if last := header[len(header)-1]; last != "accident_fine" {
		t.Fatalf("last header cell = %q, want accident_fine", last)
	}
	if len(header) != 22 {
		t.Fatalf("header width = %d, want 22", len(header))
	}
}

func TestWriteCSVRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testSamples()); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header plus 2 rows", len(records))
	}
	if !slices.Equal(records[0], Header()) {
		t.Fatalf("header = %v", records[0])
	}

	first := records[1]
	want := []string{
		"0", "Yes", "Rains", "5.12", "Yes", "4", "1420", "205", "1260", "41", "29",
		"48.31", "36.07", "151", "211", "0.41", "0.55", "316800", "Yes", "253440", "63360", "400",
	}
	if !slices.Equal(first, want) {
		t.Fatalf("row 0 = %v\nwant    %v", first, want)
	}

	second := records[2]
	if second[0] != "1" || second[1] != "No" || second[2] != "Summer" || second[3] != "0" {
		t.Fatalf("row 1 prefix = %v", second[:4])
	}
	if second[18] != "No" {
		t.Fatalf("camera_functional = %q, want No", second[18])
	}
}

func TestWriteCSVEmptyTableWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 1 {
		t.Fatalf("lines = %d, want 1", lines)
	}
}

func TestWriteFileReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "HOV.csv")
	if err := os.WriteFile(path, []byte("stale"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if err := WriteFile(path, testSamples()); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if strings.Contains(string(data), "stale") {
		t.Fatal("expected file to be replaced")
	}
	if !strings.HasPrefix(string(data), ",peak_hour,season,") {
		t.Fatalf("unexpected file prefix: %q", string(data)[:20])
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file cleanup, found %d entries", len(entries))
	}
}

func TestWriteFileIsWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	path := filepath.Join(t.TempDir(), "HOV.csv")
	if err := WriteFile(path, testSamples()); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat file: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o644 {
		t.Fatalf("mode = %v, want 0644", got)
	}
}

func TestWriteFileMissingDirectoryFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "HOV.csv")
	if err := WriteFile(path, testSamples()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
