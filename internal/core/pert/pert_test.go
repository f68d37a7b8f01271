package pert

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	apperrors "github.com/louisbranch/hovlane/internal/platform/errors"
)

func newSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, 0)
}

func TestSampleWithinBounds(t *testing.T) {
	ranges := []Range{
		{Low: 1, Likely: 4, High: 10},
		{Low: 1, Likely: 5, High: 10},
		{Low: 1080, Likely: 1440, High: 1740},
		{Low: 35, Likely: 45, High: 75},
		{Low: 70, Likely: 80, High: 85},
		{Low: 0, Likely: 0, High: 1},
		{Low: 0, Likely: 1, High: 1},
	}

	for _, r := range ranges {
		values, err := Sample(newSource(7), r, DefaultConfidence, 500)
		if err != nil {
			t.Fatalf("Sample(%+v) error = %v", r, err)
		}
		if len(values) != 500 {
			t.Fatalf("Sample(%+v) returned %d values, want 500", r, len(values))
		}
		for i, v := range values {
			if v < r.Low || v > r.High {
				t.Fatalf("Sample(%+v)[%d] = %v, out of range", r, i, v)
			}
		}
	}
}

func TestSampleInvalidParameters(t *testing.T) {
	tests := []struct {
		name       string
		r          Range
		confidence float64
		count      int
	}{
		{name: "high equals low", r: Range{Low: 5, Likely: 5, High: 5}, confidence: 4, count: 10},
		{name: "high below low", r: Range{Low: 10, Likely: 5, High: 1}, confidence: 4, count: 10},
		{name: "likely below low", r: Range{Low: 1, Likely: 0, High: 10}, confidence: 4, count: 10},
		{name: "likely above high", r: Range{Low: 1, Likely: 11, High: 10}, confidence: 4, count: 10},
		{name: "zero confidence", r: Range{Low: 1, Likely: 4, High: 10}, confidence: 0, count: 10},
		{name: "zero count", r: Range{Low: 1, Likely: 4, High: 10}, confidence: 4, count: 0},
		{name: "nan bound", r: Range{Low: math.NaN(), Likely: 4, High: 10}, confidence: 4, count: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sample(newSource(1), tt.r, tt.confidence, tt.count)
			if !errors.Is(err, apperrors.ErrInvalidParameters) {
				t.Fatalf("Sample() error = %v, want invalid parameters", err)
			}
		})
	}
}

func TestSampleDeterminism(t *testing.T) {
	r := Range{Low: 1, Likely: 5, High: 10}
	first, err := Sample(newSource(42), r, DefaultConfidence, DefaultCount)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	second, err := Sample(newSource(42), r, DefaultConfidence, DefaultCount)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("value[%d] differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestLargeBatchMedianApproximatesMean(t *testing.T) {
	r := Range{Low: 1, Likely: 4, High: 10}
	want := r.Mean(DefaultConfidence)

	for seed := uint64(1); seed <= 5; seed++ {
		values, err := Sample(newSource(seed), r, DefaultConfidence, 10000)
		if err != nil {
			t.Fatalf("Sample() error = %v", err)
		}
		if got := Median(values); math.Abs(got-want) > 0.5 {
			t.Fatalf("seed %d: median = %.3f, want within 0.5 of %.3f", seed, got, want)
		}
	}
}

func TestShape(t *testing.T) {
	r := Range{Low: 1, Likely: 4, High: 10}
	alpha, beta := r.Shape(DefaultConfidence)
	if math.Abs(alpha-7.0/3.0) > 1e-12 {
		t.Fatalf("alpha = %v, want 7/3", alpha)
	}
	if math.Abs(beta-11.0/3.0) > 1e-12 {
		t.Fatalf("beta = %v, want 11/3", beta)
	}
	if got := r.Mean(DefaultConfidence); got != 4.5 {
		t.Fatalf("mean = %v, want 4.5", got)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "odd", values: []float64{3, 1, 2}, want: 2},
		{name: "even", values: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "single", values: []float64{7}, want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); got != tt.want {
				t.Fatalf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}

	if !math.IsNaN(Median(nil)) {
		t.Fatal("expected NaN for empty input")
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Fatalf("input reordered: %v", values)
	}
}

func TestRepresentativeRounds(t *testing.T) {
	r := Range{Low: 1080, Likely: 1440, High: 1740}
	got, err := Representative(newSource(9), r, DefaultConfidence, 0)
	if err != nil {
		t.Fatalf("Representative() error = %v", err)
	}
	if got != math.Trunc(got) {
		t.Fatalf("Representative() = %v, want whole number", got)
	}
	if got < r.Low || got > r.High {
		t.Fatalf("Representative() = %v, out of range", got)
	}

	speed, err := Representative(newSource(9), Range{Low: 35, Likely: 45, High: 60}, DefaultConfidence, 2)
	if err != nil {
		t.Fatalf("Representative() error = %v", err)
	}
	if scaled := speed * 100; math.Abs(scaled-math.Round(scaled)) > 1e-6 {
		t.Fatalf("Representative() = %v, want two decimals", speed)
	}
}
