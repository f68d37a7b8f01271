package lane

import (
	"math/rand/v2"
	"testing"
)

func TestFineCalculatorEstimated(t *testing.T) {
	f := DefaultCalibration().Fines
	if got := f.Estimated(200, 28); got != 172*450*4 {
		t.Fatalf("Estimated(200, 28) = %v, want %v", got, 172*450*4)
	}
	if got := f.Estimated(0, 0); got != 0 {
		t.Fatalf("Estimated(0, 0) = %v, want 0", got)
	}
}

func TestFineCalculatorActual(t *testing.T) {
	f := DefaultCalibration().Fines
	if got := f.Actual(1000, Yes); got != 800 {
		t.Fatalf("Actual(1000, Yes) = %v, want 800", got)
	}
	if got := f.Actual(1000, No); got != 0 {
		t.Fatalf("Actual(1000, No) = %v, want 0", got)
	}
}

func TestFineCalculatorApply(t *testing.T) {
	tests := []struct {
		name       string
		uptime     float64
		wantCamera YesNo
		wantActual float64
	}{
		{name: "camera always working", uptime: 1, wantCamera: Yes, wantActual: 0.8 * 130 * 1800},
		{name: "camera always down", uptime: 0, wantCamera: No, wantActual: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultCalibration().Fines
			f.CameraUptime = tt.uptime
			in := Sample{SOVCount: 150, RegisteredFuelEfficientSOV: 20}

			got, err := f.Apply(rand.NewPCG(1, 1), in)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got.CameraFunctional != tt.wantCamera {
				t.Fatalf("camera = %v, want %v", got.CameraFunctional, tt.wantCamera)
			}
			if got.EstimatedFine != 130*1800 {
				t.Fatalf("estimated = %v, want %v", got.EstimatedFine, 130*1800)
			}
			if got.ActualFine != tt.wantActual {
				t.Fatalf("actual = %v, want %v", got.ActualFine, tt.wantActual)
			}
			if got.RevenueLost != got.EstimatedFine-got.ActualFine {
				t.Fatalf("revenue lost = %v, want %v", got.RevenueLost, got.EstimatedFine-got.ActualFine)
			}
		})
	}
}
