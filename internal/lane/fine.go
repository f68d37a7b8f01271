package lane

import (
	"math/rand/v2"

	"github.com/louisbranch/hovlane/internal/core/choice"
)

// FineCalculator turns SOV violations into daily revenue figures.
type FineCalculator struct {
	// Amount is the fixed penalty per violating SOV.
	Amount float64
	// Hours is how many peak hours per day the penalty applies.
	Hours float64
	// CameraUptime is the probability enforcement cameras are working.
	CameraUptime float64
	// DetectionEfficiency is the share of violations a working camera
	// actually catches.
	DetectionEfficiency float64
}

// Estimated returns the fine owed by every unregistered or non-hybrid SOV.
func (f FineCalculator) Estimated(sovCount, registeredFuelEfficient float64) float64 {
	return (sovCount - registeredFuelEfficient) * f.Amount * f.Hours
}

// Actual returns the fine collected given camera status.
func (f FineCalculator) Actual(estimated float64, camera YesNo) float64 {
	if !camera.Bool() {
		return 0
	}
	return f.DetectionEfficiency * estimated
}

// Apply draws camera status and fills the fine fields of s. It reads only
// SOVCount and RegisteredFuelEfficientSOV.
func (f FineCalculator) Apply(src rand.Source, s Sample) (Sample, error) {
	working, err := choice.Bool(src, f.CameraUptime)
	if err != nil {
		return s, err
	}
	s.CameraFunctional = YesNoOf(working)
	s.EstimatedFine = f.Estimated(s.SOVCount, s.RegisteredFuelEfficientSOV)
	s.ActualFine = f.Actual(s.EstimatedFine, s.CameraFunctional)
	s.RevenueLost = s.EstimatedFine - s.ActualFine
	return s, nil
}
