// Package pert draws values from the Modified-PERT distribution.
//
// A Modified-PERT distribution is a Beta distribution rescaled to
// [Low, High] whose mode sits at Likely. The confidence weight (lambda in
// the literature) controls how strongly draws cluster around the mode; 4
// reproduces the classic PERT curve.
//
// # Representative values
//
// Simulated quantities are not single draws. Representative draws a batch
// of DefaultCount values and reports the batch median, rounded
// half-to-even. This smooths each quantity the same way for every
// generator that consumes the sampler.
package pert

import (
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "github.com/louisbranch/hovlane/internal/platform/errors"
)

const (
	// DefaultConfidence matches the standard PERT curve.
	DefaultConfidence = 4.0
	// DefaultCount is the batch size whose median represents one quantity.
	DefaultCount = 10
)

// Range bounds a Modified-PERT distribution.
type Range struct {
	Low    float64
	Likely float64
	High   float64
}

// Validate reports whether the range and confidence describe a
// non-degenerate distribution.
func (r Range) Validate(confidence float64) error {
	for _, v := range []float64{r.Low, r.Likely, r.High, confidence} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return r.invalid("pert parameters must be finite", confidence)
		}
	}
	if r.High <= r.Low {
		return r.invalid("pert high must be greater than low", confidence)
	}
	if r.Likely < r.Low || r.Likely > r.High {
		return r.invalid("pert likely must lie within [low, high]", confidence)
	}
	if confidence <= 0 {
		return r.invalid("pert confidence must be positive", confidence)
	}
	return nil
}

// Mean returns the theoretical mean of the distribution.
func (r Range) Mean(confidence float64) float64 {
	return (r.Low + confidence*r.Likely + r.High) / (confidence + 2)
}

// Shape returns the Beta shape parameters for the range.
func (r Range) Shape(confidence float64) (alpha, beta float64) {
	span := r.High - r.Low
	alpha = (r.Mean(confidence) - r.Low) / span * (confidence + 2)
	beta = ((confidence+1)*r.High - r.Low - confidence*r.Likely) / span
	return alpha, beta
}

func (r Range) invalid(message string, confidence float64) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidParameters, message, map[string]string{
		"low":        strconv.FormatFloat(r.Low, 'g', -1, 64),
		"likely":     strconv.FormatFloat(r.Likely, 'g', -1, 64),
		"high":       strconv.FormatFloat(r.High, 'g', -1, 64),
		"confidence": strconv.FormatFloat(confidence, 'g', -1, 64),
	})
}

// Sample draws count independent values from the Modified-PERT
// distribution over r. Every value lies within [r.Low, r.High].
//
// Sample is deterministic with respect to src: the same source state and
// arguments always produce the same values.
func Sample(src rand.Source, r Range, confidence float64, count int) ([]float64, error) {
	if err := r.Validate(confidence); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidParameters, "pert count must be positive", map[string]string{
			"count": strconv.Itoa(count),
		})
	}

	alpha, beta := r.Shape(confidence)
	dist := distuv.Beta{Alpha: alpha, Beta: beta, Src: src}
	span := r.High - r.Low

	values := make([]float64, count)
	for i := range values {
		values[i] = dist.Rand()*span + r.Low
	}
	return values, nil
}

// Median returns the median of values, averaging the two middle values
// when the count is even. It returns NaN for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Representative draws a DefaultCount batch and returns its median rounded
// half-to-even to precision decimal places.
func Representative(src rand.Source, r Range, confidence float64, precision int) (float64, error) {
	values, err := Sample(src, r, confidence, DefaultCount)
	if err != nil {
		return 0, err
	}
	return scalar.RoundEven(Median(values), precision), nil
}
