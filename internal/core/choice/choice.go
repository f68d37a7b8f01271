// Package choice makes weighted categorical draws over a closed set of
// outcomes.
package choice

import (
	"math"
	"math/rand/v2"
	"strconv"

	"gonum.org/v1/gonum/stat/distuv"

	apperrors "github.com/louisbranch/hovlane/internal/platform/errors"
)

// weightTolerance bounds how far the weights may drift from summing to 1.
const weightTolerance = 1e-9

// Choose draws one outcome with the given probabilities.
//
// weights must pair one-to-one with outcomes, be non-negative, and sum to 1.
// Each call consumes the source independently, so every categorical field
// of a sample gets its own draw.
func Choose[T any](src rand.Source, outcomes []T, weights []float64) (T, error) {
	var zero T
	if err := ValidateWeights(len(outcomes), weights); err != nil {
		return zero, err
	}
	if len(outcomes) == 1 {
		return outcomes[0], nil
	}
	idx := int(distuv.NewCategorical(weights, src).Rand())
	return outcomes[idx], nil
}

// ValidateWeights reports whether weights form a probability vector over n
// outcomes.
func ValidateWeights(n int, weights []float64) error {
	if n == 0 {
		return apperrors.New(apperrors.CodeInvalidParameters, "at least one outcome is required")
	}
	if len(weights) != n {
		return apperrors.WithMetadata(apperrors.CodeInvalidParameters, "weights must match outcomes", map[string]string{
			"outcomes": strconv.Itoa(n),
			"weights":  strconv.Itoa(len(weights)),
		})
	}
	sum := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return apperrors.Newf(apperrors.CodeInvalidParameters, "weight %d must be finite and non-negative, got %v", i, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		return apperrors.WithMetadata(apperrors.CodeInvalidParameters, "weights must sum to 1", map[string]string{
			"sum": strconv.FormatFloat(sum, 'g', -1, 64),
		})
	}
	return nil
}

// Bool draws true with probability p.
func Bool(src rand.Source, p float64) (bool, error) {
	return Choose(src, []bool{true, false}, []float64{p, 1 - p})
}
