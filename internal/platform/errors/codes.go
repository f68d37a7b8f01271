// Package errors provides structured domain errors for the simulation.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Sampling errors
	CodeInvalidParameters  Code = "INVALID_PARAMETERS"
	CodeInvalidSampleCount Code = "INVALID_SAMPLE_COUNT"

	// Invariant violations. These never surface when calibration bounds are
	// respected and are not retried.
	CodeDivisionByZero Code = "DIVISION_BY_ZERO"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// Fatal reports whether the code marks an internal invariant violation
// rather than bad caller input.
func (c Code) Fatal() bool {
	switch c {
	case CodeDivisionByZero:
		return true
	default:
		return false
	}
}
