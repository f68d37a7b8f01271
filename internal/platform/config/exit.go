package config

import (
	"fmt"
	"os"

	apperrors "github.com/louisbranch/hovlane/internal/platform/errors"
)

// Exit codes for CLI entry points.
const (
	ExitFailure   = 1
	ExitInvariant = 2
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// It provides a consistent fatal-exit pattern for CLI entry points.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(ExitFailure)
}

// ExitErr reports err on stderr and exits with the code matching it.
// Invariant violations exit with ExitInvariant so scripts can tell them
// apart from bad input.
func ExitErr(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitCode(err))
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if apperrors.GetCode(err).Fatal() {
		return ExitInvariant
	}
	return ExitFailure
}
