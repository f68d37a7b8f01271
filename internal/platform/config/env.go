// Package config loads command configuration and handles fatal exits.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithLookup loads configuration from lookup instead of the process
// environment. Keys missing from lookup fall back to envDefault tags.
func ParseEnvWithLookup(target any, lookup map[string]string) error {
	if err := env.ParseWithOptions(target, env.Options{Environment: lookup}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
