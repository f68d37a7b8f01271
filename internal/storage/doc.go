// Package storage defines persistence for completed simulation runs.
//
// A run is stored with its seed, so any stored table can be regenerated, and
// its column means, so runs can be compared without reloading every sample.
// Implementations live in subpackages.
//
// # Error Types
//
//   - ErrNotFound: a requested run is missing.
//   - ErrAlreadyExists: a run with the same id was already stored.
package storage
