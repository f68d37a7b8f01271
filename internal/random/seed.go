// Package random provides seed generation for reproducible simulation runs.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a non-zero seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	for {
		if _, err := crand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read random seed: %w", err)
		}
		if seed := int64(binary.LittleEndian.Uint64(b[:])); seed != 0 {
			return seed, nil
		}
	}
}

// ResolveSeed returns requested when it is non-zero, otherwise a seed from
// generate. Zero means "pick one for me".
func ResolveSeed(requested int64, generate func() (int64, error)) (int64, error) {
	if requested != 0 {
		return requested, nil
	}
	if generate == nil {
		generate = NewSeed
	}
	seed, err := generate()
	if err != nil {
		return 0, err
	}
	return seed, nil
}
