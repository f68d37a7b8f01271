package random

import (
	"errors"
	"testing"
)

func TestNewSeedIsNonZero(t *testing.T) {
	for i := 0; i < 16; i++ {
		seed, err := NewSeed()
		if err != nil {
			t.Fatalf("NewSeed returned error: %v", err)
		}
		if seed == 0 {
			t.Fatal("expected non-zero seed")
		}
	}
}

func TestResolveSeedPrefersRequested(t *testing.T) {
	seed, err := ResolveSeed(42, func() (int64, error) {
		t.Fatal("generator should not be called")
		return 0, nil
	})
	if err != nil {
		t.Fatalf("ResolveSeed returned error: %v", err)
	}
	if seed != 42 {
		t.Fatalf("seed = %d, want 42", seed)
	}
}

func TestResolveSeedGeneratesWhenZero(t *testing.T) {
	seed, err := ResolveSeed(0, func() (int64, error) { return 123, nil })
	if err != nil {
		t.Fatalf("ResolveSeed returned error: %v", err)
	}
	if seed != 123 {
		t.Fatalf("seed = %d, want 123", seed)
	}
}

func TestResolveSeedPropagatesGeneratorError(t *testing.T) {
	want := errors.New("entropy exhausted")
	if _, err := ResolveSeed(0, func() (int64, error) { return 0, want }); !errors.Is(err, want) {
		t.Fatalf("ResolveSeed error = %v, want %v", err, want)
	}
}

func TestResolveSeedDefaultsToNewSeed(t *testing.T) {
	seed, err := ResolveSeed(0, nil)
	if err != nil {
		t.Fatalf("ResolveSeed returned error: %v", err)
	}
	if seed == 0 {
		t.Fatal("expected generated seed")
	}
}
