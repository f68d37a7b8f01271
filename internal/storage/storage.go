package storage

import (
	"context"
	"time"

	"github.com/louisbranch/hovlane/internal/lane"
	apperrors "github.com/louisbranch/hovlane/internal/platform/errors"
	"github.com/louisbranch/hovlane/internal/simulation"
)

var (
	// ErrNotFound indicates a requested run is missing.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "run not found")
	// ErrAlreadyExists indicates a run id collision.
	ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "run already exists")
)

// Run is one persisted simulation run.
type Run struct {
	ID          string
	Seed        int64
	SampleCount int
	Workers     int
	CreatedAt   time.Time
	Means       simulation.Means
	// Samples is written by PutRun and left empty by GetRun and ListRuns;
	// use ListSamples to load the table.
	Samples []lane.Sample
}

// RunFromResult builds a run record for a completed simulation.
func RunFromResult(id string, workers int, createdAt time.Time, result simulation.Result) Run {
	return Run{
		ID:          id,
		Seed:        result.Seed,
		SampleCount: len(result.Samples),
		Workers:     workers,
		CreatedAt:   createdAt,
		Means:       result.Means,
		Samples:     result.Samples,
	}
}

// RunStore persists simulation runs.
type RunStore interface {
	PutRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	// ListRuns returns up to limit runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	// ListSamples returns the samples of a run in index order.
	ListSamples(ctx context.Context, runID string) ([]lane.Sample, error)
}
