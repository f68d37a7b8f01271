// Package simulation runs the HOV lane Monte Carlo simulation.
//
// # Determinism
//
// Every sample draws from its own PCG stream keyed by (seed, sample index).
// No random state is shared between samples, so a run with the same seed
// and calibration produces the same table whatever the worker count.
package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/hovlane/internal/lane"
	apperrors "github.com/louisbranch/hovlane/internal/platform/errors"
)

const tracerName = "github.com/louisbranch/hovlane/internal/simulation"

// Config controls a Runner.
type Config struct {
	Seed int64
	// Workers bounds how many samples are generated concurrently. Values
	// below 1 run sequentially.
	Workers     int
	Calibration lane.Calibration
}

// Runner generates result tables.
type Runner struct {
	gen     *lane.Generator
	seed    int64
	workers int
	tracer  trace.Tracer
}

// NewRunner validates cfg and returns a Runner.
func NewRunner(cfg Config) (*Runner, error) {
	gen, err := lane.NewGenerator(cfg.Calibration)
	if err != nil {
		return nil, fmt.Errorf("new generator: %w", err)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		gen:     gen,
		seed:    cfg.Seed,
		workers: workers,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// Source returns the random stream for one sample of a run.
func Source(seed int64, index int) rand.Source {
	return rand.NewPCG(uint64(seed), uint64(index))
}

// Run generates sampleCount samples and their column means. Any failed
// sample fails the whole run.
func (r *Runner) Run(ctx context.Context, sampleCount int) (result Result, err error) {
	ctx, span := r.tracer.Start(ctx, "simulation.Run", trace.WithAttributes(
		attribute.Int("hovsim.samples", sampleCount),
		attribute.Int64("hovsim.seed", r.seed),
		attribute.Int("hovsim.workers", r.workers),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if sampleCount <= 0 {
		return Result{}, apperrors.WithMetadata(apperrors.CodeInvalidSampleCount, "sample count must be positive", map[string]string{
			"samples": strconv.Itoa(sampleCount),
		})
	}

	samples := make([]lane.Sample, sampleCount)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range samples {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := r.gen.Generate(Source(r.seed, i))
			if err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}
			samples[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	return Result{
		Seed:    r.seed,
		Samples: samples,
		Means:   ComputeMeans(samples),
	}, nil
}
