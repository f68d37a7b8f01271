// Package hovsim wires the simulator command: configuration, the run, and
// the CSV, console and SQLite sinks.
package hovsim

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/language"

	"github.com/louisbranch/hovlane/internal/calibration"
	"github.com/louisbranch/hovlane/internal/export"
	"github.com/louisbranch/hovlane/internal/lane"
	platformcmd "github.com/louisbranch/hovlane/internal/platform/cmd"
	apperrors "github.com/louisbranch/hovlane/internal/platform/errors"
	"github.com/louisbranch/hovlane/internal/platform/id"
	"github.com/louisbranch/hovlane/internal/random"
	"github.com/louisbranch/hovlane/internal/report"
	"github.com/louisbranch/hovlane/internal/simulation"
	"github.com/louisbranch/hovlane/internal/storage"
	"github.com/louisbranch/hovlane/internal/storage/sqlite"
)

// Config holds simulator command configuration.
type Config struct {
	Samples     int    `env:"HOVSIM_SAMPLES"`
	Seed        int64  `env:"HOVSIM_SEED"`
	Workers     int    `env:"HOVSIM_WORKERS"     envDefault:"1"`
	CSVPath     string `env:"HOVSIM_CSV_PATH"    envDefault:"HOV.csv"`
	DBPath      string `env:"HOVSIM_DB_PATH"`
	Calibration string `env:"HOVSIM_CALIBRATION"`
	Lang        string `env:"HOVSIM_LANG"        envDefault:"en"`
	Verbose     bool   `env:"HOVSIM_VERBOSE"`
	// List prints stored runs instead of simulating.
	List      bool
	ListLimit int
}

// ParseConfig loads env defaults and then applies flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "number of samples to simulate (0 = prompt)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = generate one)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "samples generated concurrently")
	fs.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "path of the CSV table")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to sqlite database for run history (empty = disabled)")
	fs.StringVar(&cfg.Calibration, "calibration", cfg.Calibration, "path to a lua calibration override script")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "language tag for number formatting")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "enable verbose logging")
	fs.BoolVar(&cfg.List, "list", false, "list stored runs and exit (requires -db)")
	fs.IntVar(&cfg.ListLimit, "limit", 20, "maximum runs printed by -list")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// isTerminal reports whether r is an interactive terminal.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var now = time.Now

// Run executes the simulator command.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger := log.New(errOut, "", 0)

	tag, err := language.Parse(strings.TrimSpace(cfg.Lang))
	if err != nil {
		return fmt.Errorf("parse language %q: %w", cfg.Lang, err)
	}
	reports := report.NewWriter(out, tag)

	if cfg.List {
		return listRuns(ctx, cfg, reports)
	}

	cal := lane.DefaultCalibration()
	if strings.TrimSpace(cfg.Calibration) != "" {
		cal, err = calibration.Load(cfg.Calibration)
		if err != nil {
			return fmt.Errorf("load calibration: %w", err)
		}
		if cfg.Verbose {
			logger.Printf("calibration loaded from %s", cfg.Calibration)
		}
	}

	samples := cfg.Samples
	if samples == 0 {
		samples, err = promptSamples(in, out)
		if err != nil {
			return err
		}
	}

	seed, err := random.ResolveSeed(cfg.Seed, random.NewSeed)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logger.Printf("seed=%d workers=%d samples=%d", seed, cfg.Workers, samples)
	}

	runner, err := simulation.NewRunner(simulation.Config{
		Seed:        seed,
		Workers:     cfg.Workers,
		Calibration: cal,
	})
	if err != nil {
		return err
	}
	result, err := runner.Run(ctx, samples)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	csvPath := strings.TrimSpace(cfg.CSVPath)
	if csvPath == "" {
		csvPath = export.DefaultPath
	}
	if err := export.WriteFile(csvPath, result.Samples); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	if cfg.Verbose {
		logger.Printf("wrote %d rows to %s", len(result.Samples), csvPath)
	}

	summary := report.Summary{
		Seed:        result.Seed,
		SampleCount: len(result.Samples),
		LaneMiles:   cal.LaneLengthMiles,
		Means:       result.Means,
	}
	if strings.TrimSpace(cfg.DBPath) != "" {
		runID, err := storeRun(ctx, cfg, result)
		if err != nil {
			return err
		}
		summary.RunID = runID
		if cfg.Verbose {
			logger.Printf("stored run %s in %s", runID, cfg.DBPath)
		}
	}
	return reports.WriteSummary(summary)
}

func promptSamples(in io.Reader, out io.Writer) (int, error) {
	if in == nil || !isTerminal(in) {
		return 0, apperrors.New(apperrors.CodeInvalidSampleCount, "sample count is required (use -samples or HOVSIM_SAMPLES)")
	}
	fmt.Fprintln(out, "More samples give more accurate estimates.")
	fmt.Fprint(out, "Enter the number of samples: ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("read sample count: %w", err)
		}
		return 0, apperrors.New(apperrors.CodeInvalidSampleCount, "sample count is required")
	}
	text := strings.TrimSpace(scanner.Text())
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, apperrors.WithMetadata(apperrors.CodeInvalidSampleCount, "sample count must be a whole number", map[string]string{
			"input": text,
		})
	}
	return n, nil
}

func openStore(ctx context.Context, path string) (*sqlite.Store, error) {
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(ctx, cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}

func storeRun(ctx context.Context, cfg Config, result simulation.Result) (runID string, err error) {
	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close store: %w", closeErr)
		}
	}()

	runID, err = id.NewID()
	if err != nil {
		return "", err
	}
	workers := max(cfg.Workers, 1)
	if err := store.PutRun(ctx, storage.RunFromResult(runID, workers, now().UTC(), result)); err != nil {
		return "", fmt.Errorf("store run: %w", err)
	}
	return runID, nil
}

func listRuns(ctx context.Context, cfg Config, reports *report.Writer) (err error) {
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("-list requires a database path (-db or HOVSIM_DB_PATH)")
	}
	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close store: %w", closeErr)
		}
	}()

	runs, err := store.ListRuns(ctx, cfg.ListLimit)
	if err != nil {
		return err
	}
	return reports.WriteRuns(runs)
}
