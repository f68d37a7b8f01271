// Package sqlite provides a SQLite-backed run store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/louisbranch/hovlane/internal/lane"
	sqlitemigrate "github.com/louisbranch/hovlane/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/hovlane/internal/storage"
	"github.com/louisbranch/hovlane/internal/storage/sqlite/migrations"
)

const defaultListLimit = 20

// Store persists simulation runs in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.RunStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite run store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutRun inserts a run and its samples in one transaction.
func (s *Store) PutRun(ctx context.Context, run storage.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	run.ID = strings.TrimSpace(run.ID)
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put run: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	m := run.Means
	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO runs (
		   id, seed, sample_count, workers, created_at,
		   mean_weather_intensity, mean_num_accidents,
		   mean_hov_count, mean_sov_count, mean_gpv_count,
		   mean_fuel_efficient_sov, mean_registered_fuel_efficient_sov,
		   mean_hov_speed, mean_gpv_speed,
		   mean_hov_emission, mean_gpv_emission,
		   mean_hov_time, mean_gpv_time,
		   mean_estimated_fine, mean_actual_fine, mean_revenue_lost,
		   mean_accident_fine
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Seed, run.SampleCount, run.Workers, toMillis(run.CreatedAt),
		m.WeatherIntensity, m.NumAccidents,
		m.HOVCount, m.SOVCount, m.GPVCount,
		m.FuelEfficientSOV, m.RegisteredFuelEfficientSOV,
		m.HOVSpeed, m.GPVSpeed,
		m.HOVEmission, m.GPVEmission,
		m.HOVTime, m.GPVTime,
		m.EstimatedFine, m.ActualFine, m.RevenueLost,
		m.AccidentFine,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO samples (
		   run_id, idx, peak_hour, season, weather_intensity,
		   accident_occurred, num_accidents,
		   hov_count, sov_count, gpv_count,
		   fuel_efficient_sov, registered_fuel_efficient_sov,
		   hov_speed, gpv_speed, hov_emission, gpv_emission,
		   hov_time, gpv_time,
		   estimated_fine, camera_functional, actual_fine, revenue_lost,
		   accident_fine
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for i, smp := range run.Samples {
		if _, err := stmt.ExecContext(
			ctx,
			run.ID, i, smp.PeakHour.String(), smp.Season.String(), smp.WeatherIntensity,
			smp.AccidentOccurred.String(), smp.NumAccidents,
			smp.HOVCount, smp.SOVCount, smp.GPVCount,
			smp.FuelEfficientSOV, smp.RegisteredFuelEfficientSOV,
			smp.HOVSpeed, smp.GPVSpeed, smp.HOVEmission, smp.GPVEmission,
			smp.HOVTime, smp.GPVTime,
			smp.EstimatedFine, smp.CameraFunctional.String(), smp.ActualFine, smp.RevenueLost,
			smp.AccidentFine,
		); err != nil {
			return fmt.Errorf("insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put run: %w", err)
	}
	return nil
}

const runColumns = `id, seed, sample_count, workers, created_at,
		        mean_weather_intensity, mean_num_accidents,
		        mean_hov_count, mean_sov_count, mean_gpv_count,
		        mean_fuel_efficient_sov, mean_registered_fuel_efficient_sov,
		        mean_hov_speed, mean_gpv_speed,
		        mean_hov_emission, mean_gpv_emission,
		        mean_hov_time, mean_gpv_time,
		        mean_estimated_fine, mean_actual_fine, mean_revenue_lost,
		        mean_accident_fine`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (storage.Run, error) {
	var run storage.Run
	var createdAt int64
	m := &run.Means
	err := row.Scan(
		&run.ID, &run.Seed, &run.SampleCount, &run.Workers, &createdAt,
		&m.WeatherIntensity, &m.NumAccidents,
		&m.HOVCount, &m.SOVCount, &m.GPVCount,
		&m.FuelEfficientSOV, &m.RegisteredFuelEfficientSOV,
		&m.HOVSpeed, &m.GPVSpeed,
		&m.HOVEmission, &m.GPVEmission,
		&m.HOVTime, &m.GPVTime,
		&m.EstimatedFine, &m.ActualFine, &m.RevenueLost,
		&m.AccidentFine,
	)
	if err != nil {
		return storage.Run{}, err
	}
	run.CreatedAt = fromMillis(createdAt)
	return run, nil
}

// GetRun returns one run without its samples.
func (s *Store) GetRun(ctx context.Context, id string) (storage.Run, error) {
	if err := ctx.Err(); err != nil {
		return storage.Run{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Run{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Run{}, fmt.Errorf("run id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Run{}, storage.ErrNotFound
		}
		return storage.Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit uses
// the default page size.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]storage.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]storage.Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ListSamples returns the samples of a run in index order.
func (s *Store) ListSamples(ctx context.Context, runID string) ([]lane.Sample, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT peak_hour, season, weather_intensity,
		        accident_occurred, num_accidents,
		        hov_count, sov_count, gpv_count,
		        fuel_efficient_sov, registered_fuel_efficient_sov,
		        hov_speed, gpv_speed, hov_emission, gpv_emission,
		        hov_time, gpv_time,
		        estimated_fine, camera_functional, actual_fine, revenue_lost,
		        accident_fine
		   FROM samples
		  WHERE run_id = ?
		  ORDER BY idx ASC`,
		strings.TrimSpace(runID),
	)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	var samples []lane.Sample
	for rows.Next() {
		var smp lane.Sample
		var peak, season, accident, camera string
		if err := rows.Scan(
			&peak, &season, &smp.WeatherIntensity,
			&accident, &smp.NumAccidents,
			&smp.HOVCount, &smp.SOVCount, &smp.GPVCount,
			&smp.FuelEfficientSOV, &smp.RegisteredFuelEfficientSOV,
			&smp.HOVSpeed, &smp.GPVSpeed, &smp.HOVEmission, &smp.GPVEmission,
			&smp.HOVTime, &smp.GPVTime,
			&smp.EstimatedFine, &camera, &smp.ActualFine, &smp.RevenueLost,
			&smp.AccidentFine,
		); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		if smp.PeakHour, err = lane.ParseYesNo(peak); err != nil {
			return nil, fmt.Errorf("decode peak_hour: %w", err)
		}
		if smp.Season, err = lane.ParseSeason(season); err != nil {
			return nil, fmt.Errorf("decode season: %w", err)
		}
		if smp.AccidentOccurred, err = lane.ParseYesNo(accident); err != nil {
			return nil, fmt.Errorf("decode accident_occurred: %w", err)
		}
		if smp.CameraFunctional, err = lane.ParseYesNo(camera); err != nil {
			return nil, fmt.Errorf("decode camera_functional: %w", err)
		}
		samples = append(samples, smp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return samples, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "runs.id")
}
