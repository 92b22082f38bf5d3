// Package sqlite provides a SQLite-backed build cache.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/adp-docs/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/adp-docs/internal/platform/timeouts"
	"github.com/louisbranch/adp-docs/internal/services/docs/storage"
	"github.com/louisbranch/adp-docs/internal/services/docs/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists build cache state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.BuildCache = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite build cache and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		cleanPath, timeouts.CacheBusy.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
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

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// GetOutput returns the cached record for one output path.
func (s *Store) GetOutput(ctx context.Context, path string) (storage.Output, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Output{}, err
	}
	var (
		out     storage.Output
		builtAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT path, hash, size, built_at FROM outputs WHERE path = ?`,
		path,
	).Scan(&out.Path, &out.Hash, &out.Size, &builtAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Output{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Output{}, fmt.Errorf("get output %s: %w", path, err)
	}
	out.BuiltAt = fromMillis(builtAt)
	return out, nil
}

// PutOutput inserts or replaces one output record.
func (s *Store) PutOutput(ctx context.Context, output storage.Output) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	path := strings.TrimSpace(output.Path)
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if strings.TrimSpace(output.Hash) == "" {
		return fmt.Errorf("output hash is required")
	}
	builtAt := output.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO outputs (path, hash, size, built_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, size = excluded.size, built_at = excluded.built_at`,
		path, output.Hash, output.Size, toMillis(builtAt),
	)
	if err != nil {
		return fmt.Errorf("put output %s: %w", path, err)
	}
	return nil
}

// ListOutputPaths returns every cached output path in lexical order.
func (s *Store) ListOutputPaths(ctx context.Context) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT path FROM outputs ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outputs: %w", err)
	}
	return paths, nil
}

// DeleteOutputs removes output records in one transaction.
func (s *Store) DeleteOutputs(ctx context.Context, paths []string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	for _, path := range paths {
		if _, err := tx.ExecContext(ctx, `DELETE FROM outputs WHERE path = ?`, path); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete output %s: %w", path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RecordBuild stores a build outcome and returns its id.
func (s *Store) RecordBuild(ctx context.Context, build storage.Build) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if build.StartedAt.IsZero() {
		return 0, fmt.Errorf("build start time is required")
	}
	finishedAt := build.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = build.StartedAt
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO builds (started_at, finished_at, written, skipped, removed, error) VALUES (?, ?, ?, ?, ?, ?)`,
		toMillis(build.StartedAt), toMillis(finishedAt), build.Written, build.Skipped, build.Removed, build.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("record build: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record build id: %w", err)
	}
	return id, nil
}

// LastBuild returns the most recently started build.
func (s *Store) LastBuild(ctx context.Context) (storage.Build, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Build{}, err
	}
	var (
		build                 storage.Build
		startedAt, finishedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, written, skipped, removed, error
		 FROM builds ORDER BY started_at DESC, id DESC LIMIT 1`,
	).Scan(&build.ID, &startedAt, &finishedAt, &build.Written, &build.Skipped, &build.Removed, &build.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Build{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Build{}, fmt.Errorf("last build: %w", err)
	}
	build.StartedAt = fromMillis(startedAt)
	build.FinishedAt = fromMillis(finishedAt)
	return build, nil
}
