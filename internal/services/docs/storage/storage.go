// Package storage defines persistence contracts for incremental builds.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested cache record is missing.
var ErrNotFound = errors.New("record not found")

// Output records the content hash of one written export file.
type Output struct {
	Path    string
	Hash    string
	Size    int64
	BuiltAt time.Time
}

// Build records the outcome of one export run.
type Build struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Written    int
	Skipped    int
	Removed    int
	Error      string
}

// BuildCache remembers what previous builds wrote so unchanged outputs can
// be skipped and outputs of deleted pages removed.
type BuildCache interface {
	GetOutput(ctx context.Context, path string) (Output, error)
	PutOutput(ctx context.Context, output Output) error
	ListOutputPaths(ctx context.Context) ([]string, error)
	DeleteOutputs(ctx context.Context, paths []string) error
	RecordBuild(ctx context.Context, build Build) (int64, error)
	LastBuild(ctx context.Context) (Build, error)
}
