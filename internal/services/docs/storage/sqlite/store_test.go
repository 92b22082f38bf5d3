package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/adp-docs/internal/services/docs/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.db")
	for i := 0; i < 2; i++ {
		store, err := Open(context.Background(), path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		if err := store.Close(); err != nil {
			t.Fatalf("close #%d: %v", i+1, err)
		}
	}
}

func TestOutputRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTempStore(t)
	builtAt := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)

	if _, err := store.GetOutput(ctx, "en/index.html"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetOutput(missing) = %v, want ErrNotFound", err)
	}
	want := storage.Output{Path: "en/index.html", Hash: "abc", Size: 12, BuiltAt: builtAt}
	if err := store.PutOutput(ctx, want); err != nil {
		t.Fatalf("put output: %v", err)
	}
	got, err := store.GetOutput(ctx, "en/index.html")
	if err != nil {
		t.Fatalf("get output: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	want.Hash = "def"
	if err := store.PutOutput(ctx, want); err != nil {
		t.Fatalf("replace output: %v", err)
	}
	got, err = store.GetOutput(ctx, "en/index.html")
	if err != nil {
		t.Fatalf("get replaced output: %v", err)
	}
	if got.Hash != "def" {
		t.Fatalf("hash = %q, want def", got.Hash)
	}
}

func TestPutOutputValidates(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if err := store.PutOutput(context.Background(), storage.Output{Hash: "x"}); err == nil {
		t.Fatal("expected missing path error")
	}
	if err := store.PutOutput(context.Background(), storage.Output{Path: "a"}); err == nil {
		t.Fatal("expected missing hash error")
	}
}

func TestListAndDeleteOutputs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTempStore(t)
	for _, path := range []string{"zh/index.html", "en/index.html", "sitemap.xml"} {
		if err := store.PutOutput(ctx, storage.Output{Path: path, Hash: "h"}); err != nil {
			t.Fatalf("put %s: %v", path, err)
		}
	}
	if err := store.DeleteOutputs(ctx, []string{"zh/index.html"}); err != nil {
		t.Fatalf("delete outputs: %v", err)
	}
	paths, err := store.ListOutputPaths(ctx)
	if err != nil {
		t.Fatalf("list outputs: %v", err)
	}
	if diff := cmp.Diff([]string{"en/index.html", "sitemap.xml"}, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordAndLastBuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTempStore(t)
	if _, err := store.LastBuild(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("LastBuild(empty) = %v, want ErrNotFound", err)
	}

	first := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	if _, err := store.RecordBuild(ctx, storage.Build{StartedAt: first, Written: 3}); err != nil {
		t.Fatalf("record first: %v", err)
	}
	id, err := store.RecordBuild(ctx, storage.Build{
		StartedAt:  first.Add(time.Minute),
		FinishedAt: first.Add(time.Minute + time.Second),
		Skipped:    3,
		Error:      "render failed",
	})
	if err != nil {
		t.Fatalf("record second: %v", err)
	}

	got, err := store.LastBuild(ctx)
	if err != nil {
		t.Fatalf("last build: %v", err)
	}
	want := storage.Build{
		ID:         id,
		StartedAt:  first.Add(time.Minute),
		FinishedAt: first.Add(time.Minute + time.Second),
		Skipped:    3,
		Error:      "render failed",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("build mismatch (-want +got):\n%s", diff)
	}
	if _, err := store.RecordBuild(ctx, storage.Build{}); err == nil {
		t.Fatal("expected missing start time error")
	}
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.GetOutput(ctx, "a"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetOutput() = %v, want context.Canceled", err)
	}
}
