package preview

import (
	"flag"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/adp-docs/internal/cmd/export"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "localhost:3000" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if !cfg.Watch {
		t.Fatal("expected watch enabled by default")
	}
	if cfg.OutDir != "out" {
		t.Fatalf("expected shared out dir default, got %q", cfg.OutDir)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("ADP_DOCS_PREVIEW_ADDR", "env-addr")
	t.Setenv("ADP_DOCS_SITE_ROOT", "env-root")

	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	args := []string{
		"-http-addr", "flag-addr",
		"-watch=false",
		"-out", "flag-out",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-addr" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Watch {
		t.Fatal("expected watch disabled by flag")
	}
	if cfg.Root != "env-root" {
		t.Fatalf("expected env root, got %q", cfg.Root)
	}
	if cfg.OutDir != "flag-out" {
		t.Fatalf("expected flag out dir, got %q", cfg.OutDir)
	}
}

func TestIgnoredPathsCoverCacheFiles(t *testing.T) {
	got := ignoredPaths(export.SiteConfig{OutDir: "out", CachePath: "cache.db"})
	want := []string{"out", "cache.db", "cache.db-wal", "cache.db-shm", "cache.db-journal"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ignoredPaths() mismatch (-want +got):\n%s", diff)
	}
	if got := ignoredPaths(export.SiteConfig{OutDir: "out"}); len(got) != 1 {
		t.Fatalf("ignoredPaths() without cache = %v", got)
	}
}
