package export

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Root != "." {
		t.Fatalf("expected default root, got %q", cfg.Root)
	}
	if cfg.OutDir != "out" {
		t.Fatalf("expected default out dir, got %q", cfg.OutDir)
	}
	if cfg.SiteFile != "site.yaml" {
		t.Fatalf("expected default site file, got %q", cfg.SiteFile)
	}
	if cfg.CachePath != "" || cfg.Force {
		t.Fatalf("expected cache disabled and force off, got %+v", cfg)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("ADP_DOCS_OUT_DIR", "env-out")
	t.Setenv("ADP_DOCS_BASE_URL", "https://env.example.com")
	t.Setenv("ADP_DOCS_CONCURRENCY", "3")

	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	args := []string{
		"-out", "flag-out",
		"-cache", "cache.db",
		"-force",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.OutDir != "flag-out" {
		t.Fatalf("expected flag out dir, got %q", cfg.OutDir)
	}
	if cfg.BaseURL != "https://env.example.com" {
		t.Fatalf("expected env base url, got %q", cfg.BaseURL)
	}
	if cfg.Concurrency != 3 {
		t.Fatalf("expected env concurrency, got %d", cfg.Concurrency)
	}
	if cfg.CachePath != "cache.db" || !cfg.Force {
		t.Fatalf("expected flag cache and force, got %+v", cfg)
	}
}

func TestParseConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("ADP_DOCS_CONCURRENCY", "many")

	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected env parse error")
	}
}

func TestRunExportsSite(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "site.yaml", "base_url: https://docs.example.com\n")
	writeFile(t, root, "content/docs/index.md", "---\ntitle: Introduction\n---\nHello.\n")
	writeFile(t, root, "content/docs/index.zh.md", "---\ntitle: 介绍\n---\n你好。\n")
	out := filepath.Join(t.TempDir(), "out")

	cfg := Config{SiteConfig: SiteConfig{
		Root:      root,
		OutDir:    out,
		SiteFile:  "site.yaml",
		CachePath: filepath.Join(t.TempDir(), "cache.db"),
		LogLevel:  "error",
	}}
	if err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"index.html", "en/docs/index.html", "zh/docs/index.html", "sitemap.xml"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	// A second run reuses the cache.
	if err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestRunLogsOneSummary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "site.yaml", "base_url: https://docs.example.com\n")
	writeFile(t, root, "content/docs/index.md", "---\ntitle: Introduction\n---\nHello.\n")

	var logs bytes.Buffer
	logOutput = &logs
	t.Cleanup(func() { logOutput = nil })

	cfg := Config{SiteConfig: SiteConfig{Root: root, OutDir: filepath.Join(t.TempDir(), "out"), LogLevel: "info"}}
	if err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.Count(logs.String(), `"pages":`); got != 1 {
		t.Fatalf("summary logged %d times, want 1:\n%s", got, logs.String())
	}
	if !strings.Contains(logs.String(), `"message":"site exported"`) {
		t.Fatalf("missing export summary:\n%s", logs.String())
	}
}

func TestNewBuilderRequiresRoot(t *testing.T) {
	if _, _, err := NewBuilder(context.Background(), SiteConfig{Root: filepath.Join(t.TempDir(), "missing"), OutDir: "out"}); err == nil {
		t.Fatal("expected missing root error")
	}
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := NewBuilder(context.Background(), SiteConfig{Root: file, OutDir: "out"}); err == nil {
		t.Fatal("expected not a directory error")
	}
}

func writeFile(t *testing.T, root string, name string, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
