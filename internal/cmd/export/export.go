// Package export parses export command flags and runs one static build.
package export

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	entrypoint "github.com/louisbranch/adp-docs/internal/platform/cmd"
	"github.com/louisbranch/adp-docs/internal/platform/logging"
	"github.com/louisbranch/adp-docs/internal/services/docs/build"
	"github.com/louisbranch/adp-docs/internal/services/docs/siteconfig"
	"github.com/louisbranch/adp-docs/internal/services/docs/storage"
	"github.com/louisbranch/adp-docs/internal/services/docs/storage/sqlite"
)

// SiteConfig holds the build settings shared by export and preview.
type SiteConfig struct {
	Root        string `env:"SITE_ROOT"   envDefault:"."`
	OutDir      string `env:"OUT_DIR"     envDefault:"out"`
	SiteFile    string `env:"SITE_FILE"   envDefault:"site.yaml"`
	BaseURL     string `env:"BASE_URL"`
	CachePath   string `env:"CACHE_PATH"`
	Concurrency int    `env:"CONCURRENCY" envDefault:"0"`
	Force       bool   `env:"FORCE"`
	LogLevel    string `env:"LOG_LEVEL"   envDefault:"info"`
	LogConsole  bool   `env:"LOG_CONSOLE"`
}

// Config holds export command configuration.
type Config struct {
	SiteConfig
}

// RegisterSiteFlags binds the shared build flags on fs, defaulting to the
// values already loaded into cfg.
func RegisterSiteFlags(fs *flag.FlagSet, cfg *SiteConfig) {
	fs.StringVar(&cfg.Root, "root", cfg.Root, "site root holding content/, public/ and the site file")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "export directory")
	fs.StringVar(&cfg.SiteFile, "site-file", cfg.SiteFile, "site configuration file inside the root")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "override the absolute base URL from the site file")
	fs.StringVar(&cfg.CachePath, "cache", cfg.CachePath, "SQLite build cache path; empty disables incremental builds")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "parallel page renders; 0 uses GOMAXPROCS")
	fs.BoolVar(&cfg.Force, "force", cfg.Force, "rewrite every output even when unchanged")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.LogConsole, "log-console", cfg.LogConsole, "human-readable log output")
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	RegisterSiteFlags(fs, &cfg.SiteConfig)
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// logOutput overrides the log destination in tests.
var logOutput io.Writer

// LogConfig returns the logger settings for cfg.
func (cfg SiteConfig) LogConfig() logging.Config {
	return logging.Config{Level: cfg.LogLevel, Console: cfg.LogConsole}
}

// NewBuilder opens the optional build cache and prepares a Builder. The
// returned close function releases the cache.
func NewBuilder(ctx context.Context, cfg SiteConfig) (*build.Builder, func() error, error) {
	root := strings.TrimSpace(cfg.Root)
	if root == "" {
		return nil, nil, errors.New("site root is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("site root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("site root %s is not a directory", root)
	}

	closeCache := func() error { return nil }
	var cache storage.BuildCache
	if path := strings.TrimSpace(cfg.CachePath); path != "" {
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("open build cache: %w", err)
		}
		cache = store
		closeCache = store.Close
	}

	siteFile := cfg.SiteFile
	if siteFile == "" {
		siteFile = siteconfig.DefaultFile
	}
	builder, err := build.New(build.Config{
		Source:      os.DirFS(root),
		OutDir:      cfg.OutDir,
		SiteFile:    siteFile,
		BaseURL:     cfg.BaseURL,
		Concurrency: cfg.Concurrency,
		Force:       cfg.Force,
		Cache:       cache,
	})
	if err != nil {
		_ = closeCache()
		return nil, nil, err
	}
	return builder, closeCache, nil
}

// Run performs one export.
func Run(ctx context.Context, cfg Config) error {
	command := entrypoint.Command{Name: entrypoint.ServiceExport, Log: cfg.LogConfig()}
	command.Log.Output = logOutput
	return entrypoint.Run(ctx, command, func(ctx context.Context) error {
		builder, closeCache, err := NewBuilder(ctx, cfg.SiteConfig)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeCache(); err != nil {
				logging.FromContext(ctx).Warn().Err(err).Msg("close build cache")
			}
		}()

		if _, err := builder.Build(ctx); err != nil {
			return fmt.Errorf("export site: %w", err)
		}
		return nil
	})
}
