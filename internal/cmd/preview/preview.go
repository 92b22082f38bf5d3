// Package preview parses preview command flags and runs the local server
// with rebuild on change.
package preview

import (
	"context"
	"flag"
	"fmt"

	"github.com/louisbranch/adp-docs/internal/cmd/export"
	entrypoint "github.com/louisbranch/adp-docs/internal/platform/cmd"
	"github.com/louisbranch/adp-docs/internal/platform/logging"
	server "github.com/louisbranch/adp-docs/internal/services/docs/preview"
	"golang.org/x/sync/errgroup"
)

// Config holds preview command configuration.
type Config struct {
	export.SiteConfig
	HTTPAddr string `env:"PREVIEW_ADDR"  envDefault:"localhost:3000"`
	Watch    bool   `env:"PREVIEW_WATCH" envDefault:"true"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	export.RegisterSiteFlags(fs, &cfg.SiteConfig)
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "preview HTTP listen address")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "rebuild when site files change")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run exports the site once, then serves it until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	command := entrypoint.Command{Name: entrypoint.ServicePreview, Log: cfg.LogConfig()}
	return entrypoint.Run(ctx, command, func(ctx context.Context) error {
		logger := logging.ComponentFromContext(ctx, "preview")
		builder, closeCache, err := export.NewBuilder(ctx, cfg.SiteConfig)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeCache(); err != nil {
				logger.Warn().Err(err).Msg("close build cache")
			}
		}()

		if _, err := builder.Build(ctx); err != nil {
			return fmt.Errorf("initial export: %w", err)
		}

		srv, err := server.NewServer(cfg.HTTPAddr, cfg.OutDir, logger)
		if err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Serve(gctx)
		})
		if cfg.Watch {
			watcher := server.NewWatcher(cfg.Root, ignoredPaths(cfg.SiteConfig), func(ctx context.Context) error {
				_, err := builder.Build(ctx)
				return err
			}, logger)
			g.Go(func() error {
				return watcher.Run(gctx)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("serve preview: %w", err)
		}
		return nil
	})
}

// ignoredPaths lists build outputs inside the site root that must not
// trigger rebuilds.
func ignoredPaths(cfg export.SiteConfig) []string {
	paths := []string{cfg.OutDir}
	if cfg.CachePath != "" {
		for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
			paths = append(paths, cfg.CachePath+suffix)
		}
	}
	return paths
}
