// Package cmd holds the startup plumbing shared by the export and preview commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/adp-docs/internal/platform/config"
	"github.com/louisbranch/adp-docs/internal/platform/logging"
	"github.com/louisbranch/adp-docs/internal/platform/otel"
)

const defaultOTelShutdownTimeout = 5 * time.Second

// Command identifiers for startup telemetry and log fields.
const (
	ServiceExport  = "export"
	ServicePreview = "preview"
)

// Command describes one command invocation.
type Command struct {
	// Name is the service name reported to telemetry and logs.
	Name string
	// Log configures the process logger. An empty Service is derived from Name.
	Log logging.Config
	// OTelShutdownTimeout bounds the final telemetry flush.
	OTelShutdownTimeout time.Duration
}

// ParseConfig loads ADP_DOCS_ environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags over values already loaded from env.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// Run installs the process logger, starts tracing, and executes run with a
// context carrying a logger tagged with the command name. Telemetry is
// flushed after run returns, whatever its result.
func Run(ctx context.Context, command Command, run func(context.Context) error) error {
	name := strings.TrimSpace(command.Name)
	if name == "" {
		return fmt.Errorf("command name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logCfg := command.Log
	if logCfg.Service == "" {
		logCfg.Service = "adp-docs-" + name
	}
	logging.Configure(logCfg)
	logger := logging.WithComponent(name)
	ctx = logging.WithContext(ctx, logger)

	shutdown, err := otel.Setup(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		timeout := command.OTelShutdownTimeout
		if timeout <= 0 {
			timeout = defaultOTelShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	start := time.Now()
	logger.Debug().Str("event", name+".start").Msg("command started")
	if err := run(ctx); err != nil {
		logger.Error().Err(err).Str("event", name+".failed").Dur("duration", time.Since(start)).Msg("command failed")
		return err
	}
	logger.Debug().Str("event", name+".done").Dur("duration", time.Since(start)).Msg("command finished")
	return nil
}
