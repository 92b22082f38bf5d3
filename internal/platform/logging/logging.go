// Package logging provides the structured zerolog logger used by the site
// commands and the packages they drive.
package logging

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the base logger.
type Config struct {
	Level   string    // "debug", "info", ...; defaults to info
	Output  io.Writer // defaults to os.Stderr
	Service string    // attached to every entry
	Console bool      // human-readable output instead of JSON
}

var (
	mu   sync.RWMutex
	base = New(Config{})
)

// New builds a logger from cfg without touching the process-wide base logger.
func New(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	}

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	if cfg.Console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen}
	}

	service := cfg.Service
	if service == "" {
		service = "adp-docs"
	}

	return zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("service", service).
		Logger()
}

// Configure replaces the base logger.
func Configure(cfg Config) {
	logger := New(cfg)
	mu.Lock()
	base = logger
	mu.Unlock()
}

// Base returns the configured base logger.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Base().With().Str("component", component).Logger()
}

// WithContext stores logger on ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithContext(ctx)
}

// HasLogger reports whether ctx carries a logger set by WithContext.
func HasLogger(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	return zerolog.Ctx(ctx).GetLevel() != zerolog.Disabled
}

// FromContext returns the logger stored on ctx, or the base logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if !HasLogger(ctx) {
		l := Base()
		return &l
	}
	return zerolog.Ctx(ctx)
}

// ComponentFromContext returns the context logger annotated with component.
func ComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	return FromContext(ctx).With().Str("component", component).Logger()
}
