// Package main exports the documentation site to static files.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	exportcmd "github.com/louisbranch/adp-docs/internal/cmd/export"
	"github.com/louisbranch/adp-docs/internal/platform/config"
)

func main() {
	cfg, err := exportcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.ExitOnError("export", exportcmd.Run(ctx, cfg))
}
