package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/grindlemire/hamlfmt/internal/debug"
	"github.com/grindlemire/hamlfmt/pkg/lsp"
)

// runLSP implements the lsp subcommand. It serves the language server
// protocol over stdin and stdout.
func runLSP(args []string) error {
	fs := flag.NewFlagSet("lsp", flag.ContinueOnError)
	logPath := fs.String("log", "", "Path to log file for debugging")
	configPath := fs.String("config", "", "Settings file (default: nearest .hamlfmt.yml)")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *logPath != "" {
		if err := debug.Init(*logPath); err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
	}

	cfg, err := fmtOptions{configPath: *configPath}.settings()
	if err != nil {
		return err
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, cfg.Options()...)
	return server.Run(context.Background())
}
