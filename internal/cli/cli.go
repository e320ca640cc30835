// Package cli implements the cargoplan command-line interface.
//
// This package provides commands for validating package descriptors,
// resolving feature closures into build plans, rendering feature graphs,
// auditing dependencies against the registry, and serving the HTTP API.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - check: Validate a package descriptor
//   - resolve: Compute a build plan for a feature selection
//   - graph: Render the feature-activation graph as DOT, SVG, or PNG
//   - audit: Check resolved dependencies against crates.io
//   - serve: Run the HTTP API server
//   - cache: Manage the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoplan/pkg/buildinfo"
	"github.com/matzehuels/cargoplan/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "cargoplan"

// Execute runs the cargoplan CLI and returns an error if any command fails.
// This is the main entry point for the CLI application. The given context
// carries cancellation from signal handling in main.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Cargoplan validates package descriptors and resolves feature closures",
		Long:         `Cargoplan is a CLI tool for working with Cargo-style package descriptors: it validates their structure, resolves feature selections into deterministic build plans, and visualizes how features activate each other and switch dependencies on.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newResolveCmd())
	root.AddCommand(newGraphCmd())
	root.AddCommand(newAuditCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

// newCache creates the local cache backend, falling back to a null cache
// when the cache directory is unavailable.
func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

// cacheDir returns the cache directory using XDG standard (~/.cache/cargoplan/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
