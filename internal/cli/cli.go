// Package cli implements the lockcheck command-line interface.
//
// This package provides commands for checking lock files against a
// cutoff date and managing the HTTP response cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - check: Parse a lock file, resolve release dates, report packages
//     published after the cutoff
//   - cache: Manage the registry response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context so that progress reporting stays
// decoupled from the fetch code.
package cli

import (
	"context"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lockcheck/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "lockcheck"

// Execute runs the lockcheck CLI and returns an error if any command
// fails. This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	cfg := loadConfig()

	root := &cobra.Command{
		Use:          appName,
		Short:        "Lockcheck finds dependencies published after a cutoff date",
		Long:         `Lockcheck parses dependency lock files (Bun, npm, Yarn, pnpm, Deno), resolves each pinned version to its npm registry publish date, and reports every package published after a cutoff date.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newCheckCmd(cfg))
	root.AddCommand(newCacheCmd(cfg))

	return root.ExecuteContext(ctx)
}

// cacheDir returns the cache directory using XDG conventions
// (~/.cache/lockcheck/).
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
