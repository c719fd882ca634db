// Package cmd provides the CLI commands for pkgdex.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	pkgdexerrors "github.com/pkgdex/pkgdex/internal/errors"
	"github.com/pkgdex/pkgdex/internal/logging"
	"github.com/pkgdex/pkgdex/pkg/version"
)

// Debug logging flag
var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the pkgdex CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pkgdex",
		Short: "Search prebuilt package catalogs",
		Long: `pkgdex locates packages inside prebuilt catalogs.

A catalog is a directory of per-origin SQLite shards produced by the
catalog builder. pkgdex searches them by name, optionally qualified
with a version constraint, and renders results for humans or scripts.

Examples:
  pkgdex search hello
  pkgdex search 'hello@2.x'
  pkgdex search 'node@>=18 <21' --json
  pkgdex show hello`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetVersionTemplate("pkgdex version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.pkgdex/logs/")
	cmd.PersistentPreRunE = startDebugLogging
	cmd.PersistentPostRunE = stopDebugLogging

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newCatalogCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startDebugLogging switches the default logger to the debug file
// handler when --debug is set.
func startDebugLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}
	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("Debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()),
		slog.String("version", version.Version))
	return nil
}

// stopDebugLogging flushes and closes the debug log file.
func stopDebugLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// workingDir returns the directory project config is discovered from.
func workingDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// Execute runs the root command and maps the result to an exit code.
// Usage and catalog errors are rendered with their hint and code;
// absence of search results is not an error and exits zero.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, pkgdexerrors.FormatForCLI(err))
		return 1
	}
	return 0
}
