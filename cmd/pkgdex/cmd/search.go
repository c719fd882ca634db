package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pkgdex/pkgdex/internal/catalog"
	"github.com/pkgdex/pkgdex/internal/config"
	"github.com/pkgdex/pkgdex/internal/logging"
	"github.com/pkgdex/pkgdex/internal/query"
	"github.com/pkgdex/pkgdex/internal/render"
	"github.com/pkgdex/pkgdex/internal/search"
)

func newSearchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <term>[@<constraint>]",
		Short: "Search the package catalog",
		Long: `Search the package catalog by name.

The term matches as a case-sensitive substring of the package name or
display name. With search.strategy set to "match-name" only whole
names and name segments match. An optional version constraint follows
an '@': exact ("@=2.12.1" or a bare full version), prefix ("@2.x",
"@2.12"), comparator ("@>=18"), or a space-separated range ("@>1 <3").
Quote constrained terms so the shell does not eat '>' or '<'.

Examples:
  pkgdex search hello
  pkgdex search 'hello@2.x'
  pkgdex search 'node@>=18 <21' --json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, args, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as a JSON array")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, args []string, jsonOutput bool) error {
	if !debugMode {
		logCfg := logging.DefaultConfig()
		logCfg.WriteToStderr = false
		if logger, cleanup, err := logging.Setup(logCfg); err == nil {
			prev := slog.Default()
			slog.SetDefault(logger)
			defer func() {
				slog.SetDefault(prev)
				cleanup()
			}()
		}
	}

	cfg, err := config.Load(workingDir())
	if err != nil {
		return err
	}

	format := query.FormatText
	if jsonOutput {
		format = query.FormatJSON
	}

	// Validate the query before touching the catalog; usage errors must
	// not depend on catalog availability.
	q, err := query.Build(args, catalog.ParseStrategy(cfg.Search.Strategy), format)
	if err != nil {
		return err
	}
	slog.Info("search_started",
		slog.String("term", q.Term),
		slog.String("constraint", q.Constraint.String()),
		slog.String("strategy", q.Strategy.String()))

	cat, err := catalog.Open(cfg.Catalog.Dir)
	if err != nil {
		return err
	}
	defer cat.Close()

	engine := search.NewEngine(cat, slog.Default())
	results, err := engine.Search(ctx, q)
	if err != nil {
		return err
	}
	slog.Info("search_complete", slog.Int("results", len(results)))

	presenter := render.NewPresenter(cmd.OutOrStdout(), cmd.ErrOrStderr(), render.Options{
		ShowOrigin:      cfg.Search.ShowOrigin,
		OriginSeparator: cfg.Search.OriginSeparator,
		Interactive:     stdoutIsTerminal(),
	})
	return presenter.Render(results, q.Term, q.Format)
}

// stdoutIsTerminal reports whether the process stdout is a terminal.
// Piped and redirected invocations get machine-stable output routing.
func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
