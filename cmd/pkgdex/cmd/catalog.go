package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgdex/pkgdex/internal/catalog"
	"github.com/pkgdex/pkgdex/internal/config"
	"github.com/pkgdex/pkgdex/internal/output"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local package catalog",
		Long: `Manage the local package catalog.

The catalog is a directory of SQLite shards, one per origin. Search
opens it read-only under a shared lock; import takes the exclusive
lock and replaces one origin shard atomically.`,
		Example: `  # Import an origin from a package dump
  pkgdex catalog import core ./core-packages.json

  # Show catalog location, origins, and record counts
  pkgdex catalog info`,
	}

	cmd.AddCommand(newCatalogImportCmd())
	cmd.AddCommand(newCatalogInfoCmd())

	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <origin> <file>",
		Short: "Import package records for one origin",
		Long: `Import package records into the catalog for a single origin.

The file is a JSON or YAML array of package records (name, pname,
version, system, description). Any existing records for the origin are
replaced.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogImport(cmd.Context(), cmd, args[0], args[1])
		},
	}
	return cmd
}

func runCatalogImport(ctx context.Context, cmd *cobra.Command, origin, path string) error {
	cfg, err := config.Load(workingDir())
	if err != nil {
		return err
	}

	out := output.New(cmd.OutOrStdout())
	out.Statusf("→", "Importing %q into %s", origin, cfg.Catalog.Dir)

	count, err := catalog.ImportFile(ctx, cfg.Catalog.Dir, origin, path)
	if err != nil {
		return err
	}

	out.Successf("Imported %d packages into origin %q", count, origin)
	return nil
}

func newCatalogInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show catalog origins and record counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogInfo(cmd.Context(), cmd)
		},
	}
	return cmd
}

func runCatalogInfo(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load(workingDir())
	if err != nil {
		return err
	}

	cat, err := catalog.Open(cfg.Catalog.Dir)
	if err != nil {
		return err
	}
	defer cat.Close()

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Catalog: %s\n", cfg.Catalog.Dir)

	origins := cat.Origins()
	if len(origins) == 0 {
		fmt.Fprintln(w, "No origins imported yet.")
		return nil
	}

	total := 0
	for _, origin := range origins {
		count, err := cat.Count(ctx, origin)
		if err != nil {
			return err
		}
		total += count
		fmt.Fprintf(w, "  %-20s %d packages\n", origin, count)
	}
	fmt.Fprintf(w, "Total: %d packages across %d origins\n", total, len(origins))
	return nil
}
