package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pkgdex/pkgdex/internal/catalog"
	"github.com/pkgdex/pkgdex/internal/config"
	"github.com/pkgdex/pkgdex/internal/constraint"
	pkgdexerrors "github.com/pkgdex/pkgdex/internal/errors"
)

func newShowCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "show <package>",
		Short: "Show all available versions of a package",
		Long: `Show every version of a package present in the catalog.

The package is matched by exact name or display name, not substring.
By default each version is listed once; --all lists every
(version, system, origin) combination.`,
		Example: `  pkgdex show hello
  pkgdex show python310Packages.flask --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), cmd, args[0], all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every version, system, and origin combination")

	return cmd
}

func runShow(ctx context.Context, cmd *cobra.Command, name string, all bool) error {
	cfg, err := config.Load(workingDir())
	if err != nil {
		return err
	}

	cat, err := catalog.Open(cfg.Catalog.Dir)
	if err != nil {
		return err
	}
	defer cat.Close()

	records, err := cat.Lookup(ctx, name, catalog.MatchNameOnly)
	if err != nil {
		return err
	}
	// Name-only matching still admits segment hits; show is exact.
	exact := records[:0]
	for _, r := range records {
		if r.Name == name || r.PName == name {
			exact = append(exact, r)
		}
	}
	if len(exact) == 0 {
		return pkgdexerrors.New(pkgdexerrors.ErrCodeInvalidInput,
			fmt.Sprintf("no package found matching %q", name), nil).
			WithSuggestion("run 'pkgdex search " + name + "' to search by substring")
	}

	// Newest versions first. Non-semver versions sort last, in
	// catalog order.
	sort.SliceStable(exact, func(i, j int) bool {
		return versionGreater(exact[i].Version, exact[j].Version)
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s - %s\n", exact[0].DisplayName(), headline(exact))

	if all {
		for _, r := range exact {
			fmt.Fprintf(out, "    %s@%s  (%s, %s)\n", r.DisplayName(), r.Version, r.System, r.Origin)
		}
		return nil
	}

	// Collapse keeps one record per (name, origin, system); dedupe the
	// remainder down to distinct versions in catalog order.
	seen := make(map[string]bool)
	for _, r := range exact {
		if r.Version == "" || seen[r.Version] {
			continue
		}
		seen[r.Version] = true
		fmt.Fprintf(out, "    %s@%s\n", r.DisplayName(), r.Version)
	}
	return nil
}

// headline picks the first non-empty description from the records.
func headline(records []catalog.Package) string {
	for _, r := range records {
		if r.Description != "" {
			return r.Description
		}
	}
	return "<no description provided>"
}

// versionGreater orders version strings descending dotted-numerically.
func versionGreater(a, b string) bool {
	av, aok := constraint.ParseVersion(a)
	bv, bok := constraint.ParseVersion(b)
	if !aok || !bok {
		return aok && !bok
	}
	return constraint.CompareVersions(av, bv) > 0
}
