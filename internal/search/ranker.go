package search

import (
	"sort"

	"github.com/pkgdex/pkgdex/internal/catalog"
	"github.com/pkgdex/pkgdex/internal/constraint"
)

// RankedResult is one search hit with its ranking signal attached.
type RankedResult struct {
	Package             catalog.Package
	IsExactVersionMatch bool
}

// Rank orders results so exact version matches come first. The sort is
// stable, so within each band the catalog's deterministic merge order
// (name, then origin) is preserved.
func Rank(records []catalog.Package, c constraint.Constraint) []RankedResult {
	ranked := make([]RankedResult, len(records))
	for i, r := range records {
		ranked[i] = RankedResult{
			Package:             r,
			IsExactVersionMatch: c.Kind == constraint.KindExact && r.Version == c.Version,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].IsExactVersionMatch && !ranked[j].IsExactVersionMatch
	})
	return ranked
}
