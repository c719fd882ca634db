// Package search runs the query pipeline: catalog lookup, version
// filtering, resolution to the best version per package, and ranking.
package search

import (
	"context"
	"log/slog"

	"github.com/pkgdex/pkgdex/internal/catalog"
	"github.com/pkgdex/pkgdex/internal/constraint"
	"github.com/pkgdex/pkgdex/internal/query"
)

// Cataloger is the slice of the catalog the engine needs.
type Cataloger interface {
	Lookup(ctx context.Context, term string, strategy catalog.Strategy) ([]catalog.Package, error)
}

// Engine executes search queries against a catalog.
type Engine struct {
	catalog Cataloger
	matcher *Matcher
	logger  *slog.Logger
}

// NewEngine creates an Engine over the given catalog.
func NewEngine(c Cataloger, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		catalog: c,
		matcher: NewMatcher(),
		logger:  logger,
	}
}

// Search runs the full pipeline for one query. When the query carries a
// version constraint, each package collapses to its single highest
// matching version; unconstrained queries return every version.
func (e *Engine) Search(ctx context.Context, q query.SearchQuery) ([]RankedResult, error) {
	records, err := e.catalog.Lookup(ctx, q.Term, q.Strategy)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("catalog lookup complete",
		"term", q.Term,
		"strategy", q.Strategy.String(),
		"candidates", len(records))

	filtered := e.matcher.Filter(records, q.Constraint)
	if q.Constraint.Kind != constraint.KindNone {
		filtered = e.matcher.Collapse(filtered)
	}
	e.logger.Debug("constraint applied",
		"constraint", q.Constraint.String(),
		"results", len(filtered))

	return Rank(filtered, q.Constraint), nil
}
