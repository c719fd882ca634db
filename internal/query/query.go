// Package query validates raw search arguments and builds the immutable
// SearchQuery consumed by the engine. Validation fails closed before any
// catalog access: a malformed query never opens the catalog.
package query

import (
	"fmt"
	"strings"

	"github.com/pkgdex/pkgdex/internal/catalog"
	"github.com/pkgdex/pkgdex/internal/constraint"
	pkgdexerrors "github.com/pkgdex/pkgdex/internal/errors"
)

// Format selects the presentation of search results.
type Format int

const (
	// FormatText renders one whitespace-separated line per result.
	FormatText Format = iota
	// FormatJSON renders a single JSON array of ranked results.
	FormatJSON
)

// SearchQuery is one parsed search invocation. Constructed once, never
// mutated afterwards.
type SearchQuery struct {
	// Term is the package name (or fragment) to look up.
	Term string
	// Constraint is the parsed version constraint, possibly None.
	Constraint constraint.Constraint
	// Strategy is the configured breadth of name matching.
	Strategy catalog.Strategy
	// Format is the output format.
	Format Format
}

// quotingSuggestion is the guidance attached to redirect artifacts:
// the shell has already consumed part of the expression, so retyping
// without quotes will fail the same way.
func quotingSuggestion(term string) string {
	return fmt.Sprintf("try quoting the query, e.g. pkgdex search '%s1.2'", term)
}

// Build validates the raw argument list and constructs a SearchQuery.
// It returns EmptyQuery when no term was given, AmbiguousRedirect when
// the term ends in a bare comparator character (the signature of an
// unquoted `>` eaten by the shell), and InvalidVersionSpec when the
// `@` suffix does not parse.
func Build(args []string, strategy catalog.Strategy, format Format) (SearchQuery, error) {
	if len(args) == 0 {
		return SearchQuery{}, pkgdexerrors.UsageError(pkgdexerrors.ErrCodeEmptyQuery,
			"no search term provided").
			WithSuggestion("run 'pkgdex search <term>[@<version>]'")
	}

	raw := strings.TrimSpace(strings.Join(args, " "))
	if raw == "" {
		return SearchQuery{}, pkgdexerrors.UsageError(pkgdexerrors.ErrCodeEmptyQuery,
			"search term is empty").
			WithSuggestion("run 'pkgdex search <term>[@<version>]'")
	}

	// A term ending in a bare comparator character means the shell split
	// the expression: `pkgdex search hello@>1` leaves us "hello@" while
	// ">1" became a redirect. A usage error, not a lookup failure.
	if strings.ContainsAny(raw[len(raw)-1:], "@><=") {
		return SearchQuery{}, pkgdexerrors.UsageError(pkgdexerrors.ErrCodeAmbiguousRedirect,
			fmt.Sprintf("search term %q ends in a bare comparator with no version after it", raw)).
			WithSuggestion(quotingSuggestion(raw))
	}

	term, spec, hasSpec := strings.Cut(raw, "@")
	if term == "" {
		return SearchQuery{}, pkgdexerrors.UsageError(pkgdexerrors.ErrCodeEmptyQuery,
			fmt.Sprintf("query %q has no package name before '@'", raw)).
			WithSuggestion("run 'pkgdex search <term>[@<version>]'")
	}

	c := constraint.None
	if hasSpec {
		parsed, err := constraint.Parse(spec)
		if err != nil {
			return SearchQuery{}, pkgdexerrors.New(pkgdexerrors.ErrCodeInvalidVersionSpec,
				fmt.Sprintf("invalid version specifier in %q: %v", raw, err), err).
				WithSuggestion(quotingSuggestion(term + "@"))
		}
		c = parsed
	}

	return SearchQuery{
		Term:       term,
		Constraint: c,
		Strategy:   strategy,
		Format:     format,
	}, nil
}
