package search

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pkgdex/pkgdex/internal/catalog"
	"github.com/pkgdex/pkgdex/internal/constraint"
)

// versionCacheSize bounds the parsed-version cache. A single lookup can
// scan thousands of records that share a small set of version strings.
const versionCacheSize = 4096

// parsedVersion caches the outcome of one ParseVersion call, including
// the failure case so non-semver versions are not re-parsed per record.
type parsedVersion struct {
	components []int
	ok         bool
}

// Matcher filters catalog records by a version constraint and resolves
// version-constrained queries to the best matching version per package.
type Matcher struct {
	versions *lru.Cache[string, parsedVersion]
}

// NewMatcher creates a Matcher with its version cache.
func NewMatcher() *Matcher {
	cache, err := lru.New[string, parsedVersion](versionCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Matcher{versions: cache}
}

// parseVersion parses a version string through the cache.
func (m *Matcher) parseVersion(s string) ([]int, bool) {
	if cached, ok := m.versions.Get(s); ok {
		return cached.components, cached.ok
	}
	components, ok := constraint.ParseVersion(s)
	m.versions.Add(s, parsedVersion{components: components, ok: ok})
	return components, ok
}

// Filter keeps the records satisfying the constraint, preserving order.
// An unconstrained query passes everything through, including records
// without a parseable version; any other constraint excludes them.
func (m *Matcher) Filter(records []catalog.Package, c constraint.Constraint) []catalog.Package {
	if c.Kind == constraint.KindNone {
		return records
	}

	kept := make([]catalog.Package, 0, len(records))
	for _, r := range records {
		if c.Kind == constraint.KindExact {
			if r.Version == c.Version {
				kept = append(kept, r)
			}
			continue
		}
		v, ok := m.parseVersion(r.Version)
		if !ok {
			continue
		}
		if c.MatchesParsed(v) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Collapse resolves each (name, origin, system) group to its single
// highest version, the way the resolver would pick one, so a
// version-constrained query yields one record per package. Group order
// follows the first occurrence, keeping the result deterministic.
func (m *Matcher) Collapse(records []catalog.Package) []catalog.Package {
	type groupKey struct {
		name, origin, system string
	}

	out := make([]catalog.Package, 0, len(records))
	index := make(map[groupKey]int)

	for _, r := range records {
		key := groupKey{name: r.Name, origin: r.Origin, system: r.System}
		at, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, r)
			continue
		}
		if m.versionLess(out[at].Version, r.Version) {
			out[at] = r
		}
	}
	return out
}

// versionLess orders two version strings dotted-numerically; versions
// that do not parse sort below any that do.
func (m *Matcher) versionLess(a, b string) bool {
	av, aok := m.parseVersion(a)
	bv, bok := m.parseVersion(b)
	if !aok || !bok {
		return !aok && bok
	}
	return constraint.CompareVersions(av, bv) < 0
}
