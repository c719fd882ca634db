// Package constraint parses the version-constraint suffix of a search query
// (the part after `@`) into a structured, closed set of variants.
//
// Grammar (case-sensitive):
//
//	=1.2.3      exact version
//	1.2.3       exact version (full release triple)
//	2.x         prefix match on leading components
//	2, 2.1      prefix match (fewer components than a full release)
//	v2, v1.2.3  leading `v` stripped, then the bare rules above
//	>1, >=1.2   comparator
//	>1 <3       range (conjunction of exactly two comparators)
package constraint

import (
	"fmt"
	"strings"
)

// Kind identifies which constraint variant is active.
type Kind int

const (
	// KindNone means the query carried no version constraint.
	KindNone Kind = iota
	// KindExact matches a version string verbatim.
	KindExact
	// KindPrefix matches versions whose leading components equal the prefix.
	KindPrefix
	// KindComparator matches versions by a single numeric comparison.
	KindComparator
	// KindRange is the conjunction of two comparators.
	KindRange
)

// String returns the variant name for logging.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindExact:
		return "exact"
	case KindPrefix:
		return "prefix"
	case KindComparator:
		return "comparator"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// Op is a comparison operator.
type Op string

const (
	OpGT  Op = ">"
	OpGTE Op = ">="
	OpLT  Op = "<"
	OpLTE Op = "<="
)

// opTokens is the ordered list of operators tried during parsing.
// Longer tokens must precede shorter ones to avoid false matches
// (">=" before ">").
var opTokens = []Op{OpGTE, OpLTE, OpGT, OpLT}

// Bound is one comparator term of a constraint.
type Bound struct {
	Op      Op
	Version string
}

func (b Bound) String() string {
	return string(b.Op) + b.Version
}

// Constraint is the parsed version constraint of a query. Exactly one
// variant is active, selected by Kind.
type Constraint struct {
	Kind Kind

	// Version holds the target for KindExact and KindPrefix.
	Version string

	// First holds the single comparator for KindComparator and the first
	// range term for KindRange.
	First Bound

	// Second holds the second range term for KindRange.
	Second Bound
}

// None is the unconstrained constraint (query without an `@` suffix).
var None = Constraint{Kind: KindNone}

// fullReleaseComponents is the component count at which a bare dotted
// literal is treated as an exact version rather than a prefix.
const fullReleaseComponents = 3

// Parse parses the raw text after the first `@` of a query.
// Parsing is total over the accepted grammar and fails closed on
// everything else, including empty input and embedded `@` characters.
func Parse(spec string) (Constraint, error) {
	if spec == "" {
		return None, fmt.Errorf("empty version specifier")
	}
	if strings.Contains(spec, "@") {
		return None, fmt.Errorf("version specifier %q contains more than one '@'", spec)
	}

	fields := strings.Fields(spec)
	switch len(fields) {
	case 1:
		return parseSingle(fields[0])
	case 2:
		first, err := parseBound(fields[0])
		if err != nil {
			return None, err
		}
		second, err := parseBound(fields[1])
		if err != nil {
			return None, err
		}
		return Constraint{Kind: KindRange, First: first, Second: second}, nil
	default:
		return None, fmt.Errorf("version specifier %q has too many terms (at most two comparators)", spec)
	}
}

// parseSingle handles a one-term specifier: exact, prefix, or comparator.
func parseSingle(spec string) (Constraint, error) {
	for _, op := range opTokens {
		if strings.HasPrefix(spec, string(op)) {
			b, err := parseBound(spec)
			if err != nil {
				return None, err
			}
			return Constraint{Kind: KindComparator, First: b}, nil
		}
	}

	// `=V` is always exact, whatever the component count.
	if v, ok := strings.CutPrefix(spec, "="); ok {
		if _, valid := ParseVersion(v); !valid {
			return None, fmt.Errorf("invalid version %q in specifier %q", v, spec)
		}
		return Constraint{Kind: KindExact, Version: v}, nil
	}

	// Reject stray operator characters not starting a valid comparator.
	if strings.ContainsAny(spec, "<>=") {
		return None, fmt.Errorf("unrecognized operator in version specifier %q", spec)
	}

	// `vV` is an alias for the bare dotted form.
	bare := strings.TrimPrefix(spec, "v")

	// `V.x` forces a prefix match on the components before `.x`.
	if prefix, ok := strings.CutSuffix(bare, ".x"); ok {
		if _, valid := ParseVersion(prefix); !valid {
			return None, fmt.Errorf("invalid version prefix %q in specifier %q", prefix, spec)
		}
		return Constraint{Kind: KindPrefix, Version: prefix}, nil
	}

	parts, valid := ParseVersion(bare)
	if !valid {
		return None, fmt.Errorf("invalid version %q in specifier %q", bare, spec)
	}
	if len(parts) >= fullReleaseComponents {
		return Constraint{Kind: KindExact, Version: bare}, nil
	}
	return Constraint{Kind: KindPrefix, Version: bare}, nil
}

// parseBound parses a single comparator term like ">=1.2".
func parseBound(term string) (Bound, error) {
	for _, op := range opTokens {
		if v, ok := strings.CutPrefix(term, string(op)); ok {
			if _, valid := ParseVersion(v); !valid {
				return Bound{}, fmt.Errorf("invalid version %q after operator %q", v, op)
			}
			return Bound{Op: op, Version: v}, nil
		}
	}
	return Bound{}, fmt.Errorf("unrecognized operator in comparator %q", term)
}

// String renders the constraint in a form Parse accepts again, so that
// parsing a rendered constraint yields the same variant and bounds.
func (c Constraint) String() string {
	switch c.Kind {
	case KindExact:
		return "=" + c.Version
	case KindPrefix:
		return c.Version + ".x"
	case KindComparator:
		return c.First.String()
	case KindRange:
		return c.First.String() + " " + c.Second.String()
	default:
		return ""
	}
}

// Matches reports whether the given version string satisfies the
// constraint. Records lacking a parseable dotted-numeric version never
// satisfy a constrained query; they only pass through KindNone.
func (c Constraint) Matches(version string) bool {
	if c.Kind == KindNone {
		return true
	}
	if c.Kind == KindExact {
		return version == c.Version
	}

	v, ok := ParseVersion(version)
	if !ok {
		return false
	}
	return c.MatchesParsed(v)
}

// MatchesParsed applies the constraint to an already-parsed version.
// Callers that scan many records parse each version string once and
// reuse the components here. KindExact is verbatim string equality and
// must be checked against the string form, never the parsed one.
func (c Constraint) MatchesParsed(v []int) bool {
	switch c.Kind {
	case KindNone:
		return true
	case KindPrefix:
		p, _ := ParseVersion(c.Version)
		return HasVersionPrefix(v, p)
	case KindComparator:
		return c.First.matches(v)
	case KindRange:
		return c.First.matches(v) && c.Second.matches(v)
	default:
		return false
	}
}

// matches applies the bound's comparison against a parsed version.
func (b Bound) matches(v []int) bool {
	target, ok := ParseVersion(b.Version)
	if !ok {
		return false
	}
	cmp := CompareVersions(v, target)
	switch b.Op {
	case OpGT:
		return cmp > 0
	case OpGTE:
		return cmp >= 0
	case OpLT:
		return cmp < 0
	case OpLTE:
		return cmp <= 0
	default:
		return false
	}
}
