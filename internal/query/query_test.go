package query

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgdex/pkgdex/internal/catalog"
	"github.com/pkgdex/pkgdex/internal/constraint"
	pkgdexerrors "github.com/pkgdex/pkgdex/internal/errors"
)

func TestBuild_PlainTerm(t *testing.T) {
	q, err := Build([]string{"hello"}, catalog.MatchSubstring, FormatText)
	require.NoError(t, err)

	assert.Equal(t, "hello", q.Term)
	assert.Equal(t, constraint.KindNone, q.Constraint.Kind)
	assert.Equal(t, catalog.MatchSubstring, q.Strategy)
	assert.Equal(t, FormatText, q.Format)
}

func TestBuild_TermWithConstraint(t *testing.T) {
	q, err := Build([]string{"hello@2.x"}, catalog.MatchNameOnly, FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "hello", q.Term)
	assert.Equal(t, constraint.KindPrefix, q.Constraint.Kind)
	assert.Equal(t, "2", q.Constraint.Version)
	assert.Equal(t, catalog.MatchNameOnly, q.Strategy)
	assert.Equal(t, FormatJSON, q.Format)
}

func TestBuild_RangeSurvivesArgJoin(t *testing.T) {
	// A quoted range arrives as one argument, an unquoted one as two.
	for _, args := range [][]string{{"hello@>1 <3"}, {"hello@>1", "<3"}} {
		q, err := Build(args, catalog.MatchSubstring, FormatText)
		require.NoError(t, err)
		assert.Equal(t, constraint.KindRange, q.Constraint.Kind)
	}
}

func TestBuild_EmptyQuery(t *testing.T) {
	for _, args := range [][]string{nil, {}, {""}, {"   "}} {
		_, err := Build(args, catalog.MatchSubstring, FormatText)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, &pkgdexerrors.PkgdexError{Code: pkgdexerrors.ErrCodeEmptyQuery}),
			"args %q should be EmptyQuery, got %v", args, err)
	}
}

func TestBuild_AmbiguousRedirect(t *testing.T) {
	// The signature of an unquoted comparator consumed by the shell.
	for _, raw := range []string{"hello@", "hello@>", "hello>", "hello<", "hello="} {
		_, err := Build([]string{raw}, catalog.MatchSubstring, FormatText)
		require.Error(t, err, "raw %q", raw)

		var pe *pkgdexerrors.PkgdexError
		require.True(t, stderrors.As(err, &pe))
		assert.Equal(t, pkgdexerrors.ErrCodeAmbiguousRedirect, pe.Code)
		assert.Contains(t, pe.Suggestion, "try quoting")
		assert.Contains(t, pe.Message, raw)
	}
}

func TestBuild_InvalidVersionSpec(t *testing.T) {
	for _, raw := range []string{"hello@~1", "hello@2..3", "hello@1@2", "hello@>1 <3 <4"} {
		_, err := Build([]string{raw}, catalog.MatchSubstring, FormatText)
		require.Error(t, err, "raw %q", raw)

		var pe *pkgdexerrors.PkgdexError
		require.True(t, stderrors.As(err, &pe))
		assert.Equal(t, pkgdexerrors.ErrCodeInvalidVersionSpec, pe.Code)
		// The offending fragment is part of the message.
		assert.Contains(t, pe.Message, raw)
	}
}

func TestBuild_NoTermBeforeAt(t *testing.T) {
	_, err := Build([]string{"@1.2.3"}, catalog.MatchSubstring, FormatText)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &pkgdexerrors.PkgdexError{Code: pkgdexerrors.ErrCodeEmptyQuery}))
}

func TestBuild_UsageErrorsAreUsageCategory(t *testing.T) {
	_, err := Build([]string{"hello@"}, catalog.MatchSubstring, FormatText)
	require.Error(t, err)
	assert.True(t, pkgdexerrors.IsUsage(err))
}
