package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgdex/pkgdex/internal/catalog"
	"github.com/pkgdex/pkgdex/internal/constraint"
)

func TestRankExactMatchesSortFirst(t *testing.T) {
	c, err := constraint.Parse("=2.12")
	require.NoError(t, err)

	records := []catalog.Package{
		pkg("aaa", "2.12.1"),
		pkg("bbb", "2.12"),
		pkg("ccc", "2.12.0"),
	}
	ranked := Rank(records, c)

	require.Len(t, ranked, 3)
	assert.Equal(t, "bbb", ranked[0].Package.Name)
	assert.True(t, ranked[0].IsExactVersionMatch)
	// The rest keep their incoming relative order.
	assert.Equal(t, "aaa", ranked[1].Package.Name)
	assert.Equal(t, "ccc", ranked[2].Package.Name)
	assert.False(t, ranked[1].IsExactVersionMatch)
}

func TestRankWithoutConstraintKeepsCatalogOrder(t *testing.T) {
	records := []catalog.Package{
		pkg("zzz", "1.0"),
		pkg("aaa", "9.9"),
	}
	ranked := Rank(records, constraint.None)

	require.Len(t, ranked, 2)
	assert.Equal(t, "zzz", ranked[0].Package.Name)
	assert.Equal(t, "aaa", ranked[1].Package.Name)
	assert.False(t, ranked[0].IsExactVersionMatch)
}
