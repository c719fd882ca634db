package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdexerrors "github.com/pkgdex/pkgdex/internal/errors"
)

func TestCatalogImportAndInfo(t *testing.T) {
	fixtureCatalog(t)

	dump := filepath.Join(t.TempDir(), "extras.json")
	require.NoError(t, os.WriteFile(dump, []byte(`[
		{"name": "ripgrep", "pname": "ripgrep", "version": "14.1.0",
		 "system": "x86_64-linux", "description": "Line-oriented search tool"}
	]`), 0o644))

	stdout, _, err := execute(t, "catalog", "import", "extras", dump)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Imported 1 packages")

	stdout, _, err = execute(t, "catalog", "info")
	require.NoError(t, err)
	assert.Contains(t, stdout, "core")
	assert.Contains(t, stdout, "extras")
	assert.Contains(t, stdout, "Total: 9 packages across 2 origins")

	// The imported origin is immediately searchable.
	stdout, _, err = execute(t, "search", "ripgrep")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ripgrep")
	assert.Contains(t, stdout, "14.1.0")
}

func TestCatalogImportRejectsBadOrigin(t *testing.T) {
	fixtureCatalog(t)

	dump := filepath.Join(t.TempDir(), "x.json")
	require.NoError(t, os.WriteFile(dump, []byte(`[]`), 0o644))

	_, _, err := execute(t, "catalog", "import", "../evil", dump)
	require.Error(t, err)
	assert.Equal(t, pkgdexerrors.ErrCodeInvalidInput, pkgdexerrors.GetCode(err))
}

func TestCatalogInfoMissingDir(t *testing.T) {
	fixtureCatalog(t)
	t.Setenv("PKGDEX_CATALOG_DIR", "/nonexistent/pkgdex-catalog")

	_, _, err := execute(t, "catalog", "info")
	require.Error(t, err)
	assert.Equal(t, pkgdexerrors.ErrCodeCatalogUnavailable, pkgdexerrors.GetCode(err))
}
