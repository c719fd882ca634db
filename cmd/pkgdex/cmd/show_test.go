package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdexerrors "github.com/pkgdex/pkgdex/internal/errors"
)

func TestShowListsVersionsNewestFirst(t *testing.T) {
	fixtureCatalog(t)

	stdout, _, err := execute(t, "show", "hello")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "hello - A program that produces a familiar, friendly greeting", lines[0])
	assert.Equal(t, "hello@2.12.1", strings.TrimSpace(lines[1]))
	assert.Equal(t, "hello@2.12", strings.TrimSpace(lines[2]))
	assert.Equal(t, "hello@2.10", strings.TrimSpace(lines[3]))
	assert.Equal(t, "hello@1.0", strings.TrimSpace(lines[4]))
}

func TestShowAllIncludesSystemAndOrigin(t *testing.T) {
	fixtureCatalog(t)

	stdout, _, err := execute(t, "show", "hello", "--all")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(x86_64-linux, core)")
}

func TestShowMatchesExactNameOnly(t *testing.T) {
	fixtureCatalog(t)

	// A substring hit is not enough for show.
	_, _, err := execute(t, "show", "hell")
	require.Error(t, err)
	assert.Equal(t, pkgdexerrors.ErrCodeInvalidInput, pkgdexerrors.GetCode(err))
	assert.Contains(t, pkgdexerrors.FormatForCLI(err), "pkgdex search")
}

func TestProjectConfigDiscoveredByEverySubcommand(t *testing.T) {
	catalogDir := fixtureCatalog(t)
	t.Setenv("PKGDEX_CATALOG_DIR", "")

	// Only a .pkgdex.yaml in the working directory points at the catalog.
	project := t.TempDir()
	projectCfg := fmt.Sprintf("catalog:\n  dir: %s\n", catalogDir)
	require.NoError(t, os.WriteFile(filepath.Join(project, ".pkgdex.yaml"), []byte(projectCfg), 0o644))
	t.Chdir(project)

	stdout, _, err := execute(t, "show", "hello")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hello@2.12.1")

	stdout, _, err = execute(t, "catalog", "info")
	require.NoError(t, err)
	assert.Contains(t, stdout, "core")

	stdout, _, err = execute(t, "search", "hello")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hello")
}

func TestShowMatchesDisplayName(t *testing.T) {
	fixtureCatalog(t)

	// "typescript" is the pname of nodePackages.typescript.
	stdout, _, err := execute(t, "show", "typescript")
	require.NoError(t, err)
	assert.Contains(t, stdout, "typescript@5.3.3")
}
