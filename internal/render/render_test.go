package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgdex/pkgdex/internal/catalog"
	"github.com/pkgdex/pkgdex/internal/query"
	"github.com/pkgdex/pkgdex/internal/search"
)

func result(name, origin, version, description string) search.RankedResult {
	return search.RankedResult{Package: catalog.Package{
		Origin:      origin,
		Name:        name,
		PName:       name,
		Version:     version,
		System:      "x86_64-linux",
		Description: description,
	}}
}

func renderTo(t *testing.T, results []search.RankedResult, term string, format query.Format, opts Options) (string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	p := NewPresenter(&stdout, &stderr, opts)
	require.NoError(t, p.Render(results, term, format))
	return stdout.String(), stderr.String()
}

func TestRenderTextColumnsAndHint(t *testing.T) {
	results := []search.RankedResult{
		result("hello", "core", "2.12.1", "A program that produces a familiar, friendly greeting"),
		result("hello-wayland", "core", "0.1", ""),
	}
	stdout, stderr := renderTo(t, results, "hello", query.FormatText, Options{})

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "hello", strings.Fields(lines[0])[0])
	assert.Equal(t, "hello-wayland", strings.Fields(lines[1])[0])
	assert.Contains(t, lines[0], "2.12.1")
	assert.Contains(t, lines[0], "friendly greeting")
	assert.Contains(t, lines[1], "<no description provided>")

	assert.Equal(t, SearchHint+"\n", stderr)
}

func TestRenderTextDeduplicatesVersionsPerOrigin(t *testing.T) {
	results := []search.RankedResult{
		result("hello", "core", "2.12.1", "greeting"),
		result("hello", "core", "2.10", "greeting"),
		result("hello", "extras", "2.11", "greeting"),
	}
	stdout, _ := renderTo(t, results, "hello", query.FormatText, Options{})

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	// One line per (name, origin); the first ranked version wins.
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "2.12.1")
	assert.NotContains(t, stdout, "2.10")
}

func TestRenderTextOriginPrefixOnlyBehindFlag(t *testing.T) {
	results := []search.RankedResult{
		result("hello", "core", "2.12.1", "greeting"),
		result("hello", "extras", "2.11", "greeting"),
	}

	stdout, _ := renderTo(t, results, "hello", query.FormatText, Options{})
	assert.NotContains(t, stdout, "core:")

	stdout, _ = renderTo(t, results, "hello", query.FormatText,
		Options{ShowOrigin: true, OriginSeparator: ":"})
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "core:hello", strings.Fields(lines[0])[0])
	assert.Equal(t, "extras:hello", strings.Fields(lines[1])[0])
}

func TestRenderTextNoOriginPrefixWhenUnambiguous(t *testing.T) {
	results := []search.RankedResult{
		result("hello", "core", "2.12.1", "greeting"),
	}
	stdout, _ := renderTo(t, results, "hello", query.FormatText,
		Options{ShowOrigin: true, OriginSeparator: "."})
	assert.Equal(t, "hello", strings.Fields(stdout)[0])
}

func TestRenderJSONCarriesRankedOrderAndFields(t *testing.T) {
	results := []search.RankedResult{
		result("hello", "core", "2.12.1", "greeting"),
		result("hello", "core", "2.10", "greeting"),
	}
	stdout, stderr := renderTo(t, results, "hello", query.FormatJSON, Options{})

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "2.12.1", decoded[0]["version"])
	assert.Equal(t, "2.10", decoded[1]["version"])
	assert.Equal(t, "hello", decoded[0]["name"])
	assert.Equal(t, "x86_64-linux", decoded[0]["system"])
	assert.Equal(t, "core", decoded[0]["origin"])

	// The hint goes to stderr in JSON mode too; stdout stays parseable.
	assert.Equal(t, SearchHint+"\n", stderr)
}

func TestRenderEmptyResultDiagnostic(t *testing.T) {
	stdout, stderr := renderTo(t, nil, "surely_doesnt_exist", query.FormatText, Options{})
	assert.Equal(t, "No packages matched this search term: surely_doesnt_exist\n", stdout)
	assert.Empty(t, stderr, "no hint line for an empty result set")

	// Interactive sessions get the diagnostic on stderr instead.
	stdout, stderr = renderTo(t, nil, "surely_doesnt_exist", query.FormatText, Options{Interactive: true})
	assert.Empty(t, stdout)
	assert.Equal(t, "No packages matched this search term: surely_doesnt_exist\n", stderr)
}

func TestRenderMultilineDescriptionStaysOnOneLine(t *testing.T) {
	results := []search.RankedResult{
		result("hello", "core", "2.12.1", "first line\nsecond line"),
	}
	stdout, _ := renderTo(t, results, "hello", query.FormatText, Options{})
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "first line second line")
}
