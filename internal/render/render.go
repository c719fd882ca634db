// Package render turns ranked search results into terminal output. The
// stdout and stderr sinks are injected so the contract between them —
// result lines on stdout, hints and diagnostics on stderr — is testable
// without touching process streams.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	pkgdexerrors "github.com/pkgdex/pkgdex/internal/errors"
	"github.com/pkgdex/pkgdex/internal/query"
	"github.com/pkgdex/pkgdex/internal/search"
)

// SearchHint is the fixed line written to stderr after a successful
// search with results. Scripts parsing stdout never see it.
const SearchHint = "Use 'pkgdex show <package>' to see available versions"

// noDescription fills the description column for records without one.
const noDescription = "<no description provided>"

// Options configures presentation behavior.
type Options struct {
	// ShowOrigin enables the deprecated origin prefix on column 1 for
	// names defined by more than one catalog origin.
	ShowOrigin bool
	// OriginSeparator joins origin and name when ShowOrigin is set.
	OriginSeparator string
	// Interactive reports whether stdout is a terminal. It routes the
	// empty-result diagnostic: stdout for pipes, stderr for humans.
	Interactive bool
}

// Presenter renders search results to its two sinks.
type Presenter struct {
	stdout io.Writer
	stderr io.Writer
	opts   Options
}

// NewPresenter creates a Presenter writing to the given sinks.
func NewPresenter(stdout, stderr io.Writer, opts Options) *Presenter {
	if opts.OriginSeparator == "" {
		opts.OriginSeparator = ":"
	}
	return &Presenter{stdout: stdout, stderr: stderr, opts: opts}
}

// Render writes the results for term in the requested format. An empty
// result set is not an error: it produces the single diagnostic line
// and a nil return, leaving the exit code at zero.
func (p *Presenter) Render(results []search.RankedResult, term string, format query.Format) error {
	if len(results) == 0 {
		sink := p.stdout
		if p.opts.Interactive {
			sink = p.stderr
		}
		fmt.Fprintf(sink, "No packages matched this search term: %s\n", term)
		return nil
	}

	var err error
	switch format {
	case query.FormatJSON:
		err = p.renderJSON(results)
	default:
		err = p.renderText(results)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(p.stderr, SearchHint)
	return nil
}

// textRow is one rendered line, columns not yet padded.
type textRow struct {
	name        string
	version     string
	description string
}

// renderText writes one line per (name, origin) pair in ranked order.
// Column 1 is the display name, consumed by scripts via cut/awk, so it
// only carries the origin prefix when the deprecated flag asks for it.
func (p *Presenter) renderText(results []search.RankedResult) error {
	ambiguous := ambiguousNames(results)

	type rowKey struct{ name, origin string }
	seen := make(map[rowKey]bool)
	rows := make([]textRow, 0, len(results))
	nameWidth, versionWidth := 0, 0

	for _, r := range results {
		key := rowKey{name: r.Package.Name, origin: r.Package.Origin}
		if seen[key] {
			continue
		}
		seen[key] = true

		name := r.Package.DisplayName()
		if p.opts.ShowOrigin && ambiguous[r.Package.Name] {
			name = r.Package.Origin + p.opts.OriginSeparator + name
		}
		row := textRow{
			name:        name,
			version:     r.Package.Version,
			description: oneLineDescription(r.Package.Description),
		}
		rows = append(rows, row)
		nameWidth = max(nameWidth, len(row.name))
		versionWidth = max(versionWidth, len(row.version))
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(p.stdout, "%-*s  %-*s  %s\n",
			nameWidth, row.name, versionWidth, row.version, row.description); err != nil {
			return pkgdexerrors.InternalError("writing search results", err)
		}
	}
	return nil
}

// jsonResult is the wire shape of one result element.
type jsonResult struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	System      string `json:"system"`
	Description string `json:"description,omitempty"`
	Origin      string `json:"origin"`
}

// renderJSON writes the full ranked result set as a single JSON array,
// one element per record, no dedup.
func (p *Presenter) renderJSON(results []search.RankedResult) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{
			Name:        r.Package.Name,
			Version:     r.Package.Version,
			System:      r.Package.System,
			Description: r.Package.Description,
			Origin:      r.Package.Origin,
		}
	}
	enc := json.NewEncoder(p.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return pkgdexerrors.InternalError("encoding search results", err)
	}
	return nil
}

// ambiguousNames reports which attribute names appear under more than
// one catalog origin in the result set.
func ambiguousNames(results []search.RankedResult) map[string]bool {
	origins := make(map[string]string)
	ambiguous := make(map[string]bool)
	for _, r := range results {
		name := r.Package.Name
		prev, seen := origins[name]
		if !seen {
			origins[name] = r.Package.Origin
			continue
		}
		if prev != r.Package.Origin {
			ambiguous[name] = true
		}
	}
	return ambiguous
}

// oneLineDescription collapses newlines so a multi-line catalog
// description cannot break the line-per-result contract.
func oneLineDescription(d string) string {
	if strings.TrimSpace(d) == "" {
		return noDescription
	}
	return strings.Join(strings.Fields(d), " ")
}
