// Package catalog provides read-only lookup over the prebuilt package
// catalog. The catalog is a directory holding one SQLite shard per origin
// (`<origin>.db`); building those shards is the job of an external
// collaborator (or `pkgdex catalog import` for fixtures and ops tooling).
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	pkgdexerrors "github.com/pkgdex/pkgdex/internal/errors"
)

// Package is one immutable catalog record. Matching, ranking, and
// rendering borrow records; nothing downstream mutates them.
type Package struct {
	// Origin is the catalog source that defined the record.
	Origin string `json:"origin" yaml:"origin,omitempty"`
	// Name is the full attribute path, e.g. "python310Packages.flask".
	Name string `json:"name" yaml:"name"`
	// PName is the display name shown in column 1 of text output.
	PName string `json:"pname" yaml:"pname,omitempty"`
	// Version is the package version. May be absent or non-semver.
	Version string `json:"version" yaml:"version,omitempty"`
	// System is the platform tag, e.g. "x86_64-linux".
	System string `json:"system" yaml:"system,omitempty"`
	// Description is the short package description, if any.
	Description string `json:"description" yaml:"description,omitempty"`
}

// DisplayName returns the name used for rendering: PName when present,
// otherwise the attribute path.
func (p Package) DisplayName() string {
	if p.PName != "" {
		return p.PName
	}
	return p.Name
}

// Strategy is the breadth mode of name matching.
type Strategy int

const (
	// MatchSubstring matches on a case-sensitive substring of the name or
	// display name (broader recall, the default).
	MatchSubstring Strategy = iota
	// MatchNameOnly matches only names equal to the term or having the
	// term as a whole dot-separated path segment.
	MatchNameOnly
)

// String returns the configuration value for the strategy.
func (s Strategy) String() string {
	if s == MatchNameOnly {
		return "match-name"
	}
	return "match"
}

// ParseStrategy maps a configuration value to a Strategy.
// Unrecognized values fall back to the broad substring search.
func ParseStrategy(v string) Strategy {
	if v == "match-name" {
		return MatchNameOnly
	}
	return MatchSubstring
}

// lockFileName guards the catalog directory: importers take an exclusive
// lock, searches take a shared one.
const lockFileName = "catalog.lock"

// Catalog is a read-only accessor over the shards of a catalog directory.
// Open it per invocation and release it with Close on every exit path.
type Catalog struct {
	dir    string
	lock   *flock.Flock
	shards []*shard
}

type shard struct {
	origin string
	db     *sql.DB
}

// Open opens every origin shard in dir read-only under a shared lock.
// A missing or unreadable catalog is a CatalogUnavailable error; an empty
// catalog directory is not.
func Open(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, pkgdexerrors.CatalogError(
			fmt.Sprintf("catalog directory %s is not available", dir), err).
			WithSuggestion("run 'pkgdex catalog import' to create one")
	}
	if !info.IsDir() {
		return nil, pkgdexerrors.CatalogError(
			fmt.Sprintf("catalog path %s is not a directory", dir), nil)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryRLock()
	if err != nil {
		return nil, pkgdexerrors.CatalogError(
			fmt.Sprintf("cannot lock catalog directory %s", dir), err)
	}
	if !locked {
		return nil, pkgdexerrors.New(pkgdexerrors.ErrCodeCatalogLocked,
			fmt.Sprintf("catalog directory %s is locked by another process", dir), nil).
			WithSuggestion("wait for the running catalog import to finish")
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.db"))
	if err != nil {
		_ = lock.Unlock()
		return nil, pkgdexerrors.CatalogError(
			fmt.Sprintf("cannot list catalog shards in %s", dir), err)
	}
	sort.Strings(paths)

	c := &Catalog{dir: dir, lock: lock}
	for _, path := range paths {
		db, err := openShardReadOnly(path)
		if err != nil {
			_ = c.Close()
			return nil, pkgdexerrors.CatalogError(
				fmt.Sprintf("cannot open catalog shard %s", path), err)
		}
		origin := strings.TrimSuffix(filepath.Base(path), ".db")
		c.shards = append(c.shards, &shard{origin: origin, db: db})
	}

	return c, nil
}

// Close releases the shards and the shared lock. Safe to call once on
// every exit path.
func (c *Catalog) Close() error {
	var firstErr error
	for _, s := range c.shards {
		if err := s.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.shards = nil
	if c.lock != nil {
		if err := c.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.lock = nil
	}
	return firstErr
}

// Origins returns the origin names of the opened shards, in shard order.
func (c *Catalog) Origins() []string {
	origins := make([]string, 0, len(c.shards))
	for _, s := range c.shards {
		origins = append(origins, s.origin)
	}
	return origins
}

// Count returns the number of packages a given origin shard holds.
func (c *Catalog) Count(ctx context.Context, origin string) (int, error) {
	for _, s := range c.shards {
		if s.origin != origin {
			continue
		}
		var n int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM packages`).Scan(&n)
		if err != nil {
			return 0, pkgdexerrors.CatalogError(
				fmt.Sprintf("cannot count packages in origin %s", origin), err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("unknown catalog origin %q", origin)
}

// Lookup returns every record matching term under the given strategy.
// Shards are scanned concurrently; the merge is deterministic (ordered by
// name, then origin, then shard insertion order) so ranking ties resolve
// identically across runs. An empty result is not an error.
func (c *Catalog) Lookup(ctx context.Context, term string, strategy Strategy) ([]Package, error) {
	perShard := make([][]Package, len(c.shards))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range c.shards {
		g.Go(func() error {
			pkgs, err := s.scan(ctx, term, strategy)
			if err != nil {
				return err
			}
			perShard[i] = pkgs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []Package
	for _, pkgs := range perShard {
		merged = append(merged, pkgs...)
	}
	// Per-shard slices are already ordered by (name, insertion order);
	// the stable sort only interleaves shards.
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Name != merged[j].Name {
			return merged[i].Name < merged[j].Name
		}
		return merged[i].Origin < merged[j].Origin
	})
	return merged, nil
}

// scan selects candidate rows for term from one shard and applies the
// strategy refinement. instr() keeps the substring match case-sensitive;
// SQLite LIKE would fold ASCII case.
func (s *shard) scan(ctx context.Context, term string, strategy Strategy) ([]Package, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, pname, version, system, description
		FROM packages
		WHERE instr(name, ?1) > 0 OR instr(pname, ?1) > 0
		ORDER BY name, id`, term)
	if err != nil {
		return nil, pkgdexerrors.CatalogError(
			fmt.Sprintf("scanning catalog origin %s", s.origin), err)
	}
	defer func() { _ = rows.Close() }()

	var pkgs []Package
	for rows.Next() {
		p := Package{Origin: s.origin}
		if err := rows.Scan(&p.Name, &p.PName, &p.Version, &p.System, &p.Description); err != nil {
			return nil, pkgdexerrors.CatalogError(
				fmt.Sprintf("reading catalog origin %s", s.origin), err)
		}
		if strategy == MatchNameOnly && !nameMatchesToken(p.Name, term) {
			continue
		}
		pkgs = append(pkgs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgdexerrors.CatalogError(
			fmt.Sprintf("scanning catalog origin %s", s.origin), err)
	}
	return pkgs, nil
}

// nameMatchesToken reports whether name equals term or has term as a
// whole dot-separated path segment ("python310Packages.flask" matches
// the term "flask" but not "lask").
func nameMatchesToken(name, term string) bool {
	if name == term {
		return true
	}
	for _, segment := range strings.Split(name, ".") {
		if segment == term {
			return true
		}
	}
	return false
}

// openShardReadOnly opens an existing shard database for querying.
func openShardReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}

	// One connection per shard keeps SQLite happy without a pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Fail fast on a corrupt or foreign database instead of mid-scan.
	var n int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master
	                   WHERE type='table' AND name='packages'`).Scan(&n)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if n == 0 {
		_ = db.Close()
		return nil, fmt.Errorf("table 'packages' missing from %s", path)
	}
	return db, nil
}
