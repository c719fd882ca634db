package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	pkgdexerrors "github.com/pkgdex/pkgdex/internal/errors"
)

// shardSchema is the per-origin package table. id preserves the
// insertion order the deterministic merge relies on.
const shardSchema = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS packages (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		pname       TEXT NOT NULL,
		version     TEXT NOT NULL DEFAULT '',
		system      TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_packages_name ON packages(name);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
`

// ImportFile loads a package dump (JSON array or YAML sequence, selected
// by file extension) into the origin's shard, replacing its previous
// contents. Returns the number of packages written.
func ImportFile(ctx context.Context, dir, origin, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, pkgdexerrors.CatalogError(
			fmt.Sprintf("cannot read package dump %s", path), err)
	}

	var pkgs []Package
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &pkgs); err != nil {
			return 0, pkgdexerrors.New(pkgdexerrors.ErrCodeInvalidInput,
				fmt.Sprintf("package dump %s is not a JSON array of packages", path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &pkgs); err != nil {
			return 0, pkgdexerrors.New(pkgdexerrors.ErrCodeInvalidInput,
				fmt.Sprintf("package dump %s is not a YAML sequence of packages", path), err)
		}
	default:
		return 0, pkgdexerrors.New(pkgdexerrors.ErrCodeInvalidInput,
			fmt.Sprintf("unsupported package dump format %q (use .json or .yaml)", filepath.Ext(path)), nil)
	}

	if err := WriteOrigin(ctx, dir, origin, pkgs); err != nil {
		return 0, err
	}
	return len(pkgs), nil
}

// WriteOrigin replaces the contents of an origin shard with the given
// packages, creating the catalog directory and shard as needed. It takes
// the exclusive catalog lock for the duration of the write.
func WriteOrigin(ctx context.Context, dir, origin string, pkgs []Package) error {
	if origin == "" || strings.ContainsAny(origin, "/.") {
		return pkgdexerrors.New(pkgdexerrors.ErrCodeInvalidInput,
			fmt.Sprintf("invalid catalog origin name %q", origin), nil)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pkgdexerrors.CatalogError(
			fmt.Sprintf("cannot create catalog directory %s", dir), err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return pkgdexerrors.CatalogError(
			fmt.Sprintf("cannot lock catalog directory %s", dir), err)
	}
	if !locked {
		return pkgdexerrors.New(pkgdexerrors.ErrCodeCatalogLocked,
			fmt.Sprintf("catalog directory %s is in use by another process", dir), nil).
			WithSuggestion("retry once the other pkgdex invocation finishes")
	}
	defer func() { _ = lock.Unlock() }()

	path := filepath.Join(dir, origin+".db")
	db, err := openShardReadWrite(path)
	if err != nil {
		return pkgdexerrors.CatalogError(
			fmt.Sprintf("cannot open catalog shard %s", path), err)
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return pkgdexerrors.CatalogError("cannot begin catalog transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM packages`); err != nil {
		return pkgdexerrors.CatalogError(
			fmt.Sprintf("cannot clear catalog origin %s", origin), err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO packages (name, pname, version, system, description)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return pkgdexerrors.CatalogError("cannot prepare catalog insert", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range pkgs {
		if p.Name == "" {
			return pkgdexerrors.New(pkgdexerrors.ErrCodeInvalidInput,
				"package record without a name in dump", nil)
		}
		pname := p.PName
		if pname == "" {
			pname = p.Name
		}
		if _, err := stmt.ExecContext(ctx, p.Name, pname, p.Version, p.System, p.Description); err != nil {
			return pkgdexerrors.CatalogError(
				fmt.Sprintf("cannot write package %s to origin %s", p.Name, origin), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return pkgdexerrors.CatalogError("cannot commit catalog transaction", err)
	}
	return nil
}

// openShardReadWrite opens (or creates) a shard for importing.
func openShardReadWrite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL keeps concurrent read-only searches working during an import.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(shardSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize shard schema: %w", err)
	}
	return db, nil
}
