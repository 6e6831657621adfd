// Package store persists resolved identifiers per document. It implements
// the single-field contract (label "identifier") over a SQLite cache keyed
// by absolute document path, so repeat resolutions are instant.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Record is the cached resolution of one document.
type Record struct {
	Identifier string
	Kind       string
	Method     string
	Citation   string
}

// DB wraps the SQLite identifier cache.
type DB struct {
	db *sql.DB
}

// Open opens or creates the cache database at path, creating parent
// directories as needed.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			path       TEXT PRIMARY KEY,
			identifier TEXT NOT NULL,
			kind       TEXT NOT NULL DEFAULT '',
			method     TEXT NOT NULL DEFAULT '',
			citation   TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Read returns the cached record for a document, or nil if none exists.
func (d *DB) Read(path string) (*Record, error) {
	key, err := normalize(path)
	if err != nil {
		return nil, err
	}

	var rec Record
	row := d.db.QueryRow(
		`SELECT identifier, kind, method, citation FROM documents WHERE path = ?`, key)
	if err := row.Scan(&rec.Identifier, &rec.Kind, &rec.Method, &rec.Citation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cached identifier: %w", err)
	}
	return &rec, nil
}

// Write stores a record for a document. Writing a record identical to the
// stored one is a no-op.
func (d *DB) Write(path string, rec Record) error {
	key, err := normalize(path)
	if err != nil {
		return err
	}

	existing, err := d.Read(path)
	if err != nil {
		return err
	}
	if existing != nil && *existing == rec {
		return nil
	}

	_, err = d.db.Exec(`
		INSERT INTO documents (path, identifier, kind, method, citation, updated_at)
		VALUES (?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(path) DO UPDATE SET
			identifier = excluded.identifier,
			kind       = excluded.kind,
			method     = excluded.method,
			citation   = excluded.citation,
			updated_at = excluded.updated_at`,
		key, rec.Identifier, rec.Kind, rec.Method, rec.Citation)
	if err != nil {
		return fmt.Errorf("writing cached identifier: %w", err)
	}
	return nil
}

// ManualOverride stores an identifier supplied by the user, without
// validation. It always writes, regardless of the write-back setting.
func (d *DB) ManualOverride(path, identifier string) error {
	return d.Write(path, Record{Identifier: identifier, Method: "manual"})
}

// Delete removes the cached record for a document, if any.
func (d *DB) Delete(path string) error {
	key, err := normalize(path)
	if err != nil {
		return err
	}
	if _, err := d.db.Exec(`DELETE FROM documents WHERE path = ?`, key); err != nil {
		return fmt.Errorf("deleting cached identifier: %w", err)
	}
	return nil
}

// normalize keys documents by absolute cleaned path, so the same file seen
// through different relative paths shares one cache entry.
func normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return filepath.Clean(abs), nil
}
