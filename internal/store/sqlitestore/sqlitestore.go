// Package sqlitestore persists imported documents in a single SQLite table.
package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/sqlite"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/logging"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	kind        TEXT NOT NULL,
	id          TEXT NOT NULL,
	name        TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	body        BLOB NOT NULL,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (kind, id)
)`

// DB is an open document database shared by the typed stores.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the document database at path.
func Open(path string) (*DB, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, apperrors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.NewIO("initialize", path, err)
	}
	logging.StoreOpened("sqlite", path)
	return &DB{db: db, path: path}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Entry describes one stored document without its body.
type Entry struct {
	Kind        string
	ID          string
	Name        string
	Fingerprint string
	UpdatedAt   time.Time
}

// List returns every stored document of kind ordered by name, or of all
// kinds when kind is empty.
func (d *DB) List(kind string) ([]Entry, error) {
	query := `SELECT kind, id, name, fingerprint, updated_at FROM documents`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY kind, name, id`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var updated string
		if err := rows.Scan(&e.Kind, &e.ID, &e.Name, &e.Fingerprint, &updated); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Store is a formats.PersistAdapter over one kind of document.
type Store[T any] struct {
	db   *DB
	kind string
	key  func(T) (id, name string)
}

// New returns a store for documents of kind. key extracts the id and the
// display name of a document.
func New[T any](db *DB, kind string, key func(T) (id, name string)) *Store[T] {
	return &Store[T]{db: db, kind: kind, key: key}
}

// Exists reports whether id is stored.
func (s *Store[T]) Exists(id string) (bool, error) {
	var n int
	err := s.db.db.QueryRow(`SELECT COUNT(*) FROM documents WHERE kind = ? AND id = ?`, s.kind, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup %s %s: %w", s.kind, id, err)
	}
	return n > 0, nil
}

// Upsert writes doc, replacing a stored document with the same id. A
// document whose fingerprint is unchanged is not rewritten.
func (s *Store[T]) Upsert(doc T) (bool, error) {
	id, name := s.key(doc)
	enc, err := store.Encode(id, doc)
	if err != nil {
		return false, err
	}

	var current string
	err = s.db.db.QueryRow(`SELECT fingerprint FROM documents WHERE kind = ? AND id = ?`, s.kind, id).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("lookup %s %s: %w", s.kind, id, err)
	case current == enc.Fingerprint:
		return true, nil
	}
	existed := err == nil

	_, err = s.db.db.Exec(`
		INSERT INTO documents (kind, id, name, fingerprint, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET
			name = excluded.name,
			fingerprint = excluded.fingerprint,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		s.kind, id, name, enc.Fingerprint, enc.Body, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("write %s %s: %w", s.kind, id, err)
	}
	return existed, nil
}

// Load reads the document stored under id.
func (s *Store[T]) Load(id string) (T, error) {
	var zero T
	var body []byte
	err := s.db.db.QueryRow(`SELECT body FROM documents WHERE kind = ? AND id = ?`, s.kind, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, apperrors.NewNotFound(s.kind, id)
	}
	if err != nil {
		return zero, fmt.Errorf("read %s %s: %w", s.kind, id, err)
	}
	var doc T
	if err := store.Decode(body, &doc); err != nil {
		return zero, fmt.Errorf("%s %s: %w", s.kind, id, err)
	}
	return doc, nil
}

// List returns the entries of this store's kind.
func (s *Store[T]) List() ([]Entry, error) {
	return s.db.List(s.kind)
}
