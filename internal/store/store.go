// Package store persists corpus snapshots in SQLite so later loads can be
// diffed against what was seen before. It stores documents only, never
// embeddings.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/corpushq/embedctl/internal/corpus"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// Record is one snapshotted corpus document.
type Record struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Text        string    `json:"text"`
	ContentHash string    `json:"content_hash"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Store wraps a SQLite snapshot database.
type Store struct {
	db *sql.DB
}

// Open opens a snapshot store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL,
			loaded_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_content_hash ON documents(content_hash)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	return nil
}

// Save upserts every document of a corpus loaded from dir.
func (s *Store) Save(ctx context.Context, c corpus.Corpus, dir string) error {
	query := `
		INSERT INTO documents (id, path, text, content_hash, loaded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			text = excluded.text,
			content_hash = excluded.content_hash,
			loaded_at = excluded.loaded_at
	`
	now := time.Now().UTC()
	for _, doc := range c {
		_, err := s.db.ExecContext(ctx, query,
			doc.ID,
			dir,
			doc.Text,
			ContentHash(doc.Text),
			now,
		)
		if err != nil {
			return fmt.Errorf("upserting document %s: %w", doc.ID, err)
		}
	}
	return nil
}

// Get retrieves a record by document ID.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	query := `SELECT id, path, text, content_hash, loaded_at FROM documents WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)

	var r Record
	err := row.Scan(&r.ID, &r.Path, &r.Text, &r.ContentHash, &r.LoadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	return &r, nil
}

// List returns all records ordered by document ID.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	query := `SELECT id, path, text, content_hash, loaded_at FROM documents ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Path, &r.Text, &r.ContentHash, &r.LoadedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Delete removes a record by document ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Changed returns the documents of a corpus that are new or whose content
// differs from the snapshot.
func (s *Store) Changed(ctx context.Context, c corpus.Corpus) (corpus.Corpus, error) {
	changed := corpus.Corpus{}
	for _, doc := range c {
		rec, err := s.Get(ctx, doc.ID)
		if errors.Is(err, ErrNotFound) {
			changed = append(changed, doc)
			continue
		}
		if err != nil {
			return nil, err
		}
		if rec.ContentHash != ContentHash(doc.Text) {
			changed = append(changed, doc)
		}
	}
	return changed, nil
}

// ContentHash returns the hash used for change detection.
func ContentHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:16])
}
