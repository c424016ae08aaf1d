// Package sqlite implements save-slot storage in a single SQLite database.
// Saves and the autosave ring live in two tables; documents are stored as
// JSON text.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/jedharris/text-game-sub000/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS saves (
    name TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    turn_count INTEGER NOT NULL DEFAULT 0,
    doc TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS autosaves (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    doc TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store is a SQLite-backed save store.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path. Use ":memory:" for
// tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening save database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing save schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Put(ctx context.Context, name string, doc []byte, info storage.SlotInfo) error {
	if name == "" {
		return fmt.Errorf("empty slot name")
	}
	updated := info.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saves (name, title, turn_count, doc, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			title = excluded.title,
			turn_count = excluded.turn_count,
			doc = excluded.doc,
			updated_at = excluded.updated_at
	`, name, info.Title, info.TurnCount, string(doc), updated)
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", name, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM saves WHERE name = ?`, name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrSlotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", name, err)
	}
	return []byte(doc), nil
}

func (s *Store) List(ctx context.Context) ([]storage.SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, title, turn_count, updated_at
		FROM saves ORDER BY updated_at DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var slots []storage.SlotInfo
	for rows.Next() {
		var info storage.SlotInfo
		if err := rows.Scan(&info.Name, &info.Title, &info.TurnCount, &info.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, info)
	}
	return slots, rows.Err()
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrSlotNotFound, name)
	}
	return nil
}

// Autosave inserts the document and prunes the ring in one transaction.
func (s *Store) Autosave(ctx context.Context, doc []byte, keep int) error {
	if keep < 1 {
		keep = 1
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning autosave: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO autosaves (doc) VALUES (?)`, string(doc)); err != nil {
		return fmt.Errorf("writing autosave: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM autosaves WHERE seq NOT IN (
			SELECT seq FROM autosaves ORDER BY seq DESC LIMIT ?
		)
	`, keep); err != nil {
		return fmt.Errorf("pruning autosaves: %w", err)
	}
	return tx.Commit()
}

func (s *Store) LatestAutosave(ctx context.Context) ([]byte, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM autosaves ORDER BY seq DESC LIMIT 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading autosave: %w", err)
	}
	return []byte(doc), nil
}

func (s *Store) Close() error { return s.db.Close() }
