// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// ErrBookmarkNotFound is returned when a bookmark ID does not exist.
var ErrBookmarkNotFound = errors.New("bookmark not found")

// Bookmark is a saved answer the user wants to keep across sessions.
// Unlike chat messages, bookmarks are an explicit user action, so local
// persistence is intended.
type Bookmark struct {
	ID        string
	Question  string
	Answer    string
	FileHash  string
	FileName  string
	CreatedAt time.Time
}

// =============================================================================
// BOOKMARK STORE
// =============================================================================

// BookmarkStore persists bookmarks in a local SQLite database.
type BookmarkStore struct {
	db *sql.DB
}

// OpenBookmarkStore opens (or creates) the bookmark database at path.
func OpenBookmarkStore(path string) (*BookmarkStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmark database: %w", err)
	}

	// Single writer; the driver serializes access per connection.
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS bookmarks (
		id         TEXT PRIMARY KEY,
		question   TEXT NOT NULL,
		answer     TEXT NOT NULL,
		file_hash  TEXT NOT NULL DEFAULT '',
		file_name  TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_bookmarks_created ON bookmarks(created_at DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize bookmark schema: %w", err)
	}

	return &BookmarkStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *BookmarkStore) Close() error {
	return s.db.Close()
}

// Add saves a bookmark and returns it with its generated ID.
func (s *BookmarkStore) Add(question, answer, fileHash, fileName string) (*Bookmark, error) {
	b := &Bookmark{
		ID:        uuid.NewString(),
		Question:  question,
		Answer:    answer,
		FileHash:  fileHash,
		FileName:  fileName,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(
		`INSERT INTO bookmarks (id, question, answer, file_hash, file_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.Question, b.Answer, b.FileHash, b.FileName, b.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}
	return b, nil
}

// List returns bookmarks newest-first, capped at limit (0 means no cap).
func (s *BookmarkStore) List(limit int) ([]Bookmark, error) {
	query := `SELECT id, question, answer, file_hash, file_name, created_at
	          FROM bookmarks ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var b Bookmark
		var created int64
		if err := rows.Scan(&b.ID, &b.Question, &b.Answer, &b.FileHash, &b.FileName, &created); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		b.CreatedAt = time.Unix(created, 0)
		out = append(out, b)
	}
	return out, rows.Err()
}

// Delete removes a bookmark by ID.
func (s *BookmarkStore) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrBookmarkNotFound, id)
	}
	return nil
}
