// Package store caches per-video results in SQLite, keyed by the SHA-256 of
// the video file so renamed files are not reprocessed.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no record exists for a hash.
var ErrNotFound = errors.New("not found")

// Record is one cached video result.
type Record struct {
	Hash       string
	Video      string
	Payload    json.RawMessage
	AnalyzedAt time.Time
}

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at path and initializes the schema.
// ":memory:" is accepted for tests.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc gives each connection its own in-memory database.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		hash TEXT PRIMARY KEY,
		video TEXT NOT NULL,
		payload TEXT NOT NULL,
		analyzed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_analyzed_at ON results(analyzed_at);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Put inserts or replaces the record for rec.Hash.
func (db *DB) Put(ctx context.Context, rec Record) error {
	if rec.Hash == "" {
		return errors.New("record hash is empty")
	}
	if !json.Valid(rec.Payload) {
		return errors.New("record payload is not valid json")
	}
	if rec.AnalyzedAt.IsZero() {
		rec.AnalyzedAt = time.Now()
	}

	query := `
	INSERT INTO results (hash, video, payload, analyzed_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(hash) DO UPDATE SET
		video = excluded.video,
		payload = excluded.payload,
		analyzed_at = excluded.analyzed_at
	`

	_, err := db.conn.ExecContext(ctx, query, rec.Hash, rec.Video, string(rec.Payload), rec.AnalyzedAt.UTC())
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// Get returns the record for hash or ErrNotFound.
func (db *DB) Get(ctx context.Context, hash string) (*Record, error) {
	query := `SELECT hash, video, payload, analyzed_at FROM results WHERE hash = ?`

	rec, err := scanRecord(db.conn.QueryRowContext(ctx, query, hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return rec, nil
}

// List returns the most recently analyzed records, newest first.
// A non-positive limit returns everything.
func (db *DB) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
	SELECT hash, video, payload, analyzed_at FROM results
	ORDER BY analyzed_at DESC, video ASC
	LIMIT ?
	`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Delete removes the record for hash. Deleting a missing record is not an error.
func (db *DB) Delete(ctx context.Context, hash string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM results WHERE hash = ?`, hash)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var (
		rec     Record
		payload string
	)
	if err := s.Scan(&rec.Hash, &rec.Video, &payload, &rec.AnalyzedAt); err != nil {
		return nil, err
	}
	rec.Payload = json.RawMessage(payload)
	return &rec, nil
}

// HashFile returns the hex SHA-256 of the file contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
