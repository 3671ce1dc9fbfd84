// Package store appends finished sampling runs and their ranked words to a
// SQLite database, so that word lists of several runs can be compared.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/wikifreq/internal/freq"
)

// Run is the stored summary of one sampling run
type Run struct {
	ID                 string
	Language           string
	Source             string
	TargetWords        int
	MaxDocuments       int
	TopN               int
	MinDocumentWords   int
	TotalWords         int
	DocumentsAccepted  int
	DocumentsAttempted int
	StopReason         string
	StartedAt          time.Time
	FinishedAt         time.Time
}

// Store wraps the SQLite database
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id text PRIMARY KEY,
			language text NOT NULL,
			source text NOT NULL,
			target_words integer NOT NULL,
			max_documents integer NOT NULL,
			top_n integer NOT NULL,
			min_document_words integer NOT NULL,
			total_words integer NOT NULL,
			documents_accepted integer NOT NULL,
			documents_attempted integer NOT NULL,
			stop_reason text NOT NULL,
			started_at integer NOT NULL,
			finished_at integer NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS words (
			run_id text NOT NULL REFERENCES runs (id) ON DELETE CASCADE,
			rank integer NOT NULL,
			word text NOT NULL,
			count integer NOT NULL,
			freq_per_million real NOT NULL,
			PRIMARY KEY (run_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS ix_words_word ON words (word)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// SaveRun stores run and its ranked entries in one transaction. An empty
// run.ID is replaced with a new UUID; the stored id is returned.
func (s *Store) SaveRun(ctx context.Context, run Run, entries []freq.Entry) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs (
		id, language, source, target_words, max_documents, top_n, min_document_words,
		total_words, documents_accepted, documents_attempted, stop_reason, started_at, finished_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Language, run.Source, run.TargetWords, run.MaxDocuments, run.TopN, run.MinDocumentWords,
		run.TotalWords, run.DocumentsAccepted, run.DocumentsAttempted, run.StopReason,
		run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli())
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO words (run_id, rank, word, count, freq_per_million) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare word insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, run.ID, e.Rank, e.Word, e.Count, e.FreqPerMillion); err != nil {
			return "", fmt.Errorf("failed to insert word %q: %w", e.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// Runs returns every stored run, most recent first
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, language, source, target_words, max_documents, top_n, min_document_words,
		total_words, documents_accepted, documents_attempted, stop_reason, started_at, finished_at
		FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Language, &r.Source, &r.TargetWords, &r.MaxDocuments, &r.TopN, &r.MinDocumentWords,
			&r.TotalWords, &r.DocumentsAccepted, &r.DocumentsAttempted, &r.StopReason, &started, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(started)
		r.FinishedAt = time.UnixMilli(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Words returns the ranked entries of a run, at most limit of them when
// limit > 0
func (s *Store) Words(ctx context.Context, runID string, limit int) ([]freq.Entry, error) {
	query := `SELECT rank, word, count, freq_per_million FROM words WHERE run_id = ? ORDER BY rank`
	args := []any{runID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	var entries []freq.Entry
	for rows.Next() {
		var e freq.Entry
		if err := rows.Scan(&e.Rank, &e.Word, &e.Count, &e.FreqPerMillion); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
