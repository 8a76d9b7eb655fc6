package core

// history.go records a summary of every upload attempt.
//
// Only counters and the outcome are stored, never the index itself: the
// index lives in memory for the session and is rebuilt on each upload.
// Two stores are provided: MemoryHistory (bounded ring, the default) and
// PostgresHistory (used when a database is configured).

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultHistoryLimit is the number of records MemoryHistory keeps.
const DefaultHistoryLimit = 100

// UploadRecord summarizes one upload attempt.
type UploadRecord struct {
	ID            string    `json:"id"`
	FileName      string    `json:"fileName"`
	UploadedAt    time.Time `json:"uploadedAt"`
	ProcessedRows int       `json:"processedRows"`
	SkippedRows   int       `json:"skippedRows"`
	PostalCodes   int       `json:"postalCodes"`
	Error         string    `json:"error,omitempty"`
}

// HistoryStore persists upload records.
type HistoryStore interface {
	Record(ctx context.Context, rec UploadRecord) error
	Recent(ctx context.Context, limit int) ([]UploadRecord, error)
}

// MemoryHistory keeps the most recent records in memory.
type MemoryHistory struct {
	mu      sync.RWMutex
	limit   int
	records []UploadRecord // oldest first
}

// NewMemoryHistory creates a store holding at most limit records.
func NewMemoryHistory(limit int) *MemoryHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &MemoryHistory{limit: limit}
}

// Record appends rec, evicting the oldest record when full.
func (h *MemoryHistory) Record(_ context.Context, rec UploadRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, rec)
	if over := len(h.records) - h.limit; over > 0 {
		h.records = append(h.records[:0:0], h.records[over:]...)
	}
	return nil
}

// Recent returns up to limit records, newest first. limit <= 0 returns all.
func (h *MemoryHistory) Recent(_ context.Context, limit int) ([]UploadRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.records)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]UploadRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, h.records[i])
	}
	return out, nil
}

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const createHistoryTable = `CREATE TABLE IF NOT EXISTS upload_history (
	id             UUID PRIMARY KEY,
	file_name      TEXT NOT NULL,
	uploaded_at    TIMESTAMPTZ NOT NULL,
	processed_rows INTEGER NOT NULL,
	skipped_rows   INTEGER NOT NULL,
	postal_codes   INTEGER NOT NULL,
	error          TEXT NOT NULL DEFAULT ''
)`

const insertHistory = `INSERT INTO upload_history
	(id, file_name, uploaded_at, processed_rows, skipped_rows, postal_codes, error)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

const selectRecentHistory = `SELECT id::text, file_name, uploaded_at, processed_rows, skipped_rows, postal_codes, error
	FROM upload_history
	ORDER BY uploaded_at DESC
	LIMIT $1`

// PostgresHistory stores upload records in the upload_history table.
type PostgresHistory struct {
	db DBTX
}

// NewPostgresHistory creates the table if needed and returns the store.
func NewPostgresHistory(ctx context.Context, db DBTX) (*PostgresHistory, error) {
	if _, err := db.Exec(ctx, createHistoryTable); err != nil {
		return nil, fmt.Errorf("create upload_history: %w", err)
	}
	return &PostgresHistory{db: db}, nil
}

// Record inserts rec.
func (h *PostgresHistory) Record(ctx context.Context, rec UploadRecord) error {
	_, err := h.db.Exec(ctx, insertHistory,
		rec.ID,
		rec.FileName,
		rec.UploadedAt,
		rec.ProcessedRows,
		rec.SkippedRows,
		rec.PostalCodes,
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("insert upload_history: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (h *PostgresHistory) Recent(ctx context.Context, limit int) ([]UploadRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := h.db.Query(ctx, selectRecentHistory, limit)
	if err != nil {
		return nil, fmt.Errorf("query upload_history: %w", err)
	}
	defer rows.Close()

	var out []UploadRecord
	for rows.Next() {
		var rec UploadRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.FileName,
			&rec.UploadedAt,
			&rec.ProcessedRows,
			&rec.SkippedRows,
			&rec.PostalCodes,
			&rec.Error,
		); err != nil {
			return nil, fmt.Errorf("scan upload_history: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
