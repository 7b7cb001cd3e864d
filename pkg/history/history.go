// Package history keeps an audit log of the searches served. It's write-mostly:
// entries are never used to answer a search.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Entry struct {
	ID          int64     `json:"id"`
	TraceID     string    `json:"trace_id"`
	Query       string    `json:"query"`
	Limit       int       `json:"limit"`
	ResultCount int       `json:"result_count"`
	Failed      bool      `json:"failed"`
	CreatedAt   time.Time `json:"created_at"`
}

type dbEntry struct {
	ID          int64          `db:"id"`
	TraceID     sql.NullString `db:"trace_id"`
	Query       string         `db:"query"`
	Limit       int            `db:"search_limit"`
	ResultCount int            `db:"result_count"`
	Failed      bool           `db:"failed"`
	CreatedAt   time.Time      `db:"created_at"`
}

type Repository interface {
	Record(ctx context.Context, e Entry) error
	ListRecent(ctx context.Context, n int) ([]Entry, error)
}

type pgRepo struct {
	db *sqlx.DB
}

var _ Repository = (*pgRepo)(nil)

func NewPgRepository(db *sql.DB) *pgRepo {
	return &pgRepo{db: sqlx.NewDb(db, "postgres")}
}

func (r *pgRepo) Record(ctx context.Context, e Entry) error {
	query := `
	INSERT INTO searches (trace_id, query, search_limit, result_count, failed)
	VALUES (:trace_id, :query, :search_limit, :result_count, :failed);`

	_, err := r.db.NamedExecContext(ctx, query, dbEntry{
		TraceID:     sql.NullString{String: e.TraceID, Valid: e.TraceID != ""},
		Query:       e.Query,
		Limit:       e.Limit,
		ResultCount: e.ResultCount,
		Failed:      e.Failed,
	})
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}

	return nil
}

func (r *pgRepo) ListRecent(ctx context.Context, n int) ([]Entry, error) {
	var rows []dbEntry

	query := `
	SELECT id, trace_id, query, search_limit, result_count, failed, created_at
	FROM searches
	ORDER BY created_at DESC, id DESC
	LIMIT $1;`

	err := r.db.SelectContext(ctx, &rows, query, n)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select searches: %w", err)
	}

	entries := make([]Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].Map()
	}

	return entries, nil
}

func (e dbEntry) Map() Entry {
	return Entry{
		ID:          e.ID,
		TraceID:     e.TraceID.String,
		Query:       e.Query,
		Limit:       e.Limit,
		ResultCount: e.ResultCount,
		Failed:      e.Failed,
		CreatedAt:   e.CreatedAt,
	}
}
