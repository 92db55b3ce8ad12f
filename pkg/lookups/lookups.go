// Package lookups keeps a history of the geocoding lookups served.
package lookups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Lookup struct {
	ID          int64     `json:"id"`
	Operation   string    `json:"operation"`
	Query       string    `json:"query"`
	Outcome     string    `json:"outcome"`
	ResultCount int       `json:"result_count"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	TraceID     string    `json:"trace_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type dbLookup struct {
	ID          int64          `db:"id"`
	Operation   string         `db:"operation"`
	Query       string         `db:"query"`
	Outcome     string         `db:"outcome"`
	ResultCount int            `db:"result_count"`
	ErrorKind   sql.NullString `db:"error_kind"`
	TraceID     sql.NullString `db:"trace_id"`
	CreatedAt   time.Time      `db:"created_at"`
}

type Repository interface {
	Record(ctx context.Context, l *Lookup) error
	ListRecent(ctx context.Context, limit int) ([]*Lookup, error)
}

type pgRepo struct {
	db *sqlx.DB
}

var _ Repository = (*pgRepo)(nil)

func NewPgRepository(db *sql.DB) *pgRepo {
	return &pgRepo{db: sqlx.NewDb(db, "postgres")}
}

func (r *pgRepo) Record(ctx context.Context, l *Lookup) error {
	query := `
	INSERT INTO lookups (operation, query, outcome, result_count, error_kind, trace_id)
	VALUES (:operation, :query, :outcome, :result_count, :error_kind, :trace_id)
	RETURNING id, created_at;`

	rows, err := r.db.NamedQueryContext(ctx, query, toDB(l))
	if err != nil {
		return fmt.Errorf("insert lookup: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&l.ID, &l.CreatedAt); err != nil {
			return fmt.Errorf("scan lookup: %w", err)
		}
	}

	return rows.Err()
}

func (r *pgRepo) ListRecent(ctx context.Context, limit int) ([]*Lookup, error) {
	var rows []dbLookup

	query := `
	SELECT id, operation, query, outcome, result_count, error_kind, trace_id, created_at
	FROM lookups
	ORDER BY created_at DESC, id DESC
	LIMIT $1;`

	err := r.db.SelectContext(ctx, &rows, query, limit)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select lookups: %w", err)
	}

	lookups := make([]*Lookup, len(rows))
	for i := range rows {
		lookups[i] = rows[i].Map()
	}

	return lookups, nil
}

func toDB(l *Lookup) dbLookup {
	return dbLookup{
		Operation:   l.Operation,
		Query:       l.Query,
		Outcome:     l.Outcome,
		ResultCount: l.ResultCount,
		ErrorKind:   sql.NullString{String: l.ErrorKind, Valid: l.ErrorKind != ""},
		TraceID:     sql.NullString{String: l.TraceID, Valid: l.TraceID != ""},
	}
}

func (u dbLookup) Map() *Lookup {
	l := Lookup{
		ID:          u.ID,
		Operation:   u.Operation,
		Query:       u.Query,
		Outcome:     u.Outcome,
		ResultCount: u.ResultCount,
		CreatedAt:   u.CreatedAt,
	}

	if u.ErrorKind.Valid {
		l.ErrorKind = u.ErrorKind.String
	}

	if u.TraceID.Valid {
		l.TraceID = u.TraceID.String
	}

	return &l
}

// Discard is a Repository used when no database is configured.
type Discard struct{}

var _ Repository = Discard{}

func (Discard) Record(context.Context, *Lookup) error { return nil }

func (Discard) ListRecent(context.Context, int) ([]*Lookup, error) { return []*Lookup{}, nil }
