package pgsink

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/logkit/pkg/batchlog"
)

// Reader queries persisted records for inspection and tests. Records come
// back ordered by their storage identifier, which approximates emission order
// (exactly, per single producer).
type Reader struct {
	pool  *pgxpool.Pool
	table string
}

// NewReader creates a reader over cfg.Table.
func NewReader(pool *pgxpool.Pool, cfg Config) *Reader {
	table := cfg.Table
	if table == "" {
		table = "log_entries"
	}
	return &Reader{pool: pool, table: table}
}

// List returns up to limit committed records in storage order. A limit of 0
// or less returns everything.
func (r *Reader) List(ctx context.Context, limit int) ([]batchlog.Record, error) {
	query := fmt.Sprintf(`SELECT record_id, event_code, event_name, level, category, message, error, created_at
		FROM %s ORDER BY entry_id ASC`, r.table)
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query log records: %w", err)
	}
	defer rows.Close()

	var records []batchlog.Record
	for rows.Next() {
		var (
			rec   batchlog.Record
			level string
		)
		if err := rows.Scan(&rec.ID, &rec.Event.Code, &rec.Event.Name, &level,
			&rec.Category, &rec.Message, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log record: %w", err)
		}
		if rec.Level, err = batchlog.ParseLevel(level); err != nil {
			return nil, fmt.Errorf("stored level %q: %w", level, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log records: %w", err)
	}

	return records, nil
}

// Count returns the number of persisted records.
func (r *Reader) Count(ctx context.Context) (int64, error) {
	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.table)
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count log records: %w", err)
	}
	return count, nil
}
