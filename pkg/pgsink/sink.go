package pgsink

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/logkit/pkg/batchlog"
)

// Sink persists record batches to a PostgreSQL table, implementing the
// batchlog.Sink contract. AppendBatch stages rows inside an open transaction
// and Commit makes them durable as one unit.
//
// The sink is exclusively owned by the writer goroutine, so the in-flight
// transaction is held as plain state without locking.
type Sink struct {
	pool  *pgxpool.Pool
	table string
	tx    pgx.Tx
}

// New creates a sink writing to cfg.Table through the given pool.
func New(pool *pgxpool.Pool, cfg Config) *Sink {
	table := cfg.Table
	if table == "" {
		table = "log_entries"
	}
	return &Sink{pool: pool, table: table}
}

// AppendBatch inserts the records inside the current transaction, opening one
// if none is in flight. Rows are not visible to readers until Commit.
func (s *Sink) AppendBatch(ctx context.Context, records []batchlog.Record) error {
	if s.tx == nil {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin log batch tx: %w", err)
		}
		s.tx = tx
	}

	query := fmt.Sprintf(`INSERT INTO %s
		(record_id, event_code, event_name, level, category, message, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, s.table)

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query,
			rec.ID,
			rec.Event.Code,
			rec.Event.Name,
			rec.Level.String(),
			rec.Category,
			rec.Message,
			rec.Error,
			rec.CreatedAt,
		)
	}

	results := s.tx.SendBatch(ctx, batch)
	for range records {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			s.rollback(ctx)
			return fmt.Errorf("insert log record: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		s.rollback(ctx)
		return fmt.Errorf("close log batch results: %w", err)
	}

	return nil
}

// Commit finalizes the in-flight transaction. With nothing staged it is a
// no-op, keeping the append-then-commit contract forgiving for empty rounds.
func (s *Sink) Commit(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}

	tx := s.tx
	s.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit log batch: %w", err)
	}
	return nil
}

func (s *Sink) rollback(ctx context.Context) {
	if s.tx == nil {
		return
	}
	_ = s.tx.Rollback(ctx)
	s.tx = nil
}
