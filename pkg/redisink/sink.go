package redisink

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/logkit/pkg/batchlog"
)

// Sink appends record batches to a Redis Stream, implementing the
// batchlog.Sink contract. AppendBatch stages records in memory; Commit sends
// the whole batch as one transactional pipeline of XADD commands, so a batch
// either lands in the stream completely or not at all.
//
// Like every batchlog sink, it is owned by the single writer goroutine and
// keeps its staging buffer without locking.
type Sink struct {
	client  *redis.Client
	stream  string
	maxLen  int64
	pending []batchlog.Record
}

// New creates a sink appending to cfg.Stream through the given client.
func New(client *redis.Client, cfg Config) *Sink {
	stream := cfg.Stream
	if stream == "" {
		stream = "logkit:records"
	}
	return &Sink{client: client, stream: stream, maxLen: cfg.MaxLen}
}

// AppendBatch stages records for the next Commit.
func (s *Sink) AppendBatch(_ context.Context, records []batchlog.Record) error {
	s.pending = append(s.pending, records...)
	return nil
}

// Commit flushes staged records to the stream in one MULTI/EXEC pipeline.
func (s *Sink) Commit(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	for _, rec := range s.pending {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			MaxLen: s.maxLen,
			Approx: true,
			Values: streamValues(rec),
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		// The staged batch stays pending so the failure is observable; the
		// writer does not retry it by contract.
		return fmt.Errorf("commit log batch to stream %s: %w", s.stream, err)
	}

	s.pending = s.pending[:0]
	return nil
}

// streamValues flattens a record into XADD field-value pairs.
func streamValues(rec batchlog.Record) map[string]any {
	values := map[string]any{
		"record_id":  rec.ID,
		"level":      rec.Level.String(),
		"category":   rec.Category,
		"message":    rec.Message,
		"created_at": rec.CreatedAt.Format(time.RFC3339Nano),
	}
	if rec.Event != (batchlog.EventID{}) {
		values["event_code"] = strconv.Itoa(rec.Event.Code)
		values["event_name"] = rec.Event.Name
	}
	if rec.Error != "" {
		values["error"] = rec.Error
	}
	return values
}
