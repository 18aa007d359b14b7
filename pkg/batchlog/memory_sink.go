package batchlog

import (
	"context"
	"slices"
	"sync"
)

// MemorySink implements Sink in memory for testing and local development.
// Appended records only become visible through Records/Batches after Commit,
// mirroring the durability contract of real sinks.
type MemorySink struct {
	mu      sync.RWMutex
	pending []Record
	records []Record
	batches [][]Record

	// AppendErr and CommitErr, when set, are returned by the corresponding
	// method to exercise failure paths in tests.
	AppendErr error
	CommitErr error
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// AppendBatch stages records for the next Commit.
func (ms *MemorySink) AppendBatch(_ context.Context, records []Record) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.AppendErr != nil {
		return ms.AppendErr
	}
	ms.pending = append(ms.pending, records...)
	return nil
}

// Commit makes staged records durable as one batch.
func (ms *MemorySink) Commit(_ context.Context) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.CommitErr != nil {
		return ms.CommitErr
	}
	if len(ms.pending) == 0 {
		return nil
	}

	batch := slices.Clone(ms.pending)
	ms.batches = append(ms.batches, batch)
	ms.records = append(ms.records, batch...)
	ms.pending = ms.pending[:0]
	return nil
}

// Records returns all committed records in commit order.
func (ms *MemorySink) Records() []Record {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return slices.Clone(ms.records)
}

// Batches returns committed batches in commit order.
func (ms *MemorySink) Batches() [][]Record {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([][]Record, len(ms.batches))
	for i, b := range ms.batches {
		out[i] = slices.Clone(b)
	}
	return out
}
