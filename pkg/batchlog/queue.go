package batchlog

import (
	"context"
	"sync"
)

// recordQueue is the unbounded FIFO hand-off between emitters and the writer
// goroutine. Any number of goroutines may push; exactly one reader pops.
// Pushes never block - the queue grows without bound by design, trading memory
// growth under sink outages for zero producer latency.
type recordQueue struct {
	mu     sync.Mutex
	items  []Record
	closed bool

	// wake is buffered so a push never blocks on signaling the single reader.
	wake chan struct{}
}

func newRecordQueue() *recordQueue {
	return &recordQueue{
		wake: make(chan struct{}, 1),
	}
}

// push appends a record to the queue. It returns false when the queue has been
// closed; the record is silently discarded in that case.
func (q *recordQueue) push(r Record) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, r)
	q.mu.Unlock()

	q.signal()
	return true
}

// pop returns the next record, suspending while the queue is empty. It wakes
// on new data, on closure, or on context cancellation - whichever comes first.
// Cancellation outranks buffered data: an aborting reader must not keep
// draining the backlog. After closure, buffered records are still drained;
// once empty it returns ErrQueueClosed.
func (q *recordQueue) pop(ctx context.Context) (Record, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}

		q.mu.Lock()
		if len(q.items) > 0 {
			r := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return r, nil
		}
		if q.closed {
			q.mu.Unlock()
			return Record{}, ErrQueueClosed
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-ctx.Done():
			return Record{}, ctx.Err()
		}
	}
}

// close marks the queue complete for writes. Safe to call more than once.
func (q *recordQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.signal()
}

// len reports the number of buffered records.
func (q *recordQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *recordQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
