package batchlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultBatchSize is the number of records committed to the sink per batch.
	DefaultBatchSize = 50

	// WriterCategory is the category the service emits its own summary under.
	WriterCategory = "batchlog.writer"
)

// SummaryEvent tags the synthetic record committed after a graceful drain.
var SummaryEvent = EventID{Code: 2000, Name: "SessionSummary"}

// WriterService is the single background worker that drains the provider's
// hand-off queue, groups records into bounded batches, and commits each batch
// to the sink. It owns the sink exclusively while running.
//
// Lifecycle: Start launches the drain goroutine, Stop closes the queue for
// writes and awaits a full drain. Cancelling the context supplied to Start
// aborts the worker abruptly instead - buffered but uncommitted records are
// discarded and no summary is written.
type WriterService struct {
	provider *Provider
	sink     Sink

	batchSize     int
	commitTimeout time.Duration
	log           *slog.Logger

	mu        sync.Mutex
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}
	runErr    error
}

// ServiceOption configures a WriterService.
type ServiceOption func(*WriterService)

// WithBatchSize overrides the default batch size. Values below 1 are ignored.
func WithBatchSize(n int) ServiceOption {
	return func(s *WriterService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithCommitTimeout bounds each append+commit round against a slow or hung
// sink. Non-positive values are ignored.
func WithCommitTimeout(d time.Duration) ServiceOption {
	return func(s *WriterService) {
		if d > 0 {
			s.commitTimeout = d
		}
	}
}

// WithLogger sets the operational logger for the service's own diagnostics.
// The pipeline must never log through itself, so these go to slog.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *WriterService) {
		if log != nil {
			s.log = log
		}
	}
}

// NewWriterService wires a provider's queue to a sink.
func NewWriterService(provider *Provider, sink Sink, opts ...ServiceOption) (*WriterService, error) {
	if provider == nil {
		return nil, ErrProviderNil
	}
	if sink == nil {
		return nil, ErrSinkNil
	}

	s := &WriterService{
		provider:      provider,
		sink:          sink,
		batchSize:     DefaultBatchSize,
		commitTimeout: 5 * time.Second,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start launches the drain goroutine. The supplied context is the external
// cancellation signal: cancelling it aborts the worker without draining.
// Calling Start twice is a programming error and returns ErrAlreadyStarted.
func (s *WriterService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.started = true
	s.startedAt = time.Now()
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		err := s.run(runCtx)

		s.mu.Lock()
		s.runErr = err
		s.mu.Unlock()
	}()

	s.log.Info("log writer started",
		slog.Int("batch_size", s.batchSize))

	return nil
}

// Stop closes the hand-off queue for writes and awaits the drain goroutine.
// The context bounds the wait only - a full drain is still in flight if it
// expires. Stop surfaces any sink failure the drain loop hit; calling it
// before Start returns ErrNotStarted, calling it again after completion is
// safe and returns the same outcome.
func (s *WriterService) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	done := s.done
	cancel := s.cancel
	s.mu.Unlock()

	// Signal producers-are-finished; the drain loop commits what remains.
	s.provider.queue.close()

	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("awaiting log writer drain: %w", ctx.Err())
	}

	// Release the linked cancellation now that the goroutine has exited.
	cancel()

	s.mu.Lock()
	err := s.runErr
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.log.Info("log writer stopped")
	return nil
}

// Run returns a function suitable for errgroup: it starts the service, blocks
// until the context is cancelled, then performs a graceful stop bounded by
// shutdownTimeout. Under Run, cancelling ctx is the graceful-shutdown signal,
// not the abrupt abort - the drain goroutine is detached from ctx so buffered
// records are still committed, summary included, before Run returns.
func (s *WriterService) Run(ctx context.Context, shutdownTimeout time.Duration) func() error {
	return func() error {
		if err := s.Start(context.WithoutCancel(ctx)); err != nil {
			return err
		}

		<-ctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Stop(stopCtx)
	}
}

// run is the drain loop. It returns nil on graceful closure and on abrupt
// cancellation; only a sink failure produces an error.
func (s *WriterService) run(ctx context.Context) error {
	batch := make([]Record, 0, s.batchSize)
	var total int

	for {
		rec, err := s.provider.queue.pop(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) {
				return s.finish(ctx, batch, total)
			}

			s.logCancelled(len(batch), total)
			return nil
		}

		batch = append(batch, rec)
		if len(batch) < s.batchSize {
			continue
		}

		if err := s.commitBatch(ctx, batch); err != nil {
			if ctx.Err() != nil {
				s.logCancelled(len(batch), total)
				return nil
			}
			s.log.Error("log batch commit failed", slog.Any("error", err))
			return err
		}
		total += len(batch)
		batch = batch[:0]
	}
}

// logCancelled reports an abrupt abort: the in-flight partial batch is lost
// and no summary is written.
func (s *WriterService) logCancelled(discarded, committed int) {
	s.log.Warn("log writer cancelled",
		slog.Int("discarded", discarded),
		slog.Int("committed", committed))
}

// finish commits the trailing partial batch and the session summary after the
// queue closes gracefully.
func (s *WriterService) finish(ctx context.Context, batch []Record, total int) error {
	elapsed := time.Since(s.startedAt)

	if len(batch) > 0 {
		if err := s.commitBatch(ctx, batch); err != nil {
			if ctx.Err() != nil {
				s.logCancelled(len(batch), total)
				return nil
			}
			s.log.Error("trailing log batch commit failed", slog.Any("error", err))
			return err
		}
		total += len(batch)
	}

	summary := s.summaryRecord(total, elapsed)
	if err := s.commitBatch(ctx, []Record{summary}); err != nil {
		if ctx.Err() != nil {
			s.logCancelled(0, total)
			return nil
		}
		s.log.Error("summary record commit failed", slog.Any("error", err))
		return err
	}

	s.log.Info("log writer drained",
		slog.Int("records", total),
		slog.Duration("elapsed", elapsed))
	return nil
}

// commitBatch performs one append+commit round against the sink, bounded by
// the commit timeout so a hung sink cannot stall shutdown indefinitely.
func (s *WriterService) commitBatch(ctx context.Context, batch []Record) error {
	ctx, cancel := context.WithTimeout(ctx, s.commitTimeout)
	defer cancel()

	if err := s.sink.AppendBatch(ctx, batch); err != nil {
		return fmt.Errorf("append batch of %d: %w", len(batch), err)
	}
	if err := s.sink.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch of %d: %w", len(batch), err)
	}
	return nil
}

func (s *WriterService) summaryRecord(total int, elapsed time.Duration) Record {
	return Record{
		ID:       newRecordID(),
		Event:    SummaryEvent,
		Level:    LevelInfo,
		Category: WriterCategory,
		Message: fmt.Sprintf("Logging session completed. Total entries: %d. Duration: %dms.",
			total, elapsed.Milliseconds()),
		CreatedAt: time.Now().UTC(),
	}
}
