package batchlog_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/logkit/pkg/batchlog"
)

// MockSink is a testify mock over the Sink contract for failure-path tests.
type MockSink struct {
	mock.Mock
}

func (m *MockSink) AppendBatch(ctx context.Context, records []batchlog.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockSink) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newRunningService(t *testing.T, sink batchlog.Sink, opts ...batchlog.ServiceOption) (*batchlog.Provider, *batchlog.WriterService) {
	t.Helper()

	p := batchlog.NewProvider(map[string]batchlog.Level{
		batchlog.DefaultCategory: batchlog.LevelInfo,
	})
	svc, err := batchlog.NewWriterService(p, sink, opts...)
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background()))
	return p, svc
}

func TestNewWriterService_Validation(t *testing.T) {
	t.Parallel()

	p := batchlog.NewProvider(nil)

	_, err := batchlog.NewWriterService(nil, batchlog.NewMemorySink())
	assert.ErrorIs(t, err, batchlog.ErrProviderNil)

	_, err = batchlog.NewWriterService(p, nil)
	assert.ErrorIs(t, err, batchlog.ErrSinkNil)
}

func TestWriterService_LifecycleMisuse(t *testing.T) {
	t.Parallel()

	p := batchlog.NewProvider(nil)
	svc, err := batchlog.NewWriterService(p, batchlog.NewMemorySink())
	require.NoError(t, err)

	// Stop before Start is a programming error, reported synchronously.
	assert.ErrorIs(t, svc.Stop(context.Background()), batchlog.ErrNotStarted)

	require.NoError(t, svc.Start(context.Background()))
	assert.ErrorIs(t, svc.Start(context.Background()), batchlog.ErrAlreadyStarted)

	require.NoError(t, svc.Stop(context.Background()))
	// Awaiting an already-finished drain is safe and keeps the same outcome.
	assert.NoError(t, svc.Stop(context.Background()))
}

func TestWriterService_GracefulDrainCommitsEverything(t *testing.T) {
	t.Parallel()

	sink := batchlog.NewMemorySink()
	p, svc := newRunningService(t, sink)

	log := p.Logger("orders")
	for i := range 7 {
		log.Infof("record %d", i)
	}

	require.NoError(t, svc.Stop(context.Background()))

	records := sink.Records()
	require.Len(t, records, 8, "7 records plus the summary")
	for i, rec := range records[:7] {
		assert.Equal(t, fmt.Sprintf("record %d", i), rec.Message)
	}
	assert.Equal(t, batchlog.WriterCategory, records[7].Category)
}

func TestWriterService_BatchBoundaries(t *testing.T) {
	t.Parallel()

	// 120 records at batch size 50 must land as 50+50+20 commits, followed by
	// the summary committed as its own batch.
	sink := batchlog.NewMemorySink()
	p, svc := newRunningService(t, sink)

	log := p.Logger("bulk")
	for i := range 120 {
		log.Infof("record %d", i)
	}

	require.NoError(t, svc.Stop(context.Background()))

	batches := sink.Batches()
	require.Len(t, batches, 4)
	assert.Len(t, batches[0], 50)
	assert.Len(t, batches[1], 50)
	assert.Len(t, batches[2], 20)
	assert.Len(t, batches[3], 1)
	assert.Equal(t, batchlog.SummaryEvent, batches[3][0].Event)
}

func TestWriterService_SummaryRecord(t *testing.T) {
	t.Parallel()

	sink := batchlog.NewMemorySink()
	p, svc := newRunningService(t, sink)

	log := p.Logger("orders")
	for range 3 {
		log.Infof("hello")
	}

	require.NoError(t, svc.Stop(context.Background()))

	records := sink.Records()
	require.Len(t, records, 4)

	summary := records[3]
	assert.Equal(t, batchlog.WriterCategory, summary.Category)
	assert.Equal(t, batchlog.SummaryEvent, summary.Event)
	assert.Equal(t, batchlog.LevelInfo, summary.Level)
	assert.Regexp(t,
		regexp.MustCompile(`^Logging session completed\. Total entries: 3\. Duration: \d+ms\.$`),
		summary.Message)
}

func TestWriterService_StopWithoutRecordsStillWritesSummary(t *testing.T) {
	t.Parallel()

	sink := batchlog.NewMemorySink()
	_, svc := newRunningService(t, sink)

	require.NoError(t, svc.Stop(context.Background()))

	records := sink.Records()
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Message, "Total entries: 0.")
}

func TestWriterService_CancellationDiscardsInFlightBatch(t *testing.T) {
	t.Parallel()

	sink := batchlog.NewMemorySink()
	p := batchlog.NewProvider(nil)
	svc, err := batchlog.NewWriterService(p, sink)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, svc.Start(ctx))

	log := p.Logger("orders")
	for i := range 10 {
		log.Infof("record %d", i)
	}

	// Let the worker pull the records into its sub-batch-size batch, then
	// pull the plug: cancellation is abrupt, not graceful.
	time.Sleep(50 * time.Millisecond)
	cancel()

	require.NoError(t, svc.Stop(context.Background()))

	// Zero commits: the partial batch is lost and no summary is written.
	assert.Empty(t, sink.Records())
	assert.Empty(t, sink.Batches())
}

func TestWriterService_CancellationOutranksBufferedBacklog(t *testing.T) {
	t.Parallel()

	sink := batchlog.NewMemorySink()
	p := batchlog.NewProvider(nil)
	svc, err := batchlog.NewWriterService(p, sink, batchlog.WithBatchSize(2))
	require.NoError(t, err)

	log := p.Logger("orders")
	for i := range 6 {
		log.Infof("record %d", i)
	}

	// The abort signal fires before the worker ever runs: the backlog must
	// not be drained into the sink batch by batch.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, svc.Start(ctx))

	require.NoError(t, svc.Stop(context.Background()))

	assert.Empty(t, sink.Records())
	assert.Empty(t, sink.Batches())
}

func TestWriterService_RunDrainsGracefullyOnContextCancel(t *testing.T) {
	t.Parallel()

	sink := batchlog.NewMemorySink()
	p := batchlog.NewProvider(nil)
	svc, err := batchlog.NewWriterService(p, sink)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- svc.Run(ctx, time.Second)()
	}()

	p.Logger("orders").Infof("one")

	// Under Run, cancelling the group context means "shut down cleanly", so
	// the buffered record and the summary must still reach the sink.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	records := sink.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "one", records[0].Message)
	assert.Equal(t, batchlog.WriterCategory, records[1].Category)
}

func TestWriterService_SinkFailureSurfacesOnStop(t *testing.T) {
	t.Parallel()

	boom := errors.New("sink unreachable")
	sink := batchlog.NewMemorySink()
	sink.CommitErr = boom

	p, svc := newRunningService(t, sink, batchlog.WithBatchSize(2))

	log := p.Logger("orders")
	log.Infof("one")
	log.Infof("two")

	err := svc.Stop(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// The failed batch is not re-queued and nothing was committed.
	assert.Empty(t, sink.Records())

	// Repeated Stop keeps reporting the same outcome.
	assert.ErrorIs(t, svc.Stop(context.Background()), boom)
}

func TestWriterService_AppendFailureSurfacesOnStop(t *testing.T) {
	t.Parallel()

	boom := errors.New("write rejected")
	sink := new(MockSink)
	sink.On("AppendBatch", mock.Anything, mock.Anything).Return(boom)

	p := batchlog.NewProvider(nil)
	svc, err := batchlog.NewWriterService(p, sink, batchlog.WithBatchSize(1))
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background()))

	p.Logger("orders").Infof("doomed")

	err = svc.Stop(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	sink.AssertCalled(t, "AppendBatch", mock.Anything, mock.Anything)
	sink.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestWriterService_AppendsBeforeCommit(t *testing.T) {
	t.Parallel()

	sink := new(MockSink)
	sink.On("AppendBatch", mock.Anything, mock.Anything).Return(nil)
	sink.On("Commit", mock.Anything).Return(nil)

	p := batchlog.NewProvider(nil)
	svc, err := batchlog.NewWriterService(p, sink, batchlog.WithBatchSize(2))
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background()))

	log := p.Logger("orders")
	log.Infof("one")
	log.Infof("two")

	require.NoError(t, svc.Stop(context.Background()))

	// One full batch plus the summary batch, each appended then committed.
	sink.AssertNumberOfCalls(t, "AppendBatch", 2)
	sink.AssertNumberOfCalls(t, "Commit", 2)
}

func TestWriterService_ConcurrentProducersRoundTrip(t *testing.T) {
	t.Parallel()

	sink := batchlog.NewMemorySink()
	p, svc := newRunningService(t, sink)

	const producers = 4
	const perProducer = 25

	var wg sync.WaitGroup
	for i := range producers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log := p.Logger(fmt.Sprintf("producer-%d", i))
			for j := range perProducer {
				log.Logf(batchlog.LevelInfo, batchlog.EventID{Code: j}, nil, "record %d", j)
			}
		}(i)
	}
	wg.Wait()

	require.NoError(t, svc.Stop(context.Background()))

	records := sink.Records()
	require.Len(t, records, producers*perProducer+1, "no loss, no duplication, plus summary")

	// Order across producers is unconstrained, but each producer's own
	// sequence must be preserved in the sink.
	lastSeen := make(map[string]int)
	counts := make(map[string]int)
	for _, rec := range records[:producers*perProducer] {
		if n, ok := lastSeen[rec.Category]; ok {
			assert.Greater(t, rec.Event.Code, n)
		}
		lastSeen[rec.Category] = rec.Event.Code
		counts[rec.Category]++
	}
	for i := range producers {
		assert.Equal(t, perProducer, counts[fmt.Sprintf("producer-%d", i)])
	}
}

func TestWriterService_RecordsEmittedBeforeStartAreDrained(t *testing.T) {
	t.Parallel()

	sink := batchlog.NewMemorySink()
	p := batchlog.NewProvider(nil)
	svc, err := batchlog.NewWriterService(p, sink)
	require.NoError(t, err)

	// The queue buffers independently of the worker lifecycle.
	p.Logger("early").Infof("before start")

	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Stop(context.Background()))

	records := sink.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "before start", records[0].Message)
}
