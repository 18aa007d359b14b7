// Package batchlog implements buffered, asynchronous log persistence:
// application code emits structured records into an in-memory hand-off queue,
// and a single background worker drains the queue in bounded batches into a
// durable sink, flushing everything that remains on graceful shutdown.
//
// The package is a pure utility with no infrastructure dependencies of its
// own; durable storage is reached through the pluggable Sink interface (see
// the pgsink and redisink packages for implementations).
//
// # Architecture
//
//		caller ──► Logger (category filter) ──► hand-off queue ──► WriterService ──► Sink
//
//	  - Logger – per-category emitter; filters on the category's minimum level,
//	    formats at emission time, never blocks the caller
//
//	  - Provider – creates and caches one Logger per category, owns the queue
//
//	  - WriterService – single drain goroutine; batches of up to BatchSize
//	    records are appended and committed to the sink as a unit
//
//	  - Sink – append/commit contract over the durable store
//
// # Usage
//
//	cfg, err := batchlog.LoadConfig()
//	if err != nil {
//	    // handle error
//	}
//
//	rules, err := cfg.Rules()
//	if err != nil {
//	    // handle error
//	}
//
//	provider := batchlog.NewProvider(rules)
//	svc, err := batchlog.NewWriterService(provider, sink,
//	    batchlog.WithBatchSize(cfg.BatchSize),
//	)
//	if err != nil {
//	    // handle error
//	}
//
//	if err := svc.Start(ctx); err != nil {
//	    // handle error
//	}
//
//	log := provider.Logger("orders")
//	log.Infof("order %s accepted", orderID)
//	log.Errorf(err, "payment declined for order %s", orderID)
//
//	// Graceful shutdown: close the queue, drain everything, commit a
//	// summary record.
//	if err := svc.Stop(shutdownCtx); err != nil {
//	    // sink failure during drain
//	}
//
// # Delivery semantics
//
// Producers are fire-and-forget: emission never blocks, never errors, and a
// record pushed after shutdown began is silently dropped. Graceful Stop
// guarantees every record accepted before it was called reaches the sink,
// followed by exactly one summary record. Cancelling the Start context is the
// abrupt path: the worker exits immediately, the in-flight partial batch is
// discarded, and no summary is written.
//
// The hand-off queue is unbounded on purpose - producers pay zero latency and
// are never subject to backpressure, at the cost of unbounded memory growth
// while the sink is unreachable. Monitor Provider.QueueDepth if that matters
// in your deployment.
//
// A sink failure terminates the drain loop without retrying the failed batch;
// it surfaces from Stop so the orchestrator can decide whether it is fatal.
package batchlog
