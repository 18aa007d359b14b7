// Package pgsink persists batchlog records to PostgreSQL via pgx.
//
// The package provides:
//
//   - Robust `Connect` which retries the connection using the supplied
//     configuration.
//   - `Sink`, a transactional implementation of the batchlog.Sink contract:
//     AppendBatch stages rows inside an open transaction, Commit makes the
//     whole batch durable atomically.
//   - `Reader` for inspecting persisted records in storage order.
//   - `Migrate` applying the embedded goose migrations on startup.
//   - A health-check closure for liveness / readiness probes.
//
// Configuration is described by the `Config` struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	pool, err := pgsink.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error
//	}
//	defer pool.Close()
//
//	if err := pgsink.Migrate(ctx, pool, slog.Default()); err != nil {
//	    // handle error
//	}
//
//	sink := pgsink.New(pool, cfg)
//	svc, err := batchlog.NewWriterService(provider, sink)
//
// The Sink assumes the single-writer ownership model of batchlog.WriterService
// and holds its in-flight transaction without locking.
package pgsink
