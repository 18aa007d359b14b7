// Package redisink appends batchlog records to a Redis Stream.
//
// It wraps the go-redis client and adds:
//
//   - Robust `Connect` which retries the connection using the supplied
//     configuration.
//   - `Sink`, an implementation of the batchlog.Sink contract: AppendBatch
//     stages records, Commit sends the batch as a single transactional
//     pipeline of XADD commands.
//   - Health-check helpers for liveness / readiness probes.
//
// Configuration is described by the `Config` struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	client, err := redisink.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error
//	}
//	defer client.Close()
//
//	sink := redisink.New(client, cfg)
//	svc, err := batchlog.NewWriterService(provider, sink)
//
// Stream entries carry the record fields flattened into field-value pairs;
// consumers (XREAD / consumer groups) can fan them out to long-term storage
// or analytics independently of the producing process.
package redisink
