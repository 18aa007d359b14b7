package redisink

import "time"

type Config struct {
	ConnectionURL  string        `env:"LOGKIT_REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // ConnectionURL should be in the format "redis://:password@localhost:6379/0".
	RetryAttempts  int           `env:"LOGKIT_REDIS_RETRY_ATTEMPTS" envDefault:"3"`                      // RetryAttempts is the number of retry attempts to connect.
	RetryInterval  time.Duration `env:"LOGKIT_REDIS_RETRY_INTERVAL" envDefault:"5s"`                     // RetryInterval is the interval between retry attempts.
	ConnectTimeout time.Duration `env:"LOGKIT_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                   // ConnectTimeout bounds the whole connect-with-retry sequence.

	Stream string `env:"LOGKIT_REDIS_STREAM" envDefault:"logkit:records"` // Stream is the Redis Stream key receiving committed records.
	MaxLen int64  `env:"LOGKIT_REDIS_STREAM_MAXLEN" envDefault:"0"`       // MaxLen caps the stream length (approximate trim); 0 keeps it unbounded.
}
