package pgsink

import "time"

type Config struct {
	ConnectionString string        `env:"LOGKIT_PG_CONN_URL,required"`                   // ConnectionString is the connection string to the database.
	MaxOpenConns     int32         `env:"LOGKIT_PG_MAX_OPEN_CONNS" envDefault:"4"`       // MaxOpenConns is the maximum number of open connections. The sink itself uses one at a time.
	MaxIdleConns     int32         `env:"LOGKIT_PG_MAX_IDLE_CONNS" envDefault:"1"`       // MaxIdleConns is the maximum number of idle connections.
	MaxConnIdleTime  time.Duration `env:"LOGKIT_PG_MAX_CONN_IDLE_TIME" envDefault:"10m"` // MaxConnIdleTime is the maximum amount of time a connection may be idle to be reused.
	MaxConnLifetime  time.Duration `env:"LOGKIT_PG_MAX_CONN_LIFETIME" envDefault:"30m"`  // MaxConnLifetime is the maximum amount of time a connection may be reused.

	RetryAttempts int           `env:"LOGKIT_PG_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of retry attempts to connect to the database.
	RetryInterval time.Duration `env:"LOGKIT_PG_RETRY_INTERVAL" envDefault:"5s"` // RetryInterval is the interval between retry attempts.

	Table string `env:"LOGKIT_PG_TABLE" envDefault:"log_entries"` // Table is the table receiving committed records.
}
