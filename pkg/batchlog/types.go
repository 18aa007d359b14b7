package batchlog

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Level is the ordered severity of a log record. Records below the minimum
// level resolved for their category are dropped before entering the queue.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
	// LevelNone disables a category entirely; no record satisfies it.
	LevelNone
)

// DefaultCategory is the sentinel filter key used when a category has no
// explicit rule of its own.
const DefaultCategory = "Default"

var levelNames = map[Level]string{
	LevelTrace:    "trace",
	LevelDebug:    "debug",
	LevelInfo:     "info",
	LevelWarning:  "warning",
	LevelError:    "error",
	LevelCritical: "critical",
	LevelNone:     "none",
}

// String returns the lowercase name of the level, or "unknown" for values
// outside the defined range.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLevel converts a level name to its Level value. Matching is
// case-insensitive and accepts the common aliases "warn" and "information".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "information":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	case "none":
		return LevelNone, nil
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// UnmarshalText implements encoding.TextUnmarshaler so Level values can be
// populated from environment variables via github.com/caarlos0/env.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// EventID is an opaque correlation tag attached to a record. The zero value
// means "no event".
type EventID struct {
	Code int    `json:"code"`
	Name string `json:"name,omitempty"`
}

// Record is a single structured log entry. Records are immutable once
// constructed by a Logger; CreatedAt reflects emission time, not the time the
// record was committed to a sink.
type Record struct {
	ID        string    `json:"id"`
	Event     EventID   `json:"event"`
	Level     Level     `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink receives committed batches of records. AppendBatch stages the records
// and Commit makes them durable; a batch only counts as persisted after both
// succeed. A Sink is owned exclusively by the single WriterService goroutine,
// so implementations do not need internal locking for these two methods.
type Sink interface {
	AppendBatch(ctx context.Context, records []Record) error
	Commit(ctx context.Context) error
}
