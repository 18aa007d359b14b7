package batchlog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// newRecordID issues the correlation ID stamped on every record.
func newRecordID() string {
	return uuid.New().String()
}

// Logger is the per-category emitter. It gatekeeps on the category's resolved
// minimum level, formats messages at emission time, and hands surviving
// records to the shared queue without ever blocking or failing the caller.
//
// Loggers are created by a Provider and are safe for concurrent use.
type Logger struct {
	category string
	min      Level
	queue    *recordQueue
}

// Category returns the category this logger emits under.
func (l *Logger) Category() string {
	return l.category
}

// Enabled reports whether records at the given level pass the category filter.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.min && level < LevelNone
}

// Log emits a single record. It is a no-op when the level is filtered. The
// record's timestamp is assigned here, at emission time; err, when non-nil, is
// rendered into the record's Error field. Logging is fire-and-forget: a push
// onto an already-closed queue is silently dropped.
func (l *Logger) Log(level Level, event EventID, err error, msg string) {
	if !l.Enabled(level) {
		return
	}

	rec := Record{
		ID:        newRecordID(),
		Event:     event,
		Level:     level,
		Category:  l.category,
		Message:   msg,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		rec.Error = err.Error()
	}

	l.queue.push(rec)
}

// Logf emits a record with a message formatted in the manner of fmt.Sprintf.
// Formatting happens only when the level is enabled.
func (l *Logger) Logf(level Level, event EventID, err error, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.Log(level, event, err, fmt.Sprintf(format, args...))
}

// Tracef emits a TRACE record with no event tag.
func (l *Logger) Tracef(format string, args ...any) {
	l.Logf(LevelTrace, EventID{}, nil, format, args...)
}

// Debugf emits a DEBUG record with no event tag.
func (l *Logger) Debugf(format string, args ...any) {
	l.Logf(LevelDebug, EventID{}, nil, format, args...)
}

// Infof emits an INFO record with no event tag.
func (l *Logger) Infof(format string, args ...any) {
	l.Logf(LevelInfo, EventID{}, nil, format, args...)
}

// Warnf emits a WARNING record with no event tag.
func (l *Logger) Warnf(format string, args ...any) {
	l.Logf(LevelWarning, EventID{}, nil, format, args...)
}

// Errorf emits an ERROR record carrying err, formatted like fmt.Sprintf.
func (l *Logger) Errorf(err error, format string, args ...any) {
	l.Logf(LevelError, EventID{}, err, format, args...)
}

// Criticalf emits a CRITICAL record carrying err, formatted like fmt.Sprintf.
func (l *Logger) Criticalf(err error, format string, args ...any) {
	l.Logf(LevelCritical, EventID{}, err, format, args...)
}
