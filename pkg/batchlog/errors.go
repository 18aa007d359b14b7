package batchlog

import "errors"

var (
	// ErrInvalidLevel is returned when a level name cannot be parsed
	ErrInvalidLevel = errors.New("invalid log level")

	// ErrQueueClosed is returned by the queue reader once the queue is closed
	// and fully drained
	ErrQueueClosed = errors.New("hand-off queue is closed")

	// ErrAlreadyStarted is returned when Start is called on a running service
	ErrAlreadyStarted = errors.New("writer service already started")

	// ErrNotStarted is returned when Stop is called before Start
	ErrNotStarted = errors.New("writer service not started")

	// ErrSinkNil is returned when a nil sink is provided to the service
	ErrSinkNil = errors.New("sink cannot be nil")

	// ErrProviderNil is returned when a nil provider is provided to the service
	ErrProviderNil = errors.New("provider cannot be nil")

	// ErrParsingConfig is returned when environment variables cannot be parsed
	// into the config struct
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
)
