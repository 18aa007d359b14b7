package redisink

import "errors"

var (
	// ErrFailedToParseConnString is returned when the Redis URL is malformed
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")

	// ErrRedisNotReady is returned when all connection attempts fail
	ErrRedisNotReady = errors.New("redis server is not ready")

	// ErrHealthcheckFailed is returned when the connection stops responding
	ErrHealthcheckFailed = errors.New("healthcheck failed, connection is not available")
)
