package cache

import (
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrUnavailable is returned when a remote backend cannot be reached.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrBackend is returned for unrecoverable backend errors such as a
	// malformed connection URI.
	ErrBackend = errors.New("cache backend error")
)

// Remote backends ping up to connectAttempts times, doubling retryDelay
// between attempts, to ride out a server that is still starting.
const connectAttempts = 3

var retryDelay = 500 * time.Millisecond
