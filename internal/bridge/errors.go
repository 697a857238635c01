package bridge

import "errors"

// Bridge-specific errors
var (
	ErrHostAttached  = errors.New("a host session is already attached")
	ErrUnknownEvent  = errors.New("unknown event type")
	ErrInvalidFrame  = errors.New("invalid frame")
	ErrListenFailed  = errors.New("failed to create listener")
	ErrServerStopped = errors.New("bridge server stopped")
)
