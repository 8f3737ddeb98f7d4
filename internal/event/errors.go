package event

import "errors"

// Sentinel errors for the event queue.
var (
	// ErrQueueClosed is returned when publishing to a closed queue.
	ErrQueueClosed = errors.New("event queue is closed")

	// ErrConsumerRunning is returned when a second consumer calls Run.
	ErrConsumerRunning = errors.New("event queue already has a consumer")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")
)
