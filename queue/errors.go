package queue

import "errors"

var (
	// ErrUnavailable indicates the queue store could not be opened or
	// reached. Callers fall back to synchronous processing.
	ErrUnavailable = errors.New("queue unavailable")

	// ErrQueueRequired is returned when a queue is not provided.
	ErrQueueRequired = errors.New("queue required")

	// ErrHandlerRequired is returned when a job handler is not provided.
	ErrHandlerRequired = errors.New("job handler required")
)
