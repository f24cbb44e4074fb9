package document

import "errors"

var (
	// ErrQueueFull is returned when a task cannot be queued.
	ErrQueueFull = errors.New("document: task queue full")

	// ErrClosed is returned when work is posted to a closed document.
	ErrClosed = errors.New("document: closed")
)
