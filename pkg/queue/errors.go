package queue

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueIsEmpty is returned by Remove when the queue holds no value.
	ErrQueueIsEmpty = errors.New("queue is empty")
	// ErrMessagesNotFound is returned by Remove when the value is not queued.
	ErrMessagesNotFound = errors.New("messages not found")
)

// InvariantError is the panic value raised when the interval layout and the
// classification of a value disagree. It signals a defect in this package,
// never a caller error.
type InvariantError struct {
	msg string
}

func (e *InvariantError) Error() string { return "queue invariant violated: " + e.msg }

func errorf(format string, a ...any) error {
	return &InvariantError{msg: fmt.Sprintf(format, a...)}
}
