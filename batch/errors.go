package batch

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfig is wrapped by every configuration error returned from
	// New and Config.Validate.
	ErrInvalidConfig = errors.New("batch: invalid configuration")

	// ErrClosed is the completion cause recorded when the consumer closes an
	// iterator before the producer completes it.
	ErrClosed = errors.New("batch: iterator closed")

	// ErrFeedAfterComplete is matched by the MisuseError returned from Feed
	// and FeedBatch once the iterator has been completed or closed.
	ErrFeedAfterComplete = errors.New("batch: feed after completion")

	// ErrExhausted is returned by Next when no items remain.
	ErrExhausted = errors.New("batch: iterator exhausted")
)

// ProducerError carries the cause a producer passed to Complete. It is
// returned to the consumer exactly once, by the first draining call after all
// buffered batches have been delivered.
type ProducerError struct {
	Err error
}

func (e *ProducerError) Error() string {
	return fmt.Sprintf("producer error: %v", e.Err)
}

func (e *ProducerError) Unwrap() error {
	return e.Err
}

// MisuseError is returned to a producer that feeds an iterator after it was
// completed or closed. It matches ErrFeedAfterComplete and, when there is one,
// the recorded completion cause.
type MisuseError struct {
	Cause error
}

func (e *MisuseError) Error() string {
	if e.Cause == nil {
		return ErrFeedAfterComplete.Error()
	}
	return fmt.Sprintf("%v: %v", ErrFeedAfterComplete, e.Cause)
}

func (e *MisuseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrFeedAfterComplete}
	}
	return []error{ErrFeedAfterComplete, e.Cause}
}

// surface converts a completion cause into the error handed to the consumer.
func surface(cause error) error {
	var pe *ProducerError
	if errors.As(cause, &pe) {
		return cause
	}
	return &ProducerError{Err: errors.WithStack(cause)}
}
