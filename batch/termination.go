package batch

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/MasterOfBinary/batchiter/internal/lock"
)

// termination records how the stream ended. ended and closed are atomics so
// producers and consumers can take lock-free fast paths; cause is written
// before ended is set and never changes afterwards.
type termination struct {
	ended  atomic.Bool
	closed atomic.Bool
	cause  error

	// reported and cleaned are consumer-side flags, guarded by the lock.
	reported bool
	cleaned  bool
}

// Complete ends the stream. cause is nil for a successful end; otherwise it is
// returned to the consumer once every buffered batch has been delivered.
//
// Only the first call has an effect: it flushes the filling batch, so no item
// is lost, and wakes both sides. Later calls are logged and ignored, and
// Complete reports whether this call was the one that took effect.
func (it *Iterator[T]) Complete(cause error) bool {
	it.lk.Lock(lock.Producer)
	if it.term.ended.Load() {
		prev := it.term.cause
		it.lk.Unlock(lock.Producer)
		it.logIgnoredCompletion(prev, cause)
		return false
	}
	it.buf.flush()
	it.term.cause = cause
	it.term.ended.Store(true)
	it.lk.Signal(lock.Consumer)
	it.lk.Signal(lock.Producer)
	it.lk.Unlock(lock.Producer)

	if cause != nil {
		it.logger.Debug("iterator %s completed with error: %v", it.id, cause)
	}
	return true
}

func (it *Iterator[T]) logIgnoredCompletion(prev, cause error) {
	switch {
	case errors.Is(prev, ErrClosed):
		it.logger.Debug("iterator %s: completion after close ignored (cause: %v)", it.id, cause)
	case prev == nil && cause != nil:
		it.logger.Error("iterator %s: ignoring error completion after successful completion: %v", it.id, cause)
	default:
		it.logger.Warn("iterator %s: ignoring repeated completion (cause: %v, recorded: %v)", it.id, cause, prev)
	}
}

// Close abandons the stream. It may be called from any goroutine, any number
// of times. If the producer has not completed the iterator, ErrClosed becomes
// the recorded cause, a blocked producer is released and its further feeds
// fail. Buffered batches are dropped and draining calls report exhaustion.
func (it *Iterator[T]) Close() error {
	if !it.term.closed.CompareAndSwap(false, true) {
		return nil
	}
	it.lk.Lock(lock.Control)
	if !it.term.ended.Load() {
		it.term.cause = ErrClosed
		it.term.ended.Store(true)
	}
	it.buf.discard()
	it.lk.Signal(lock.Consumer)
	it.lk.Signal(lock.Producer)
	it.lk.Unlock(lock.Control)

	it.logger.Debug("iterator %s closed", it.id)
	return nil
}

// Ended reports whether the iterator was completed or closed. Buffered
// batches may still be waiting for the consumer.
func (it *Iterator[T]) Ended() bool {
	return it.term.ended.Load()
}

// Cause returns the recorded completion cause: nil while running or after a
// successful completion, ErrClosed if the consumer closed first.
func (it *Iterator[T]) Cause() error {
	if !it.term.ended.Load() {
		return nil
	}
	return it.term.cause
}

// misuse builds the error returned by feeds after completion. The caller has
// observed ended, so cause is stable.
func (it *Iterator[T]) misuse() error {
	return &MisuseError{Cause: it.term.cause}
}

// exhausted is called by a draining consumer that found the queue empty after
// the end of the stream. It returns the producer error on the first call only.
// The caller holds the lock as Consumer.
func (it *Iterator[T]) exhausted() error {
	if !it.term.cleaned {
		it.term.cleaned = true
		it.cleanup()
	}
	cause := it.term.cause
	if cause == nil || it.term.reported || errors.Is(cause, ErrClosed) {
		return nil
	}
	it.term.reported = true
	return surface(cause)
}

// cleanup hands the recycled slot back to the pool. Failures are logged and
// never replace the outcome of the stream.
func (it *Iterator[T]) cleanup() {
	b := it.buf.recycled
	it.buf.recycled = nil
	if b == nil || it.buf.pool == nil {
		return
	}
	if err := it.buf.pool.Put(b); err != nil {
		it.logger.Warn("iterator %s: returning buffer to pool: %v", it.id, err)
	}
}
