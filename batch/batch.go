package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/MasterOfBinary/batchiter/internal/lock"
)

// Iterator is a channel-like queue between one producer and one consumer
// that delivers items in batches.
//
// The producer calls Feed and FeedBatch and finally Complete. The consumer
// pulls with NextBatch (or HasNext/Next) until it reports exhaustion, and may
// call Close at any time to abandon the stream.
//
// Batch boundaries follow the Config. A batch is sealed when it reaches
// MaxBatch; when MinWait has passed and it holds MinBatch items; when MaxWait
// has passed; or when the stream completes. Without any wait bound, a batch
// is sealed as soon as it holds an item, and a trickle of single items is
// merged into the last unread batch while it has room.
//
// A consumer blocked on an empty queue enforces the wait bounds itself: it
// wakes when a bound expires and seals the filling batch on the producer's
// behalf, so no timer goroutine is needed.
//
// Items are delivered in feed order. With the default lock, at most one
// goroutine may feed and one may consume at any time; use WithMutexLocker for
// several concurrent producers.
type Iterator[T any] struct {
	id     uuid.UUID
	lk     lock.Locker
	buf    buffer[T]
	gate   gate
	term   termination
	logger Logger
	stats  StatsCollector

	// taken counts the items of the head batch already returned by Next.
	taken int
}

// New creates an Iterator. With no options it uses DefaultConfig.
//
// Example:
//
//	it, err := batch.New[Row](
//		batch.WithMinBatch(64),
//		batch.WithMaxBatch(1024),
//		batch.WithMaxWait(5*time.Millisecond),
//	)
//
// New returns an error wrapping ErrInvalidConfig when a bound is invalid.
func New[T any](opts ...Option) (*Iterator[T], error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	var pool BatchPool[T]
	if o.pool != nil {
		p, ok := o.pool.(BatchPool[T])
		if !ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "pool type %T does not match iterator element type", o.pool)
		}
		pool = p
	}

	it := &Iterator[T]{
		id:     uuid.New(),
		logger: o.logger,
		stats:  o.stats,
	}
	if l, ok := it.logger.(iteratorLogger); ok {
		it.logger = l.withIterator(it.id.String())
	}

	c := o.config
	if c.MinWait < 0 {
		it.logger.Warn("iterator %s: negative min wait %v clamped to 0", it.id, c.MinWait)
		c.MinWait = 0
	}
	if c.MaxWait < 0 {
		it.logger.Warn("iterator %s: negative max wait %v clamped to 0", it.id, c.MaxWait)
		c.MaxWait = 0
	}
	c = fixConfig(c)

	if o.mutex {
		it.lk = lock.NewMutex()
	} else {
		it.lk = lock.NewSPSC()
	}
	it.buf.init(c, it.lk, it.stats, pool)
	it.gate.init(c)
	return it, nil
}

// ID returns the identifier the iterator uses in log records.
func (it *Iterator[T]) ID() uuid.UUID {
	return it.id
}

func (it *Iterator[T]) String() string {
	return fmt.Sprintf("batch.Iterator(%s)", it.id)
}

// Feed appends one item. It blocks while the backpressure gate is closed and
// returns a *MisuseError once the iterator is completed or closed.
func (it *Iterator[T]) Feed(item T) error {
	if it.term.ended.Load() {
		return it.misuse()
	}
	it.lk.Lock(lock.Producer)
	it.awaitCapacity()
	if it.term.ended.Load() {
		it.lk.Unlock(lock.Producer)
		return it.misuse()
	}
	it.buf.feedItem(item)
	it.lk.Unlock(lock.Producer)
	return nil
}

// FeedBatch appends every item of b, in order. The iterator takes ownership
// of b: chunks of at least MinBatch items are queued without copying, so the
// caller must not modify b afterwards. An empty b is a no-op.
//
// FeedBatch blocks and fails like Feed.
func (it *Iterator[T]) FeedBatch(b []T) error {
	if it.term.ended.Load() {
		return it.misuse()
	}
	if len(b) == 0 {
		return nil
	}
	it.lk.Lock(lock.Producer)
	it.awaitCapacity()
	if it.term.ended.Load() {
		it.lk.Unlock(lock.Producer)
		return it.misuse()
	}
	it.buf.feedBatch(b)
	it.lk.Unlock(lock.Producer)
	return nil
}

// NextBatch returns the next batch, blocking until one is ready or the stream
// ends. At the end it returns a nil batch; the first such call after an error
// completion also returns that error as a *ProducerError.
//
// The returned batch belongs to the caller. It may be handed back with
// Recycle or NextBatchRecycle once the caller is done with it.
func (it *Iterator[T]) NextBatch() ([]T, error) {
	it.lk.Lock(lock.Consumer)
	it.awaitReady()
	if it.buf.ready.len() == 0 {
		err := it.exhausted()
		it.lk.Unlock(lock.Consumer)
		return nil, err
	}
	b := it.buf.ready.popFront()
	size := it.taken + len(b)
	it.taken = 0
	it.lk.Signal(lock.Producer)
	it.lk.Unlock(lock.Consumer)

	it.stats.RecordBatchDelivered(size)
	return b, nil
}

// NextBatchRecycle hands old back to the iterator for reuse and returns the
// next batch. old may be nil.
func (it *Iterator[T]) NextBatchRecycle(old []T) ([]T, error) {
	if old != nil {
		it.Recycle(old)
	}
	return it.NextBatch()
}

// AppendNextBatch appends the next batch to dst and returns the extended
// slice and the number of items appended. The batch buffer itself is
// recycled. At the end of the stream it appends nothing and reports like
// NextBatch.
func (it *Iterator[T]) AppendNextBatch(dst []T) ([]T, int, error) {
	b, err := it.NextBatch()
	if len(b) == 0 {
		return dst, 0, err
	}
	dst = append(dst, b...)
	it.Recycle(b)
	return dst, len(b), nil
}

// HasNext blocks until an item is available or the stream ends. It returns
// false at the end; the first such call after an error completion also
// returns the error.
func (it *Iterator[T]) HasNext() (bool, error) {
	it.lk.Lock(lock.Consumer)
	it.awaitReady()
	if it.buf.ready.len() > 0 {
		it.lk.Unlock(lock.Consumer)
		return true, nil
	}
	err := it.exhausted()
	it.lk.Unlock(lock.Consumer)
	return false, err
}

// Next returns the next single item. The rest of its batch stays queued for
// the following calls. At the end it returns ErrExhausted, or the producer
// error on the first call after an error completion.
func (it *Iterator[T]) Next() (T, error) {
	var zero T
	it.lk.Lock(lock.Consumer)
	it.awaitReady()
	if it.buf.ready.len() == 0 {
		err := it.exhausted()
		it.lk.Unlock(lock.Consumer)
		if err == nil {
			err = ErrExhausted
		}
		return zero, err
	}
	b := it.buf.ready.popFront()
	item := b[0]
	b[0] = zero
	if len(b) > 1 {
		it.buf.ready.pushFront(b[1:])
		it.taken++
		it.lk.Signal(lock.Producer)
		it.lk.Unlock(lock.Consumer)
		return item, nil
	}

	size := it.taken + 1
	it.taken = 0
	clear(b[:cap(b)])
	kept := it.buf.recycle(b)
	it.lk.Signal(lock.Producer)
	it.lk.Unlock(lock.Consumer)

	if !kept {
		it.toPool(b)
	}
	it.stats.RecordBatchDelivered(size)
	return item, nil
}

// Recycle offers a batch returned by this iterator for reuse as a future
// filling batch. The caller must not touch b afterwards. It reports whether
// the iterator kept b; a rejected buffer goes to the BatchPool if there is
// one. Recycling is only a hint and never affects the items delivered.
func (it *Iterator[T]) Recycle(b []T) bool {
	if cap(b) == 0 || it.term.closed.Load() {
		it.stats.RecordRecycle(false)
		return false
	}
	clear(b[:cap(b)])
	it.lk.Lock(lock.Consumer)
	accepted := !it.term.cleaned && it.buf.recycle(b)
	it.lk.Unlock(lock.Consumer)
	it.stats.RecordRecycle(accepted)

	if !accepted {
		it.toPool(b)
	}
	return accepted
}

// toPool hands a buffer the iterator cannot keep to the BatchPool, if any.
func (it *Iterator[T]) toPool(b []T) {
	if it.buf.pool == nil {
		return
	}
	if err := it.buf.pool.Put(b[:0]); err != nil {
		it.logger.Warn("iterator %s: returning buffer to pool: %v", it.id, err)
	}
}

// awaitReady blocks the consumer until the queue is non-empty or the stream
// ended. The caller holds the lock as Consumer.
func (it *Iterator[T]) awaitReady() {
	if it.buf.ready.len() > 0 || it.term.ended.Load() {
		return
	}
	start := time.Now()
	if it.buf.rd.needsStartTime {
		it.awaitReadyTimed()
	} else {
		for it.buf.ready.len() == 0 && !it.term.ended.Load() {
			it.lk.Await(lock.Consumer)
		}
	}
	it.stats.RecordConsumerWait(time.Since(start))
}

// awaitReadyTimed waits under a wait policy. The filling batch's start
// timestamp, set here if the producer has not started one, anchors both
// bounds. Until MinWait has passed the consumer only sleeps; between MinWait
// and MaxWait it seals the filling batch itself as soon as it is ready; past
// MaxWait with nothing to seal it waits for the producer without a bound.
func (it *Iterator[T]) awaitReadyTimed() {
	b := &it.buf
	for b.ready.len() == 0 && !it.term.ended.Load() {
		now := b.clock()
		if b.start == unsetStart {
			b.start = now
		}
		if len(b.filling) > 0 && b.rd.ready(len(b.filling), b.start, func() int64 { return now }) {
			b.seal(true)
			return
		}
		elapsed := now - b.start
		switch {
		case elapsed <= b.rd.minWait:
			// ready requires strictly more than MinWait.
			it.lk.AwaitTimeout(lock.Consumer, time.Duration(b.rd.minWait-elapsed+1))
		case elapsed < b.rd.maxWait:
			it.lk.AwaitTimeout(lock.Consumer, time.Duration(b.rd.maxWait-elapsed))
		default:
			it.lk.Await(lock.Consumer)
		}
	}
}
