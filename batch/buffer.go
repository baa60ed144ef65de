package batch

import "github.com/MasterOfBinary/batchiter/internal/lock"

// BatchPool is a shared allocator for batch buffers, typically spanning many
// iterators. An Iterator takes buffers from it when its own recycled slot is
// empty and returns surplus buffers to it.
type BatchPool[T any] interface {
	// Get returns an empty buffer with at least the given capacity.
	Get(capacity int) []T

	// Put takes back a cleared, empty buffer.
	Put(b []T) error
}

// buffer holds the filling batch and the queue of sealed batches. Every
// method must be called with the iterator's lock held.
type buffer[T any] struct {
	rd    readiness
	lk    lock.Locker
	stats StatsCollector
	pool  BatchPool[T]
	clock func() int64

	ready   fifo[T]
	filling []T
	start   int64

	// capacity sizes the next filling batch. It moves toward recently sealed
	// sizes and stays within [min(minCapacity, maxBatch), maxBatch].
	capacity int
	recycled []T
}

func (b *buffer[T]) init(c Config, lk lock.Locker, stats StatsCollector, pool BatchPool[T]) {
	b.rd = newReadiness(c)
	b.lk = lk
	b.stats = stats
	b.pool = pool
	b.clock = nanotime
	b.start = unsetStart
	b.capacity = b.floor()
}

func (b *buffer[T]) floor() int {
	return min(minCapacity, b.rd.maxBatch)
}

// feedItem appends x to the stream.
func (b *buffer[T]) feedItem(x T) {
	if b.filling == nil {
		// Trickling input tops off the last sealed batch instead of starting
		// a new one.
		if b.ready.appendBack(x, b.rd.maxBatch) {
			return
		}
		b.startFilling(1)
	}
	b.filling = append(b.filling, x)
	if b.fillingReady() {
		b.seal(false)
	}
}

// feedBatch appends src to the stream and takes ownership of it.
func (b *buffer[T]) feedBatch(src []T) {
	if len(src) == 0 {
		return
	}
	if len(src) >= b.rd.minBatch {
		b.flush()
		for len(src) > b.rd.maxBatch {
			b.enqueue(src[:b.rd.maxBatch:b.rd.maxBatch])
			src = src[b.rd.maxBatch:]
		}
		b.enqueue(src[:len(src):len(src)])
		return
	}

	if b.filling == nil {
		src = src[b.ready.topOff(src, b.rd.maxBatch):]
		if len(src) == 0 {
			return
		}
		b.startFilling(len(src))
	}
	for len(src) > 0 {
		k := min(b.rd.maxBatch-len(b.filling), len(src))
		b.filling = append(b.filling, src[:k]...)
		src = src[k:]
		if b.fillingReady() {
			b.seal(false)
			if len(src) > 0 {
				b.startFilling(len(src))
			}
		}
	}
}

// startFilling installs an empty filling batch, preferring the recycled slot,
// then the pool, then a fresh allocation.
func (b *buffer[T]) startFilling(need int) {
	size := min(max(b.capacity, need), b.rd.maxBatch)
	switch {
	case b.recycled != nil:
		b.filling = b.recycled[:0]
		b.recycled = nil
	case b.pool != nil:
		b.filling = b.pool.Get(size)[:0]
	default:
		b.filling = make([]T, 0, size)
	}
	if b.rd.needsStartTime && b.start == unsetStart {
		b.start = b.clock()
	}
}

func (b *buffer[T]) fillingReady() bool {
	return b.rd.ready(len(b.filling), b.start, b.clock)
}

// seal moves the filling batch to the ready queue. A producer-side seal
// signals the consumer; a consumer sealing on its own behalf does not need to.
func (b *buffer[T]) seal(byConsumer bool) {
	n := len(b.filling)
	b.ready.pushBack(b.filling)
	b.filling = nil
	b.start = unsetStart
	b.adapt(n)
	b.stats.RecordBatchSealed(n, byConsumer)
	if !byConsumer {
		b.lk.Signal(lock.Consumer)
	}
}

// flush seals the filling batch if it holds anything.
func (b *buffer[T]) flush() {
	if len(b.filling) > 0 {
		b.seal(false)
	}
}

// enqueue queues an already formed batch without copying it.
func (b *buffer[T]) enqueue(batch []T) {
	b.ready.pushBack(batch)
	if b.filling == nil {
		b.start = unsetStart
	}
	b.stats.RecordBatchSealed(len(batch), false)
	b.lk.Signal(lock.Consumer)
}

// adapt moves the capacity estimate toward the size of a sealed batch: up by
// half when the batch outgrew it, down by a third when it used under half.
func (b *buffer[T]) adapt(sealed int) {
	switch {
	case sealed > b.capacity:
		b.capacity = min(b.capacity+b.capacity/2, b.rd.maxBatch)
	case sealed < b.capacity/2:
		b.capacity = max(b.capacity*2/3, b.floor())
	}
}

// recycle stores a cleared buffer in the recycled slot. It reports false when
// the slot is taken.
func (b *buffer[T]) recycle(batch []T) bool {
	if b.recycled != nil || cap(batch) == 0 {
		return false
	}
	b.recycled = batch[:0]
	return true
}

// discard drops everything buffered.
func (b *buffer[T]) discard() {
	b.ready.reset()
	b.filling = nil
	b.start = unsetStart
}
