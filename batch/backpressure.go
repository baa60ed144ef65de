package batch

import (
	"sync/atomic"
	"time"

	"github.com/MasterOfBinary/batchiter/internal/lock"
)

// gate holds the producer back while too much sealed data waits for the
// consumer. Bounds are atomics so they can be changed at any time; they are
// compared against the queue under the iterator's lock.
type gate struct {
	maxBatches atomic.Int64
	maxItems   atomic.Int64
}

func (g *gate) init(c Config) {
	g.maxBatches.Store(int64(c.MaxReadyBatches))
	g.maxItems.Store(int64(c.MaxReadyItems))
}

// full reports whether the queue has reached either bound.
func (g *gate) full(batches, items int) bool {
	if n := g.maxBatches.Load(); n > 0 && int64(batches) >= n {
		return true
	}
	if n := g.maxItems.Load(); n > 0 && int64(items) >= n {
		return true
	}
	return false
}

// awaitCapacity blocks the producer until the gate opens or the iterator
// ends. The caller holds the lock as Producer.
func (it *Iterator[T]) awaitCapacity() {
	q := &it.buf.ready
	if it.term.ended.Load() || !it.gate.full(q.len(), q.items) {
		return
	}
	start := time.Now()
	for !it.term.ended.Load() && it.gate.full(q.len(), q.items) {
		it.lk.Await(lock.Producer)
	}
	it.stats.RecordProducerBlocked(time.Since(start))
}

// SetMaxReadyBatches changes the bound on sealed batches waiting for the
// consumer. Zero or less removes it. A blocked producer re-checks the gate
// immediately.
func (it *Iterator[T]) SetMaxReadyBatches(n int) {
	it.gate.maxBatches.Store(int64(n))
	it.wakeProducer()
}

// SetMaxReadyItems changes the bound on items in sealed batches waiting for
// the consumer. Zero or less removes it. A blocked producer re-checks the gate
// immediately.
func (it *Iterator[T]) SetMaxReadyItems(n int) {
	it.gate.maxItems.Store(int64(n))
	it.wakeProducer()
}

func (it *Iterator[T]) wakeProducer() {
	it.lk.Lock(lock.Control)
	it.lk.Signal(lock.Producer)
	it.lk.Unlock(lock.Control)
}
