package batch

import (
	"sync"
	"sync/atomic"
	"time"
)

// StatsCollector defines the interface for collecting metrics from an Iterator.
// Implementations can store metrics in memory, send to monitoring systems, or export to various formats.
// The StatsCollector is optional - if not provided, no statistics are collected.
//
// Record methods may be called while the iterator holds its lock, so they
// must be cheap and must not call back into the iterator.
type StatsCollector interface {
	// RecordBatchSealed is called when a batch moves into the ready queue.
	// byConsumer is true when a waiting consumer sealed it after a wait bound
	// expired.
	RecordBatchSealed(size int, byConsumer bool)

	// RecordBatchDelivered is called once per delivered batch with its size at
	// delivery, which includes items merged in after it was sealed. A batch
	// consumed item by item through Next is recorded when its last item is
	// taken.
	RecordBatchDelivered(size int)

	// RecordProducerBlocked is called after the backpressure gate held the
	// producer for d.
	RecordProducerBlocked(d time.Duration)

	// RecordConsumerWait is called after the consumer waited d for a batch.
	RecordConsumerWait(d time.Duration)

	// RecordRecycle is called for every buffer handed back by the consumer.
	RecordRecycle(accepted bool)

	// GetStats returns a snapshot of the current statistics.
	GetStats() Stats
}

// Stats holds aggregated statistics about an Iterator.
type Stats struct {
	// BatchesSealed is the total number of batches moved into the ready queue.
	BatchesSealed uint64

	// ConsumerSealed is how many of BatchesSealed were sealed by a waiting consumer.
	ConsumerSealed uint64

	// BatchesDelivered is the total number of batches taken by the consumer.
	BatchesDelivered uint64

	// ItemsDelivered is the total number of items taken by the consumer.
	ItemsDelivered uint64

	// ProducerBlocks is how many times the backpressure gate held the producer.
	ProducerBlocks uint64

	// ProducerBlockedTime is the cumulative time the producer was held.
	ProducerBlockedTime time.Duration

	// ConsumerWaits is how many times the consumer blocked for a batch.
	ConsumerWaits uint64

	// ConsumerWaitTime is the cumulative time the consumer blocked.
	ConsumerWaitTime time.Duration

	// RecyclesAccepted and RecyclesRejected count buffers handed back by the consumer.
	RecyclesAccepted uint64
	RecyclesRejected uint64

	// MinBatchSize is the smallest delivered batch.
	MinBatchSize int

	// MaxBatchSize is the largest delivered batch.
	MaxBatchSize int

	// StartTime is when statistics collection began.
	StartTime time.Time

	// LastUpdateTime is when statistics were last updated.
	LastUpdateTime time.Time
}

// NoOpStatsCollector is a stats collector that discards all metrics.
// It implements the StatsCollector interface but performs no operations.
// This is the default stats collector when none is specified.
type NoOpStatsCollector struct{}

// RecordBatchSealed implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatchSealed(size int, byConsumer bool) {}

// RecordBatchDelivered implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatchDelivered(size int) {}

// RecordProducerBlocked implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordProducerBlocked(d time.Duration) {}

// RecordConsumerWait implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordConsumerWait(d time.Duration) {}

// RecordRecycle implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordRecycle(accepted bool) {}

// GetStats implements the StatsCollector interface.
func (n *NoOpStatsCollector) GetStats() Stats {
	return Stats{}
}

// BasicStatsCollector is a simple in-memory implementation of StatsCollector.
// Counters are updated atomically; batch size extremes and durations are
// kept under a mutex. All operations are thread-safe.
type BasicStatsCollector struct {
	mu    sync.Mutex
	stats Stats

	batchesSealed    atomic.Uint64
	consumerSealed   atomic.Uint64
	batchesDelivered atomic.Uint64
	itemsDelivered   atomic.Uint64
	recyclesAccepted atomic.Uint64
	recyclesRejected atomic.Uint64
}

// NewBasicStatsCollector creates a new BasicStatsCollector.
func NewBasicStatsCollector() *BasicStatsCollector {
	now := time.Now()
	return &BasicStatsCollector{
		stats: Stats{
			StartTime:      now,
			LastUpdateTime: now,
		},
	}
}

// RecordBatchSealed implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchSealed(size int, byConsumer bool) {
	b.batchesSealed.Add(1)
	if byConsumer {
		b.consumerSealed.Add(1)
	}
}

// RecordBatchDelivered implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatchDelivered(size int) {
	b.batchesDelivered.Add(1)
	b.itemsDelivered.Add(uint64(size))

	b.mu.Lock()
	defer b.mu.Unlock()

	if size < b.stats.MinBatchSize || b.stats.MinBatchSize == 0 {
		b.stats.MinBatchSize = size
	}
	if size > b.stats.MaxBatchSize {
		b.stats.MaxBatchSize = size
	}
	b.stats.LastUpdateTime = time.Now()
}

// RecordProducerBlocked implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordProducerBlocked(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.ProducerBlocks++
	b.stats.ProducerBlockedTime += d
	b.stats.LastUpdateTime = time.Now()
}

// RecordConsumerWait implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordConsumerWait(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.ConsumerWaits++
	b.stats.ConsumerWaitTime += d
	b.stats.LastUpdateTime = time.Now()
}

// RecordRecycle implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordRecycle(accepted bool) {
	if accepted {
		b.recyclesAccepted.Add(1)
	} else {
		b.recyclesRejected.Add(1)
	}
}

// GetStats implements the StatsCollector interface.
// It returns a snapshot of the current statistics.
func (b *BasicStatsCollector) GetStats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := b.stats
	stats.BatchesSealed = b.batchesSealed.Load()
	stats.ConsumerSealed = b.consumerSealed.Load()
	stats.BatchesDelivered = b.batchesDelivered.Load()
	stats.ItemsDelivered = b.itemsDelivered.Load()
	stats.RecyclesAccepted = b.recyclesAccepted.Load()
	stats.RecyclesRejected = b.recyclesRejected.Load()
	return stats
}

// AverageBatchSize returns the average size of delivered batches.
// Returns 0 if no batches have been delivered.
func (s *Stats) AverageBatchSize() float64 {
	if s.BatchesDelivered == 0 {
		return 0
	}
	return float64(s.ItemsDelivered) / float64(s.BatchesDelivered)
}

// AverageConsumerWait returns the average time the consumer blocked per wait.
// Returns 0 if the consumer never blocked.
func (s *Stats) AverageConsumerWait() time.Duration {
	if s.ConsumerWaits == 0 {
		return 0
	}
	return s.ConsumerWaitTime / time.Duration(s.ConsumerWaits)
}

// Duration returns the total duration since statistics collection started.
func (s *Stats) Duration() time.Duration {
	return s.LastUpdateTime.Sub(s.StartTime)
}
