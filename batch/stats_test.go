package batch_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MasterOfBinary/batchiter/batch"
)

func TestNoOpStatsCollector(t *testing.T) {
	stats := &batch.NoOpStatsCollector{}

	// These should not panic
	stats.RecordBatchSealed(10, false)
	stats.RecordBatchDelivered(10)
	stats.RecordProducerBlocked(time.Second)
	stats.RecordConsumerWait(time.Second)
	stats.RecordRecycle(true)

	assert.Equal(t, batch.Stats{}, stats.GetStats())
}

func TestBasicStatsCollector(t *testing.T) {
	stats := batch.NewBasicStatsCollector()

	stats.RecordBatchSealed(5, false)
	stats.RecordBatchSealed(3, true)
	stats.RecordBatchSealed(7, false)
	stats.RecordBatchDelivered(5)
	stats.RecordBatchDelivered(3)
	stats.RecordProducerBlocked(10 * time.Millisecond)
	stats.RecordProducerBlocked(30 * time.Millisecond)
	stats.RecordConsumerWait(20 * time.Millisecond)
	stats.RecordRecycle(true)
	stats.RecordRecycle(false)
	stats.RecordRecycle(false)

	s := stats.GetStats()
	assert.Equal(t, uint64(3), s.BatchesSealed)
	assert.Equal(t, uint64(1), s.ConsumerSealed)
	assert.Equal(t, uint64(2), s.BatchesDelivered)
	assert.Equal(t, uint64(8), s.ItemsDelivered)
	assert.Equal(t, 3, s.MinBatchSize)
	assert.Equal(t, 5, s.MaxBatchSize)
	assert.Equal(t, uint64(2), s.ProducerBlocks)
	assert.Equal(t, 40*time.Millisecond, s.ProducerBlockedTime)
	assert.Equal(t, uint64(1), s.ConsumerWaits)
	assert.Equal(t, uint64(1), s.RecyclesAccepted)
	assert.Equal(t, uint64(2), s.RecyclesRejected)
	assert.False(t, s.StartTime.IsZero())
}

func TestBasicStatsCollector_Concurrent(t *testing.T) {
	stats := batch.NewBasicStatsCollector()

	var wg sync.WaitGroup
	const workers, iterations = 8, 500
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				stats.RecordBatchSealed(i%10+1, i%2 == 0)
				stats.RecordBatchDelivered(i%10 + 1)
				stats.RecordConsumerWait(time.Microsecond)
			}
		}()
	}
	wg.Wait()

	s := stats.GetStats()
	assert.Equal(t, uint64(workers*iterations), s.BatchesSealed)
	assert.Equal(t, uint64(workers*iterations/2), s.ConsumerSealed)
	assert.Equal(t, uint64(workers*iterations/10*55), s.ItemsDelivered)
	assert.Equal(t, uint64(workers*iterations), s.ConsumerWaits)
	assert.Equal(t, 1, s.MinBatchSize)
	assert.Equal(t, 10, s.MaxBatchSize)
}

func TestStats_CalculatedMetrics(t *testing.T) {
	tests := []struct {
		name        string
		stats       batch.Stats
		wantAvgSize float64
		wantAvgWait time.Duration
	}{
		{
			name: "empty",
		},
		{
			name: "normal",
			stats: batch.Stats{
				BatchesDelivered: 4,
				ItemsDelivered:   10,
				ConsumerWaits:    2,
				ConsumerWaitTime: 30 * time.Millisecond,
			},
			wantAvgSize: 2.5,
			wantAvgWait: 15 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantAvgSize, tt.stats.AverageBatchSize(), 1e-9)
			assert.Equal(t, tt.wantAvgWait, tt.stats.AverageConsumerWait())
		})
	}
}

func TestStats_Duration(t *testing.T) {
	start := time.Now()
	s := batch.Stats{StartTime: start, LastUpdateTime: start.Add(5 * time.Second)}
	assert.Equal(t, 5*time.Second, s.Duration())
}
