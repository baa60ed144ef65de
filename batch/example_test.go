package batch_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/MasterOfBinary/batchiter/batch"
)

// This example shows the basic producer/consumer pattern: one goroutine feeds
// rows and completes the stream, another pulls size-bounded batches.
func Example() {
	it, err := batch.New[int](batch.WithMaxBatch(4))
	if err != nil {
		fmt.Println("config error:", err)
		return
	}

	go func() {
		rows := make([]int, 10)
		for i := range rows {
			rows[i] = i
		}
		_ = it.FeedBatch(rows)
		it.Complete(nil)
	}()

	for {
		b, err := it.NextBatch()
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		if b == nil {
			break
		}
		fmt.Println(b)
		it.Recycle(b)
	}

	// Output:
	// [0 1 2 3]
	// [4 5 6 7]
	// [8 9]
}

// This example pulls items one at a time and shows how a producer error
// reaches the consumer after the buffered items.
func ExampleIterator_Next() {
	it, err := batch.New[string]()
	if err != nil {
		fmt.Println("config error:", err)
		return
	}

	_ = it.FeedBatch([]string{"a", "b"})
	it.Complete(errors.New("upstream failed"))

	for {
		s, err := it.Next()
		if errors.Is(err, batch.ErrExhausted) {
			break
		}
		if err != nil {
			fmt.Println("error:", errors.Unwrap(err))
			continue
		}
		fmt.Println(s)
	}

	// Output:
	// a
	// b
	// error: upstream failed
}

// This example uses MinBatch and MinWait to collect a batch for a while before
// delivering it.
func ExampleWithMinWait() {
	it, err := batch.New[int](
		batch.WithMinBatch(3),
		batch.WithMinWait(10*time.Millisecond),
	)
	if err != nil {
		fmt.Println("config error:", err)
		return
	}

	_ = it.Feed(1)
	_ = it.Feed(2)
	_ = it.Feed(3)

	b, _ := it.NextBatch()
	fmt.Println(b)

	// Output:
	// [1 2 3]
}

func ExampleBasicStatsCollector() {
	stats := batch.NewBasicStatsCollector()
	it, err := batch.New[int](batch.WithMaxBatch(2), batch.WithStats(stats))
	if err != nil {
		fmt.Println("config error:", err)
		return
	}

	_ = it.FeedBatch([]int{1, 2, 3, 4, 5})
	it.Complete(nil)
	for {
		b, _ := it.NextBatch()
		if b == nil {
			break
		}
	}

	s := stats.GetStats()
	fmt.Printf("batches: %d, items: %d, average size: %.2f\n",
		s.BatchesDelivered, s.ItemsDelivered, s.AverageBatchSize())

	// Output:
	// batches: 3, items: 5, average size: 1.67
}
