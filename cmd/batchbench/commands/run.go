package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MasterOfBinary/batchiter/batch"
	"github.com/MasterOfBinary/batchiter/source"
)

const (
	syncSPSC  = "spsc"
	syncMutex = "mutex"
)

type runFlags struct {
	items           int
	chunk           int
	minBatch        int
	maxBatch        int
	minWait         time.Duration
	maxWait         time.Duration
	maxReadyBatches int
	maxReadyItems   int
	sync            string
	consumerDelay   time.Duration
}

func (c *CLI) newRunCmd() *cobra.Command {
	var rf runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Feed a stream of integers through an iterator and report how it was batched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, rf)
			if err != nil {
				return err
			}

			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			r, err := runBench(cmd.Context(), cfg, rf.consumerDelay, logger)
			if err != nil {
				return err
			}
			r.print(c.out)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&rf.items, "items", 100000, "Number of items to feed")
	f.IntVar(&rf.chunk, "chunk", 0, "Feed items in chunks of this size; 0 or 1 feeds them one at a time")
	f.IntVar(&rf.minBatch, "min-batch", batch.DefaultMinBatch, "Minimum batch size")
	f.IntVar(&rf.maxBatch, "max-batch", batch.DefaultMaxBatch, "Maximum batch size")
	f.DurationVar(&rf.minWait, "min-wait", 0, "How long a batch keeps collecting after reaching the minimum size")
	f.DurationVar(&rf.maxWait, "max-wait", 0, "Longest a waiting consumer is held by a non-empty batch")
	f.IntVar(&rf.maxReadyBatches, "max-ready-batches", 0, "Block the producer at this many undelivered batches; 0 is unbounded")
	f.IntVar(&rf.maxReadyItems, "max-ready-items", 0, "Block the producer at this many undelivered items; 0 is unbounded")
	f.StringVar(&rf.sync, "sync", syncSPSC, "Lock strategy: spsc or mutex")
	f.DurationVar(&rf.consumerDelay, "consumer-delay", 0, "Simulated processing time per batch")

	return cmd
}

// resolveConfig merges defaults, the config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command, rf runFlags) (benchFile, error) {
	cfg := benchFile{
		Iterator: batch.DefaultConfig(),
		Items:    100000,
		Sync:     syncSPSC,
	}

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return cfg, err
	}
	if path != "" {
		if cfg, err = loadConfig(path, cfg); err != nil {
			return cfg, err
		}
	}

	f := cmd.Flags()
	if f.Changed("items") {
		cfg.Items = rf.items
	}
	if f.Changed("chunk") {
		cfg.Chunk = rf.chunk
	}
	if f.Changed("min-batch") {
		cfg.Iterator.MinBatch = rf.minBatch
	}
	if f.Changed("max-batch") {
		cfg.Iterator.MaxBatch = rf.maxBatch
	}
	if f.Changed("min-wait") {
		cfg.Iterator.MinWait = rf.minWait
	}
	if f.Changed("max-wait") {
		cfg.Iterator.MaxWait = rf.maxWait
	}
	if f.Changed("max-ready-batches") {
		cfg.Iterator.MaxReadyBatches = rf.maxReadyBatches
	}
	if f.Changed("max-ready-items") {
		cfg.Iterator.MaxReadyItems = rf.maxReadyItems
	}
	if f.Changed("sync") {
		cfg.Sync = rf.sync
	}

	switch {
	case cfg.Items < 0:
		return cfg, errors.Errorf("items cannot be negative, got %d", cfg.Items)
	case cfg.Sync != syncSPSC && cfg.Sync != syncMutex:
		return cfg, errors.Errorf("unknown sync strategy %q, want %s or %s", cfg.Sync, syncSPSC, syncMutex)
	}
	return cfg, nil
}

type report struct {
	items   int
	elapsed time.Duration
	stats   batch.Stats
}

func runBench(ctx context.Context, cfg benchFile, delay time.Duration, logger *zap.Logger) (report, error) {
	stats := batch.NewBasicStatsCollector()
	opts := []batch.Option{
		batch.WithConfig(cfg.Iterator),
		batch.WithStats(stats),
		batch.WithLogger(batch.NewZapLogger(logger)),
	}
	if cfg.Sync == syncMutex {
		opts = append(opts, batch.WithMutexLocker())
	}
	it, err := batch.New[int64](opts...)
	if err != nil {
		return report{}, err
	}
	logger.Debug("starting run", zap.Stringer("iterator", it), zap.Int("items", cfg.Items))

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := source.Pump[int64](ctx, producer(cfg.Items, cfg.Chunk), it)
		if errors.Is(err, batch.ErrClosed) {
			// The consumer stopped early and reports its own error.
			return nil
		}
		return err
	})

	received := 0
	g.Go(func() error {
		defer func() { _ = it.Close() }()
		var b []int64
		for {
			var err error
			b, err = it.NextBatchRecycle(b)
			if err != nil {
				return err
			}
			if b == nil {
				return nil
			}
			for _, x := range b {
				if x != int64(received) {
					return errors.Errorf("item out of order: got %d, want %d", x, received)
				}
				received++
			}
			if delay > 0 {
				time.Sleep(delay)
			}
		}
	})

	if err := g.Wait(); err != nil {
		return report{}, err
	}
	if received != cfg.Items {
		return report{}, errors.Errorf("received %d items, fed %d", received, cfg.Items)
	}
	return report{
		items:   received,
		elapsed: time.Since(start),
		stats:   stats.GetStats(),
	}, nil
}

// producer emits the integers [0, items), one at a time or in chunks.
func producer(items, chunk int) source.Source[int64] {
	return source.Func[int64](func(ctx context.Context, sink source.Sink[int64]) error {
		for i := 0; i < items; {
			if err := ctx.Err(); err != nil {
				return err
			}
			if chunk <= 1 {
				if err := sink.Feed(int64(i)); err != nil {
					return err
				}
				i++
				continue
			}
			n := min(chunk, items-i)
			b := make([]int64, n)
			for j := range b {
				b[j] = int64(i + j)
			}
			if err := sink.FeedBatch(b); err != nil {
				return err
			}
			i += n
		}
		return nil
	})
}

func (r report) print(w io.Writer) {
	s := r.stats
	throughput := 0.0
	if r.elapsed > 0 {
		throughput = float64(r.items) / r.elapsed.Seconds()
	}
	_, _ = fmt.Fprintf(w, "items: %d\n", r.items)
	_, _ = fmt.Fprintf(w, "elapsed: %v\n", r.elapsed)
	_, _ = fmt.Fprintf(w, "throughput: %.0f items/s\n", throughput)
	_, _ = fmt.Fprintf(w, "batches: %d\n", s.BatchesDelivered)
	_, _ = fmt.Fprintf(w, "batch size: avg %.2f, min %d, max %d\n", s.AverageBatchSize(), s.MinBatchSize, s.MaxBatchSize)
	_, _ = fmt.Fprintf(w, "sealed by consumer: %d\n", s.ConsumerSealed)
	_, _ = fmt.Fprintf(w, "producer blocked: %d times, %v total\n", s.ProducerBlocks, s.ProducerBlockedTime)
	_, _ = fmt.Fprintf(w, "consumer waits: %d, avg %v\n", s.ConsumerWaits, s.AverageConsumerWait())
	_, _ = fmt.Fprintf(w, "recycled: %d accepted, %d rejected\n", s.RecyclesAccepted, s.RecyclesRejected)
}
