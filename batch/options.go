package batch

import (
	"time"

	"github.com/pkg/errors"
)

// Option configures an Iterator created by New. Options are applied in
// order, so a later option overrides an earlier one.
type Option func(*options) error

type options struct {
	config Config
	logger Logger
	stats  StatsCollector
	pool   interface{}
	mutex  bool
}

func newOptions(opts ...Option) (*options, error) {
	o := &options{config: DefaultConfig()}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	mergeDefaultOptions(o)
	return o, nil
}

func mergeDefaultOptions(o *options) {
	if o.logger == nil {
		o.logger = &NoOpLogger{}
	}
	if o.stats == nil {
		o.stats = &NoOpStatsCollector{}
	}
}

// WithConfig replaces every bound at once. The config is validated when the
// option is applied.
func WithConfig(c Config) Option {
	return func(o *options) error {
		if err := c.Validate(); err != nil {
			return err
		}
		o.config = c
		return nil
	}
}

// WithMinBatch sets the target minimum batch size. n must not be negative.
func WithMinBatch(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.Wrapf(ErrInvalidConfig, "min batch cannot be negative, got %d", n)
		}
		o.config.MinBatch = n
		return nil
	}
}

// WithMaxBatch sets the maximum batch size. n must be at least 1; with n == 1
// every batch holds a single item.
func WithMaxBatch(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.Wrapf(ErrInvalidConfig, "max batch must be at least 1, got %d", n)
		}
		o.config.MaxBatch = n
		return nil
	}
}

// WithMinWait sets how long a batch keeps collecting after reaching the
// minimum size. Negative values are clamped to zero with a warning.
func WithMinWait(d time.Duration) Option {
	return func(o *options) error {
		o.config.MinWait = d
		return nil
	}
}

// WithMaxWait bounds how long a waiting consumer is kept blocked by a
// non-empty batch. Negative values are clamped to zero with a warning.
func WithMaxWait(d time.Duration) Option {
	return func(o *options) error {
		o.config.MaxWait = d
		return nil
	}
}

// WithMaxReadyBatches bounds the number of sealed batches waiting for the
// consumer. Zero or less means unbounded.
func WithMaxReadyBatches(n int) Option {
	return func(o *options) error {
		o.config.MaxReadyBatches = n
		return nil
	}
}

// WithMaxReadyItems bounds the number of items in sealed batches waiting for
// the consumer. Zero or less means unbounded.
func WithMaxReadyItems(n int) Option {
	return func(o *options) error {
		o.config.MaxReadyItems = n
		return nil
	}
}

// WithLogger sets the logger. If not set, nothing is logged.
func WithLogger(l Logger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// WithStats sets the stats collector. If not set, no statistics are collected.
func WithStats(s StatsCollector) Option {
	return func(o *options) error {
		o.stats = s
		return nil
	}
}

// WithPool makes the iterator allocate batches from p and return surplus
// buffers to it. The element type must match the iterator's.
func WithPool[T any](p BatchPool[T]) Option {
	return func(o *options) error {
		o.pool = p
		return nil
	}
}

// WithMutexLocker selects the general mutex-based lock instead of the
// single-producer/single-consumer one. It is required when more than one
// goroutine feeds the iterator concurrently.
func WithMutexLocker() Option {
	return func(o *options) error {
		o.mutex = true
		return nil
	}
}
