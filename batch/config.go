package batch

import (
	"time"

	"github.com/pkg/errors"
)

// Config holds the bounds that shape the batches an Iterator delivers.
// The zero value is not valid because MaxBatch must be at least 1; start from
// DefaultConfig instead.
type Config struct {
	// MinBatch is the number of items a batch should reach before it is
	// delivered. It is only a target: MaxWait, completion and the absence of
	// any wait policy all seal smaller batches.
	MinBatch int `yaml:"minBatch" json:"minBatch"`

	// MaxBatch is the largest batch ever delivered. A batch is sealed as soon
	// as it reaches this size.
	MaxBatch int `yaml:"maxBatch" json:"maxBatch"`

	// MinWait is how long a batch keeps collecting items once MinBatch is
	// reached. Zero means a batch is sealed as soon as it reaches MinBatch,
	// or as soon as it holds an item when MaxWait is zero too.
	MinWait time.Duration `yaml:"minWait" json:"minWait"`

	// MaxWait bounds how long a non-empty batch may keep a waiting consumer
	// blocked, whatever its size.
	MaxWait time.Duration `yaml:"maxWait" json:"maxWait"`

	// MaxReadyBatches limits how many sealed batches may wait for the consumer
	// before Feed blocks. Zero or less means unbounded.
	MaxReadyBatches int `yaml:"maxReadyBatches" json:"maxReadyBatches"`

	// MaxReadyItems limits how many items in sealed batches may wait for the
	// consumer before Feed blocks. Zero or less means unbounded.
	MaxReadyItems int `yaml:"maxReadyItems" json:"maxReadyItems"`
}

// DefaultConfig returns the configuration used by New when no options are
// given: single-item minimum, DefaultMaxBatch maximum, no waiting and no
// backpressure.
func DefaultConfig() Config {
	return Config{
		MinBatch: DefaultMinBatch,
		MaxBatch: DefaultMaxBatch,
	}
}

// Validate reports an error wrapping ErrInvalidConfig when a bound cannot be
// honored. Negative waits are not errors; New clamps them to zero.
func (c Config) Validate() error {
	if c.MaxBatch < 1 {
		return errors.Wrapf(ErrInvalidConfig, "max batch must be at least 1, got %d", c.MaxBatch)
	}
	if c.MinBatch < 0 {
		return errors.Wrapf(ErrInvalidConfig, "min batch cannot be negative, got %d", c.MinBatch)
	}
	return nil
}

// fixConfig resolves bounds that contradict each other:
//   - MinBatch larger than MaxBatch is reduced to MaxBatch.
//   - MaxWait smaller than MinWait is raised to MinWait, so that a MinWait
//     set on its own is not cancelled by a zero MaxWait.
func fixConfig(c Config) Config {
	if c.MinBatch > c.MaxBatch {
		c.MinBatch = c.MaxBatch
	}
	if c.MaxWait < c.MinWait {
		c.MaxWait = c.MinWait
	}
	return c
}
