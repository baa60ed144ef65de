package batch

import "math"

// Default batch bounds used when a Config leaves them unset.
const (
	// DefaultMinBatch is the default minimum number of items in a batch.
	DefaultMinBatch = 1

	// DefaultMaxBatch is the default maximum number of items in a batch.
	// It is large enough that only MinBatch and the wait bounds shape batches
	// unless a caller asks for a smaller cap.
	DefaultMaxBatch = 1 << 16
)

const (
	// minCapacity is the initial and smallest capacity estimate for a new
	// filling batch.
	minCapacity = 10

	// unsetStart marks a filling batch with no start timestamp. It is never a
	// valid reading of nanotime.
	unsetStart int64 = math.MinInt64
)
