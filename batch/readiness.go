package batch

import "time"

var epoch = time.Now()

// nanotime returns monotonic nanoseconds since package initialization.
func nanotime() int64 {
	return int64(time.Since(epoch))
}

// readiness decides when a filling batch must be sealed. Waits are kept in
// nanoseconds to compare directly against nanotime readings.
type readiness struct {
	minBatch int
	maxBatch int
	minWait  int64
	maxWait  int64

	// needsStartTime is false when no wait bound is configured. Filling batches
	// then carry no timestamp and the clock is never read.
	needsStartTime bool
}

func newReadiness(c Config) readiness {
	return readiness{
		minBatch:       c.MinBatch,
		maxBatch:       c.MaxBatch,
		minWait:        int64(c.MinWait),
		maxWait:        int64(c.MaxWait),
		needsStartTime: c.MinWait > 0 || c.MaxWait > 0,
	}
}

// ready reports whether a batch of size items, started at start, should be
// sealed. clock is only called when the decision depends on elapsed time.
//
// In order:
//   - size >= maxBatch is always ready;
//   - an empty batch is never ready;
//   - with no MinWait, reaching minBatch is enough, and so is any item when
//     there is no MaxWait either;
//   - otherwise the batch is ready once MinWait has passed with minBatch
//     items, or once MaxWait has passed regardless of size.
func (r *readiness) ready(size int, start int64, clock func() int64) bool {
	if size >= r.maxBatch {
		return true
	}
	if size == 0 {
		return false
	}
	if r.minWait == 0 && (size >= r.minBatch || r.maxWait == 0) {
		return true
	}
	if start == unsetStart {
		return false
	}
	elapsed := clock() - start
	return (elapsed > r.minWait && size >= r.minBatch) || elapsed >= r.maxWait
}
