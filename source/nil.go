package source

import (
	"context"
	"time"
)

// Nil is a Source that doesn't read any data. Instead it ends after the
// specified duration. It can be used as a mock Source to exercise a
// consumer's wait bounds.
type Nil[T any] struct {
	Duration time.Duration
}

// Read doesn't read anything.
func (s *Nil[T]) Read(ctx context.Context, _ Sink[T]) error {
	if s.Duration <= 0 {
		return nil
	}
	t := time.NewTimer(s.Duration)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
