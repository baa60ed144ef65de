package source

import "context"

// Error is a Source that provides no data. It waits for the first non-nil
// error on Errs and returns it, which makes Pump complete the sink with that
// error. It is useful for testing error handling in consumers.
type Error[T any] struct {
	// Errs is the channel from which this source will read errors.
	// The Error source will not close this channel.
	Errs <-chan error
}

// Read implements the Source interface. It returns nil once Errs is closed
// without an error, or immediately if Errs is nil.
func (s *Error[T]) Read(ctx context.Context, _ Sink[T]) error {
	if s.Errs == nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-s.Errs:
			if !ok {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}
