package source

import "context"

// Channel is a Source that feeds every item received from Input until Input
// is closed.
type Channel[T any] struct {
	// Input is the channel from which this source will read data.
	// The Channel source will not close this channel.
	Input <-chan T
}

// Read implements the Source interface. A nil Input yields no data.
func (s *Channel[T]) Read(ctx context.Context, sink Sink[T]) error {
	if s.Input == nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item, ok := <-s.Input:
			if !ok {
				return nil
			}
			if err := sink.Feed(item); err != nil {
				return err
			}
		}
	}
}
