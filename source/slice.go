package source

import "context"

// Slice is a Source that feeds Items in chunks of ChunkSize, or all at once
// when ChunkSize is zero or less. The sink takes ownership of Items.
type Slice[T any] struct {
	Items     []T
	ChunkSize int
}

// Read implements the Source interface.
func (s *Slice[T]) Read(ctx context.Context, sink Sink[T]) error {
	items := s.Items
	size := s.ChunkSize
	if size <= 0 {
		size = len(items)
	}
	for len(items) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(size, len(items))
		if err := sink.FeedBatch(items[:n:n]); err != nil {
			return err
		}
		items = items[n:]
	}
	return nil
}
