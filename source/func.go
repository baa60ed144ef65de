package source

import "context"

// Func adapts a function to the Source interface.
type Func[T any] func(ctx context.Context, sink Sink[T]) error

// Read calls f.
func (f Func[T]) Read(ctx context.Context, sink Sink[T]) error {
	return f(ctx, sink)
}
