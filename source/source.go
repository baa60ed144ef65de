package source

import (
	"context"

	"github.com/pkg/errors"

	"github.com/MasterOfBinary/batchiter/batch"
)

// Sink is the producer side of a batch.Iterator.
type Sink[T any] interface {
	Feed(item T) error
	FeedBatch(items []T) error
	Complete(cause error) bool
}

// Source produces items into a Sink. Read returns when the source has no more
// data, ctx is done, or the sink refuses an item. It must not call Complete;
// Pump does that with Read's result.
type Source[T any] interface {
	Read(ctx context.Context, sink Sink[T]) error
}

// Pump reads src into sink and completes sink with the result, so the consumer
// sees the source error after every item fed before it.
//
// If the sink was closed by its consumer, Pump returns the feed error and
// leaves the recorded outcome alone.
func Pump[T any](ctx context.Context, src Source[T], sink Sink[T]) error {
	err := src.Read(ctx, sink)
	if errors.Is(err, batch.ErrFeedAfterComplete) {
		return err
	}
	sink.Complete(err)
	return err
}
