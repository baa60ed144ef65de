// Package source contains producers for a batch.Iterator. A Source reads data
// from somewhere and feeds it to a Sink, which a *batch.Iterator satisfies;
// Pump runs a Source and completes the iterator with its result.
//
// Implementations are provided for common scenarios:
//
// - Channel: feeds items received from a channel
// - Slice: feeds an in-memory slice in chunks
// - Func: adapts a plain function
// - Error: feeds nothing and ends with an error from a channel
// - Nil: feeds nothing and ends after a delay
//
// Every implementation stops when its context is done or when the iterator
// refuses further items because the consumer closed it.
//
// Basic usage:
//
//	it, _ := batch.New[string](batch.WithMaxBatch(100))
//	go source.Pump(ctx, &source.Channel[string]{Input: lines}, it)
//	for {
//		b, err := it.NextBatch()
//		if err != nil || b == nil {
//			break
//		}
//		process(b)
//	}
package source
