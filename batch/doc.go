// Package batch contains the adaptive batch iterator. The main type is
// Iterator, which can be created using New. One goroutine feeds it items,
// either one at a time or in chunks, and another pulls them back out in
// batches whose size and latency are bounded by a Config.
//
// Iterator uses MinBatch, MaxBatch, MinWait and MaxWait from Config to decide
// when a batch is sealed and handed to the consumer. In order of priority
// (EOF means the producer called Complete):
//
//	MaxBatch > EOF > MaxWait > MinWait + MinBatch
//
// A few examples:
//
// - MinBatch = 1, no waits. Every item is deliverable at once; items fed
// while the consumer is busy are merged into the last unread batch.
// - MinBatch = 2, MinWait = 20ms. Two items are fed at once. The consumer
// receives both after 20ms, unless Complete is called first.
// - MinBatch = 100, MaxWait = 5ms. Only 3 items arrive. A waiting consumer
// seals and receives them after 5ms.
//
// Wait bounds are measured from when the first item of a batch arrived, or
// from when the consumer started waiting if the batch is still empty.
//
// The producer can be held back with MaxReadyBatches and MaxReadyItems, which
// bound how much sealed data may wait for the consumer. Both can be changed
// while the iterator is running.
//
// Batches returned by NextBatch can be handed back with Recycle so the next
// filling batch reuses their memory. A process-wide BatchPool can be plugged
// in with WithPool.
package batch
