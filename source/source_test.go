package source_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/batchiter/batch"
	"github.com/MasterOfBinary/batchiter/source"
)

func newIterator[T any](t *testing.T, opts ...batch.Option) *batch.Iterator[T] {
	t.Helper()
	it, err := batch.New[T](opts...)
	require.NoError(t, err)
	return it
}

// collect drains it and returns all items plus the first error.
func collect[T any](it *batch.Iterator[T]) ([]T, error) {
	var items []T
	var firstErr error
	for {
		b, err := it.NextBatch()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if b == nil {
			return items, firstErr
		}
		items = append(items, b...)
	}
}

func TestPump_Channel(t *testing.T) {
	it := newIterator[int](t, batch.WithMaxBatch(3))
	input := make(chan int, 10)
	for i := 0; i < 10; i++ {
		input <- i
	}
	close(input)

	require.NoError(t, source.Pump[int](context.Background(), &source.Channel[int]{Input: input}, it))

	items, err := collect(it)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, items)
}

func TestPump_ConcurrentConsumer(t *testing.T) {
	it := newIterator[int](t, batch.WithMinBatch(8), batch.WithMaxWait(time.Millisecond))
	input := make(chan int)
	go func() {
		defer close(input)
		for i := 0; i < 500; i++ {
			input <- i
		}
	}()

	done := make(chan error, 1)
	go func() {
		done <- source.Pump[int](context.Background(), &source.Channel[int]{Input: input}, it)
	}()

	items, err := collect(it)
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.Len(t, items, 500)
	for i, x := range items {
		require.Equal(t, i, x)
	}
}

func TestPump_SourceErrorReachesConsumer(t *testing.T) {
	boom := errors.New("boom")
	it := newIterator[string](t)
	src := source.Func[string](func(ctx context.Context, sink source.Sink[string]) error {
		if err := sink.Feed("a"); err != nil {
			return err
		}
		return boom
	})

	err := source.Pump[string](context.Background(), src, it)
	assert.Equal(t, boom, err)

	items, err := collect(it)
	assert.Equal(t, []string{"a"}, items)
	assert.ErrorIs(t, err, boom)
}

func TestPump_ContextCanceled(t *testing.T) {
	g := NewWithT(t)
	it := newIterator[int](t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- source.Pump[int](ctx, &source.Channel[int]{Input: make(chan int)}, it)
	}()
	cancel()

	var err error
	g.Eventually(done, time.Second).Should(Receive(&err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, it.Cause(), context.Canceled)
}

func TestPump_ConsumerClosed(t *testing.T) {
	g := NewWithT(t)
	it := newIterator[int](t, batch.WithMaxReadyItems(2))
	input := make(chan int)
	go func() {
		for i := 0; ; i++ {
			select {
			case input <- i:
			case <-time.After(time.Second):
				return
			}
		}
	}()

	done := make(chan error, 1)
	go func() {
		done <- source.Pump[int](context.Background(), &source.Channel[int]{Input: input}, it)
	}()

	_, err := it.NextBatch()
	require.NoError(t, err)
	require.NoError(t, it.Close())

	var pumpErr error
	g.Eventually(done, time.Second).Should(Receive(&pumpErr))
	assert.ErrorIs(t, pumpErr, batch.ErrClosed)
	assert.ErrorIs(t, it.Cause(), batch.ErrClosed, "outcome left to the close")
}

func TestSlice_Read(t *testing.T) {
	tests := []struct {
		name      string
		chunkSize int
		want      [][]int
	}{
		{"all at once", 0, [][]int{{1, 2, 3, 4, 5}}},
		{"chunks", 2, [][]int{{1, 2}, {3, 4}, {5}}},
		{"chunk larger than items", 10, [][]int{{1, 2, 3, 4, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := newIterator[int](t)
			src, err := source.NewSlice([]int{1, 2, 3, 4, 5}, tt.chunkSize)
			require.NoError(t, err)
			require.NoError(t, source.Pump[int](context.Background(), src, it))

			var got [][]int
			for {
				b, err := it.NextBatch()
				require.NoError(t, err)
				if b == nil {
					break
				}
				got = append(got, b)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlice_Empty(t *testing.T) {
	it := newIterator[int](t)
	require.NoError(t, source.Pump[int](context.Background(), &source.Slice[int]{}, it))
	items, err := collect(it)
	assert.Empty(t, items)
	assert.NoError(t, err)
}

func TestError_Read(t *testing.T) {
	boom := errors.New("boom")

	t.Run("first non-nil error", func(t *testing.T) {
		errs := make(chan error, 3)
		errs <- nil
		errs <- boom
		errs <- errors.New("ignored")
		it := newIterator[int](t)

		src, err := source.NewError[int](source.ErrorConfig{Errs: errs})
		require.NoError(t, err)
		assert.Equal(t, boom, source.Pump[int](context.Background(), src, it))
		assert.Equal(t, boom, it.Cause())
	})

	t.Run("closed without error", func(t *testing.T) {
		errs := make(chan error)
		close(errs)
		it := newIterator[int](t)
		assert.NoError(t, source.Pump[int](context.Background(), &source.Error[int]{Errs: errs}, it))
		assert.True(t, it.Ended())
	})

	t.Run("nil channel", func(t *testing.T) {
		it := newIterator[int](t)
		assert.NoError(t, source.Pump[int](context.Background(), &source.Error[int]{}, it))
	})
}

func TestNil_Read(t *testing.T) {
	t.Run("zero duration", func(t *testing.T) {
		it := newIterator[int](t)
		assert.NoError(t, source.Pump[int](context.Background(), &source.Nil[int]{}, it))
		assert.True(t, it.Ended())
	})

	t.Run("waits for duration", func(t *testing.T) {
		it := newIterator[int](t)
		start := time.Now()
		assert.NoError(t, source.Pump[int](context.Background(), &source.Nil[int]{Duration: 20 * time.Millisecond}, it))
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("context canceled", func(t *testing.T) {
		it := newIterator[int](t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := source.Pump[int](ctx, &source.Nil[int]{Duration: time.Hour}, it)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFactories_Validate(t *testing.T) {
	_, err := source.NewChannel(source.ChannelConfig[int]{})
	assert.Error(t, err)
	_, err = source.NewError[int](source.ErrorConfig{})
	assert.Error(t, err)
	_, err = source.NewSlice([]int{1}, -1)
	assert.Error(t, err)

	ch, err := source.NewChannel(source.ChannelConfig[int]{Input: make(chan int)})
	require.NoError(t, err)
	assert.NotNil(t, ch.Input)
}
