package source_test

import (
	"context"
	"fmt"

	"github.com/MasterOfBinary/batchiter/batch"
	"github.com/MasterOfBinary/batchiter/source"
)

func ExampleChannel() {
	input := make(chan string, 3)
	input <- "a"
	input <- "b"
	input <- "c"
	close(input)

	it, err := batch.New[string](batch.WithMaxBatch(2))
	if err != nil {
		fmt.Println(err)
		return
	}
	go source.Pump[string](context.Background(), &source.Channel[string]{Input: input}, it)

	for {
		b, err := it.NextBatch()
		if err != nil || b == nil {
			break
		}
		fmt.Println(b)
	}
}

func ExampleSlice() {
	it, err := batch.New[int]()
	if err != nil {
		fmt.Println(err)
		return
	}
	_ = source.Pump[int](context.Background(), &source.Slice[int]{Items: []int{1, 2, 3, 4, 5}, ChunkSize: 2}, it)

	for {
		b, _ := it.NextBatch()
		if b == nil {
			break
		}
		fmt.Println(b)
	}

	// Output:
	// [1 2]
	// [3 4]
	// [5]
}
