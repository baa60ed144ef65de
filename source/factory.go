package source

import (
	"github.com/pkg/errors"
)

// ChannelConfig provides configuration options for creating a Channel source.
type ChannelConfig[T any] struct {
	// Input is the channel from which this source will read data.
	// This field is required.
	Input <-chan T
}

// Validate checks if the ChannelConfig is valid.
func (c ChannelConfig[T]) Validate() error {
	if c.Input == nil {
		return errors.New("input channel cannot be nil")
	}
	return nil
}

// NewChannel creates a new Channel source with the given configuration.
// It validates the configuration and returns an error if invalid.
//
// Example:
//
//	input := make(chan Row, 10)
//	src, err := source.NewChannel(source.ChannelConfig[Row]{Input: input})
//	if err != nil {
//		// handle error
//	}
func NewChannel[T any](config ChannelConfig[T]) (*Channel[T], error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid channel config")
	}
	return &Channel[T]{Input: config.Input}, nil
}

// ErrorConfig provides configuration options for creating an Error source.
type ErrorConfig struct {
	// Errs is the channel from which this source will read errors.
	// This field is required.
	Errs <-chan error
}

// Validate checks if the ErrorConfig is valid.
func (c ErrorConfig) Validate() error {
	if c.Errs == nil {
		return errors.New("error channel cannot be nil")
	}
	return nil
}

// NewError creates a new Error source with the given configuration.
// It validates the configuration and returns an error if invalid.
func NewError[T any](config ErrorConfig) (*Error[T], error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid error config")
	}
	return &Error[T]{Errs: config.Errs}, nil
}

// NewSlice creates a Slice source feeding items in chunks of chunkSize.
// A negative chunkSize is rejected; zero feeds everything at once.
func NewSlice[T any](items []T, chunkSize int) (*Slice[T], error) {
	if chunkSize < 0 {
		return nil, errors.Errorf("invalid slice config: chunk size cannot be negative, got %d", chunkSize)
	}
	return &Slice[T]{Items: items, ChunkSize: chunkSize}, nil
}
