package sdrecon

import (
	"fmt"

	"github.com/hupe1980/sdrecon/model"
	"github.com/hupe1980/sdrecon/resource"
)

var (
	// ErrInvalidArgument is returned when an input is missing or malformed.
	ErrInvalidArgument = model.ErrInvalidArgument

	// ErrInvalidState is returned when an operation needs training data that is not there.
	ErrInvalidState = model.ErrInvalidState

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = model.ErrInvalidK

	// ErrEmptyStore is returned when a component is queried before it was trained.
	ErrEmptyStore = model.ErrEmptyStore

	// ErrNoImageData is returned when the best matching example carries an empty image.
	ErrNoImageData = model.ErrNoImageData

	// ErrUnknownPartition is returned when no training data exists for a label.
	ErrUnknownPartition = fmt.Errorf("%w: unknown partition", model.ErrInvalidState)

	// ErrMemoryLimitExceeded is returned by Train when the configured memory
	// limit for stored examples would be exceeded.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ErrLengthMismatch indicates vectors (or a vector and the configured grid)
// whose lengths must agree but do not.
type ErrLengthMismatch = model.ErrLengthMismatch

// PartitionError attaches the partition label to an error raised while
// operating on that partition.
//
// The original underlying error can be accessed via errors.Unwrap.
type PartitionError struct {
	Label model.Label
	cause error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %d: %v", e.Label, e.cause)
}

func (e *PartitionError) Unwrap() error { return e.cause }

func partitionError(label model.Label, err error) error {
	if err == nil {
		return nil
	}
	return &PartitionError{Label: label, cause: err}
}
