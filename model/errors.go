package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when an input is missing or malformed
	// (nil SDR or image, mismatched lengths, wrong grid dimensions).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState is returned when an operation needs training data that is not there.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = fmt.Errorf("%w: k must be positive", ErrInvalidArgument)

	// ErrEmptyStore is returned by queries against a store without examples.
	ErrEmptyStore = fmt.Errorf("%w: no training examples available", ErrInvalidState)

	// ErrNoImageData is returned when the best matching example carries an empty image.
	ErrNoImageData = fmt.Errorf("%w: training examples do not contain image data", ErrInvalidState)
)

// ErrLengthMismatch indicates two vectors (or a vector and a grid) whose
// lengths must agree but do not. It matches ErrInvalidArgument via errors.Is.
type ErrLengthMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is reports whether target is ErrInvalidArgument.
func (e *ErrLengthMismatch) Is(target error) bool {
	return target == ErrInvalidArgument
}
