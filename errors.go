package zx7

import "errors"

var (
	// ErrEmptyInput is returned when there is nothing to compress.
	// The format cannot represent an empty stream.
	ErrEmptyInput = errors.New("zx7: input is empty")

	// ErrBadPlan is returned by an Encoder when the matches it was given do
	// not describe the input.
	ErrBadPlan = errors.New("zx7: invalid match plan")
)
