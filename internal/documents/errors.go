package documents

import "errors"

var (
	// ErrNotFound indicates the document does not exist for the firm.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
