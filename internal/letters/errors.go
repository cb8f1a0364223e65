package letters

import "errors"

var (
	// ErrNotFound indicates the letter, template or document does not exist
	// for the firm. Ownership mismatches surface as this error too.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstream indicates a collaborator failure: text extraction produced
	// nothing usable or the LLM call failed.
	ErrUpstream = errors.New("upstream failure")

	// ErrStorage indicates an object-store failure during export.
	ErrStorage = errors.New("storage failure")
)
