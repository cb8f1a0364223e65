package object

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the contract for storing and retrieving binary objects.
// A store instance is scoped to one logical bucket (uploaded documents or
// generated exports).
type ObjectStore interface {
	// Save writes the reader under the given storage key, overwriting any
	// existing object, and reports the number of bytes stored.
	Save(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	// Open returns a reader for a stored object.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// Delete removes a stored object. Deleting a missing object is not an error.
	Delete(ctx context.Context, storageKey string) error
	// PresignGet issues a time-limited download URL for a stored object.
	PresignGet(ctx context.Context, storageKey string, expires time.Duration) (string, error)
}
