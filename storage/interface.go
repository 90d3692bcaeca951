package storage

import (
	"context"
)

// PasteStore defines the interface for paste storage backends. It maps a
// validated paste id to its content; callers validate ids before any call.
type PasteStore interface {
	// Put saves content under id. It is create-only: writing an id that is
	// already taken returns models.ErrAlreadyExists so the caller can retry
	// with a fresh id instead of overwriting an existing paste.
	Put(ctx context.Context, id string, content []byte) error

	// Get retrieves the content stored under id. It returns
	// models.ErrNotFound when no such paste exists; any other error is an
	// IO failure.
	Get(ctx context.Context, id string) ([]byte, error)

	// Exists checks whether a paste exists without retrieving it.
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes a paste. Used by cleanup tooling and tests; deleting
	// an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// Close closes the storage connection.
	Close() error
}
