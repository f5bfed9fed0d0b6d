// Package storage provides the blob-store abstraction behind uploaded
// documents, with local-filesystem and Google Cloud Storage implementations.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no object exists at the given path.
var ErrNotFound = errors.New("object not found")

// Storage stores and retrieves uploaded document blobs by opaque path.
type Storage interface {
	// Put stores the content and returns the storage path it was written to.
	Put(ctx context.Context, path string, contentType string, r io.Reader) error

	// Get returns the full content stored at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Delete removes the object at path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error
}

// Config selects and configures the storage backend.
type Config struct {
	Backend   string // "local" or "gcs"
	LocalPath string
	GCSBucket string
}

// New creates a Storage implementation based on configuration.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Backend {
	case "gcs":
		return NewGCSStorage(ctx, cfg.GCSBucket)
	case "local", "":
		return NewLocalStorage(cfg.LocalPath)
	default:
		return nil, errors.New("unknown storage backend: " + cfg.Backend)
	}
}
