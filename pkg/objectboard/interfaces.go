package objectboard

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for binary storage backends.
type BlobStore interface {
	// Upload stores the blob under key and returns its publicly resolvable
	// URL.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)

	// Download returns the blob stored under key, or ErrBlobNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob stored under key. Deleting an absent key is
	// success so that caller-driven retries converge.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL an upload of key would produce.
	URL(key string) string
}

// Repository defines the interface for object record persistence.
type Repository interface {
	// CreateObject inserts a new record, assigning ID and CreatedAt.
	CreateObject(ctx context.Context, record *ObjectRecord) error

	// GetObject returns the record with the given id, or ErrObjectNotFound.
	GetObject(ctx context.Context, id uuid.UUID) (*ObjectRecord, error)

	// ListObjects returns all records ordered by CreatedAt descending,
	// insertion order preserved among equal timestamps.
	ListObjects(ctx context.Context) ([]*ObjectRecord, error)

	// DeleteObject removes the record with the given id, or returns
	// ErrObjectNotFound.
	DeleteObject(ctx context.Context, id uuid.UUID) error
}

// EventSink receives lifecycle events after the corresponding repository
// write has committed. Implementations must not assume they are called for
// operations that failed.
type EventSink interface {
	// ObjectCreated is fired after a record has been durably created.
	ObjectCreated(ctx context.Context, record *ObjectRecord) error

	// ObjectDeleted is fired after a record has been durably deleted.
	ObjectDeleted(ctx context.Context, id uuid.UUID) error
}
