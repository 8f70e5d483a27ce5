package objectboard

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Service defines the main interface for the objectboard library. It is the
// sole writer-of-record for the create/delete lifecycle of record/blob pairs
// and the only component permitted to call both stores for one logical
// operation.
type Service interface {
	// CreateObject uploads the image blob, then inserts the metadata record,
	// and returns the persisted record. A failed upload leaves no record; a
	// failed insert after a successful upload leaves an orphaned blob.
	CreateObject(ctx context.Context, req CreateObjectRequest) (*ObjectRecord, error)

	// GetObject returns the record with the given id, or ErrObjectNotFound.
	GetObject(ctx context.Context, id uuid.UUID) (*ObjectRecord, error)

	// ListObjects returns all records ordered by CreatedAt descending.
	ListObjects(ctx context.Context) ([]*ObjectRecord, error)

	// DeleteObject looks up the record, deletes its blob, then deletes the
	// record. Safe to retry: a vanished blob key is treated as success.
	DeleteObject(ctx context.Context, id uuid.UUID) error

	// DownloadImage returns the image bytes for the record with the given id.
	DownloadImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error)
}
