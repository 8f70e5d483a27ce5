package objectboard

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrObjectNotFound indicates no record exists for the given id. It is a
	// normal outcome for lookups and deletes of unknown ids, distinct from
	// store-connectivity failures.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBlobNotFound indicates a blob was not found in the blob store.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrInvalidImageURL indicates a stored image URL does not contain the
	// expected blob namespace. Records created by this library always carry a
	// parseable URL, so this is an invariant-violation signal rather than a
	// user error.
	ErrInvalidImageURL = errors.New("image url does not contain blob namespace")

	// ErrEmptyTitle, ErrEmptyDescription and ErrEmptyFile reject invalid
	// create input before any store is touched.
	ErrEmptyTitle       = errors.New("title is required")
	ErrEmptyDescription = errors.New("description is required")
	ErrEmptyFile        = errors.New("image file is required")
)

// StorageError represents a failed blob store operation. Op is "upload" or
// "delete".
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("blob %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// RepositoryError represents a failed metadata store operation. Op is
// "insert" or "delete".
type RepositoryError struct {
	ObjectID uuid.UUID
	Op       string
	Err      error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("record %s failed for object %s: %v", e.Op, e.ObjectID, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}
