package objectboard

import (
	"time"

	"github.com/google/uuid"
)

// ObjectRecord is the durable unit of metadata describing one registered
// object. Records are immutable after creation: there is no update operation,
// only create and delete.
type ObjectRecord struct {
	// ID is assigned by the repository at insert time and never reused.
	ID uuid.UUID `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// ImageURL is the publicly resolvable locator of the associated blob,
	// set exactly once at creation from the blob store's upload result.
	ImageURL string `json:"image_url"`

	// CreatedAt is assigned by the repository at insert time and is the sole
	// ordering key for listings (descending).
	CreatedAt time.Time `json:"created_at"`
}

// FileInfo carries the caller-supplied attributes of an uploaded image. The
// original filename is used only for extension inference; blob keys are never
// derived from user-supplied names.
type FileInfo struct {
	FileName    string
	ContentType string
	Size        int64
}
