package objectboard

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// BlobNamespace is the key prefix grouping object images within a bucket.
const BlobNamespace = "objects"

// NewBlobKey generates a fresh blob key scoped to the objects namespace. The
// key is built from a random UUID plus the extension of the original
// filename, never from the filename itself, which rules out collisions and
// path injection from user-supplied names.
func NewBlobKey(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%s%s", BlobNamespace, uuid.New(), ext)
}

// ParseImageURL recovers the blob key from a stored image URL by locating the
// objects namespace segment. It fails with ErrInvalidImageURL when the URL
// does not contain the namespace, which never happens for records created by
// this library.
func ParseImageURL(imageURL string) (string, error) {
	marker := "/" + BlobNamespace + "/"
	idx := strings.LastIndex(imageURL, marker)
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidImageURL, imageURL)
	}
	key := imageURL[idx+1:]
	if key == BlobNamespace+"/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidImageURL, imageURL)
	}
	return key, nil
}
