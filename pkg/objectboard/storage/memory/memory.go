package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/heyama/objectboard/pkg/objectboard"
)

// Backend is an in-memory implementation of the objectboard.BlobStore
// interface, intended for tests and local development.
type Backend struct {
	mu          sync.RWMutex
	baseURL     string
	blobs       map[string][]byte
	contentType map[string]string
}

// New creates a new in-memory storage backend. URLs are formed under the
// given base, e.g. "memory://bucket".
func New(baseURL string) *Backend {
	if baseURL == "" {
		baseURL = "memory://objectboard"
	}
	return &Backend{
		baseURL:     baseURL,
		blobs:       make(map[string][]byte),
		contentType: make(map[string]string),
	}
}

// Upload stores the blob and returns its public URL.
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[key] = data
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	b.contentType[key] = contentType

	return b.URL(key), nil
}

// Download returns the blob stored under key.
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.blobs[key]
	if !exists {
		return nil, objectboard.ErrBlobNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the blob stored under key. Absent keys are success.
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.blobs, key)
	delete(b.contentType, key)
	return nil
}

// URL returns the public URL for key.
func (b *Backend) URL(key string) string {
	return fmt.Sprintf("%s/%s", b.baseURL, key)
}
