package objectboard_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyama/objectboard/pkg/objectboard"
	"github.com/heyama/objectboard/pkg/objectboard/repo/memory"
	memorystorage "github.com/heyama/objectboard/pkg/objectboard/storage/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []objectboard.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []objectboard.Option{},
			expectError: true,
		},
		{
			name: "repository only should fail",
			options: []objectboard.Option{
				objectboard.WithRepository(memory.New()),
			},
			expectError: true,
		},
		{
			name: "repository and blob store should succeed",
			options: []objectboard.Option{
				objectboard.WithRepository(memory.New()),
				objectboard.WithBlobStore(memorystorage.New("")),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := objectboard.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T) (objectboard.Service, *memorystorage.Backend) {
	t.Helper()

	store := memorystorage.New("")
	svc, err := objectboard.New(
		objectboard.WithRepository(memory.New()),
		objectboard.WithBlobStore(store),
	)
	require.NoError(t, err)

	return svc, store
}

func createReq(title, description string, data []byte, fileName string) objectboard.CreateObjectRequest {
	return objectboard.CreateObjectRequest{
		Title:       title,
		Description: description,
		Data:        bytes.NewReader(data),
		File: objectboard.FileInfo{
			FileName:    fileName,
			ContentType: "image/jpeg",
			Size:        int64(len(data)),
		},
	}
}

func TestCreateObjectValidation(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     objectboard.CreateObjectRequest
		wantErr error
	}{
		{
			name:    "empty title",
			req:     createReq("", "desc", []byte("img"), "a.jpg"),
			wantErr: objectboard.ErrEmptyTitle,
		},
		{
			name:    "empty description",
			req:     createReq("Vase", "", []byte("img"), "a.jpg"),
			wantErr: objectboard.ErrEmptyDescription,
		},
		{
			name:    "empty file",
			req:     createReq("Vase", "desc", nil, "a.jpg"),
			wantErr: objectboard.ErrEmptyFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := svc.CreateObject(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, record)
		})
	}
}

func TestCreateAndFindRoundTrip(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	imageBytes := bytes.Repeat([]byte{0xFF, 0xD8}, 100) // 200-byte fake JPEG

	record, err := svc.CreateObject(ctx, createReq("Vase", "Blue ceramic vase", imageBytes, "vase.jpg"))
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, "Vase", record.Title)
	assert.Equal(t, "Blue ceramic vase", record.Description)
	assert.True(t, strings.HasSuffix(record.ImageURL, ".jpg"), "image url should keep the extension: %s", record.ImageURL)
	assert.False(t, record.CreatedAt.IsZero())

	found, err := svc.GetObject(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
	assert.Equal(t, record.Title, found.Title)
	assert.Equal(t, record.Description, found.Description)
	assert.Equal(t, record.ImageURL, found.ImageURL)

	// The stored blob resolves to the uploaded bytes
	key, err := objectboard.ParseImageURL(found.ImageURL)
	require.NoError(t, err)
	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, imageBytes, stored)

	// DownloadImage resolves through the record the same way
	rc2, err := svc.DownloadImage(ctx, record.ID)
	require.NoError(t, err)
	defer rc2.Close()
	viaService, err := io.ReadAll(rc2)
	require.NoError(t, err)
	assert.Equal(t, imageBytes, viaService)
}

func TestListObjectsOrder(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for _, title := range []string{"first", "second", "third"} {
		record, err := svc.CreateObject(ctx, createReq(title, "desc", []byte("img"), title+".png"))
		require.NoError(t, err)
		ids = append(ids, record.ID)
	}

	records, err := svc.ListObjects(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i := 1; i < len(records); i++ {
		assert.False(t, records[i-1].CreatedAt.Before(records[i].CreatedAt),
			"listing must be non-increasing in created_at")
	}

	listed := make(map[uuid.UUID]bool)
	for _, record := range records {
		listed[record.ID] = true
	}
	for _, id := range ids {
		assert.True(t, listed[id])
	}
}

func TestDeleteObject(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	record, err := svc.CreateObject(ctx, createReq("Vase", "desc", []byte("img"), "vase.jpg"))
	require.NoError(t, err)

	key, err := objectboard.ParseImageURL(record.ImageURL)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteObject(ctx, record.ID))

	// Record is gone
	_, err = svc.GetObject(ctx, record.ID)
	assert.ErrorIs(t, err, objectboard.ErrObjectNotFound)

	// Blob is gone
	_, err = store.Download(ctx, key)
	assert.ErrorIs(t, err, objectboard.ErrBlobNotFound)

	// Retrying the delete reports not-found, never a store crash
	err = svc.DeleteObject(ctx, record.ID)
	assert.ErrorIs(t, err, objectboard.ErrObjectNotFound)
}

func TestDeleteUnknownObject(t *testing.T) {
	svc, _ := setupTestService(t)

	err := svc.DeleteObject(context.Background(), uuid.New())
	assert.ErrorIs(t, err, objectboard.ErrObjectNotFound)
}

func TestCreateObjectIsolation(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	first, err := svc.CreateObject(ctx, createReq("A", "desc", []byte("aaa"), "a.png"))
	require.NoError(t, err)

	second, err := svc.CreateObject(ctx, createReq("B", "desc", []byte("bbb"), "b.png"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ImageURL, second.ImageURL)

	// Creating B did not disturb A
	got, err := svc.GetObject(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ImageURL, got.ImageURL)
}

// failingBlobStore rejects every operation.
type failingBlobStore struct{}

var errStoreDown = errors.New("store unavailable")

func (f *failingBlobStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	return "", errStoreDown
}

func (f *failingBlobStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errStoreDown
}

func (f *failingBlobStore) Delete(ctx context.Context, key string) error {
	return errStoreDown
}

func (f *failingBlobStore) URL(key string) string { return "" }

// failingRepository rejects inserts and deletes but reads through.
type failingRepository struct {
	objectboard.Repository
	failInsert bool
	failDelete bool
}

var errDBDown = errors.New("database unavailable")

func (f *failingRepository) CreateObject(ctx context.Context, record *objectboard.ObjectRecord) error {
	if f.failInsert {
		return errDBDown
	}
	return f.Repository.CreateObject(ctx, record)
}

func (f *failingRepository) DeleteObject(ctx context.Context, id uuid.UUID) error {
	if f.failDelete {
		return errDBDown
	}
	return f.Repository.DeleteObject(ctx, id)
}

func TestCreateBlobWriteFailureLeavesNoRecord(t *testing.T) {
	repo := memory.New()
	svc, err := objectboard.New(
		objectboard.WithRepository(repo),
		objectboard.WithBlobStore(&failingBlobStore{}),
	)
	require.NoError(t, err)

	ctx := context.Background()
	record, err := svc.CreateObject(ctx, createReq("Vase", "desc", []byte("img"), "vase.jpg"))
	assert.Nil(t, record)

	var storageErr *objectboard.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "upload", storageErr.Op)
	assert.ErrorIs(t, err, errStoreDown)

	records, err := repo.ListObjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, records, "a failed blob write must not leave a record")
}

func TestCreateMetadataFailureLeavesOrphanedBlob(t *testing.T) {
	store := memorystorage.New("")
	svc, err := objectboard.New(
		objectboard.WithRepository(&failingRepository{Repository: memory.New(), failInsert: true}),
		objectboard.WithBlobStore(store),
	)
	require.NoError(t, err)

	ctx := context.Background()
	record, err := svc.CreateObject(ctx, createReq("Vase", "desc", []byte("img"), "vase.jpg"))
	assert.Nil(t, record)

	var repoErr *objectboard.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "insert", repoErr.Op)
	assert.ErrorIs(t, err, errDBDown)
}

func TestDeleteMetadataFailureLeavesDanglingRecord(t *testing.T) {
	repo := &failingRepository{Repository: memory.New()}
	store := memorystorage.New("")
	svc, err := objectboard.New(
		objectboard.WithRepository(repo),
		objectboard.WithBlobStore(store),
	)
	require.NoError(t, err)

	ctx := context.Background()
	record, err := svc.CreateObject(ctx, createReq("Vase", "desc", []byte("img"), "vase.jpg"))
	require.NoError(t, err)

	repo.failDelete = true
	err = svc.DeleteObject(ctx, record.ID)

	var repoErr *objectboard.RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "delete", repoErr.Op)

	// The record survives with a dangling image url: the blob is already gone
	key, err := objectboard.ParseImageURL(record.ImageURL)
	require.NoError(t, err)
	_, err = store.Download(ctx, key)
	assert.ErrorIs(t, err, objectboard.ErrBlobNotFound)

	got, err := svc.GetObject(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ImageURL, got.ImageURL)

	// A later retry, once the metadata store recovers, converges: the blob
	// delete of the vanished key is treated as success.
	repo.failDelete = false
	require.NoError(t, svc.DeleteObject(ctx, record.ID))
	_, err = svc.GetObject(ctx, record.ID)
	assert.ErrorIs(t, err, objectboard.ErrObjectNotFound)
}
