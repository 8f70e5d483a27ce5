package objectboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	eventSink  EventSink
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the metadata repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}

	return s, nil
}

func (s *service) CreateObject(ctx context.Context, req CreateObjectRequest) (*ObjectRecord, error) {
	if req.Title == "" {
		return nil, ErrEmptyTitle
	}
	if req.Description == "" {
		return nil, ErrEmptyDescription
	}
	if req.Data == nil || req.File.Size <= 0 {
		return nil, ErrEmptyFile
	}

	// Blob write precedes the metadata insert: if the upload fails no record
	// is created; if the insert fails an orphaned blob remains until an
	// out-of-band cleanup.
	key := NewBlobKey(req.File.FileName)
	imageURL, err := s.blobStore.Upload(ctx, key, req.Data, req.File.Size, req.File.ContentType)
	if err != nil {
		return nil, &StorageError{Key: key, Op: "upload", Err: err}
	}

	record := &ObjectRecord{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    imageURL,
	}
	if err := s.repository.CreateObject(ctx, record); err != nil {
		return nil, &RepositoryError{ObjectID: record.ID, Op: "insert", Err: err}
	}

	s.fireCreated(ctx, record)

	return record, nil
}

func (s *service) GetObject(ctx context.Context, id uuid.UUID) (*ObjectRecord, error) {
	return s.repository.GetObject(ctx, id)
}

func (s *service) ListObjects(ctx context.Context) ([]*ObjectRecord, error) {
	return s.repository.ListObjects(ctx)
}

func (s *service) DeleteObject(ctx context.Context, id uuid.UUID) error {
	record, err := s.repository.GetObject(ctx, id)
	if err != nil {
		return err
	}

	key, err := ParseImageURL(record.ImageURL)
	if err != nil {
		return err
	}

	// Blob delete precedes the record delete: a partial failure leaves a
	// record whose imageUrl no longer resolves rather than a leaked blob.
	if err := s.blobStore.Delete(ctx, key); err != nil {
		return &StorageError{Key: key, Op: "delete", Err: err}
	}

	if err := s.repository.DeleteObject(ctx, id); err != nil {
		return &RepositoryError{ObjectID: id, Op: "delete", Err: err}
	}

	s.fireDeleted(ctx, id)

	return nil
}

func (s *service) DownloadImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, error) {
	record, err := s.repository.GetObject(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := ParseImageURL(record.ImageURL)
	if err != nil {
		return nil, err
	}

	return s.blobStore.Download(ctx, key)
}

// fireCreated and fireDeleted run only after the corresponding repository
// write committed. Sink failures are logged and never propagated.

func (s *service) fireCreated(ctx context.Context, record *ObjectRecord) {
	if err := s.eventSink.ObjectCreated(ctx, record); err != nil {
		slog.Warn("object created event sink failed", "object_id", record.ID, "error", err)
	}
}

func (s *service) fireDeleted(ctx context.Context, id uuid.UUID) {
	if err := s.eventSink.ObjectDeleted(ctx, id); err != nil {
		slog.Warn("object deleted event sink failed", "object_id", id, "error", err)
	}
}
