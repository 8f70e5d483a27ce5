package objectboard

import (
	"context"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful when no live notification channel is wired up, and for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// ObjectCreated does nothing and returns nil
func (n *NoopEventSink) ObjectCreated(ctx context.Context, record *ObjectRecord) error {
	return nil
}

// ObjectDeleted does nothing and returns nil
func (n *NoopEventSink) ObjectDeleted(ctx context.Context, id uuid.UUID) error {
	return nil
}
