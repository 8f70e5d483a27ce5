package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heyama/objectboard/pkg/objectboard"
)

// Repository implements objectboard.Repository using in-memory storage.
type Repository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*objectboard.ObjectRecord
	order   []uuid.UUID // insertion order, the tiebreak for equal timestamps
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		records: make(map[uuid.UUID]*objectboard.ObjectRecord),
	}
}

func (r *Repository) CreateObject(ctx context.Context, record *objectboard.ObjectRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The store assigns identity and creation time
	record.ID = uuid.New()
	record.CreatedAt = time.Now().UTC()

	// Keep a copy to avoid external modifications
	recordCopy := *record
	r.records[record.ID] = &recordCopy
	r.order = append(r.order, record.ID)

	return nil
}

func (r *Repository) GetObject(ctx context.Context, id uuid.UUID) (*objectboard.ObjectRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, objectboard.ErrObjectNotFound
	}

	recordCopy := *record
	return &recordCopy, nil
}

func (r *Repository) ListObjects(ctx context.Context) ([]*objectboard.ObjectRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*objectboard.ObjectRecord, 0, len(r.records))
	for _, id := range r.order {
		record, exists := r.records[id]
		if !exists {
			continue
		}
		recordCopy := *record
		result = append(result, &recordCopy)
	}

	// Sort by created_at descending; the stable sort preserves insertion
	// order among equal timestamps.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) DeleteObject(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return objectboard.ErrObjectNotFound
	}

	delete(r.records, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}
