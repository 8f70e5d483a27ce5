package objectboard

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Event names carried on the notification channel.
const (
	EventObjectCreated = "created"
	EventObjectDeleted = "deleted"
)

// Event is the payload broadcast to subscribers. Created events carry the
// full record; deleted events carry only the id.
type Event struct {
	Name     string        `json:"event"`
	Object   *ObjectRecord `json:"object,omitempty"`
	ObjectID string        `json:"id,omitempty"`
}

// Subscriber is a live connection registered with the Notifier. Notify must
// not block: a slow subscriber misses events rather than stalling a
// broadcast.
type Subscriber interface {
	Notify(event Event)
}

// Notifier fans out created/deleted events to every currently-connected
// subscriber, best-effort, at most once per connected subscriber per event.
// It holds no backlog: a subscriber connecting after a broadcast never sees
// it. Notifier implements EventSink so it can be wired into a Service.
type Notifier struct {
	mu          sync.RWMutex
	subscribers map[Subscriber]struct{}
}

// NewNotifier creates a Notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{
		subscribers: make(map[Subscriber]struct{}),
	}
}

// Subscribe registers a subscriber. No past events are replayed.
func (n *Notifier) Subscribe(sub Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers[sub] = struct{}{}
}

// Unsubscribe deregisters a subscriber. Unsubscribing a subscriber that was
// never registered is a no-op.
func (n *Notifier) Unsubscribe(sub Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subscribers, sub)
}

// SubscriberCount returns the number of currently-registered subscribers.
func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subscribers)
}

// BroadcastCreated sends the full record to every registered subscriber.
func (n *Notifier) BroadcastCreated(record *ObjectRecord) {
	n.broadcast(Event{Name: EventObjectCreated, Object: record})
}

// BroadcastDeleted sends only the identifier to every registered subscriber.
func (n *Notifier) BroadcastDeleted(id uuid.UUID) {
	n.broadcast(Event{Name: EventObjectDeleted, ObjectID: id.String()})
}

// broadcast iterates a snapshot of the subscriber set so that a concurrent
// connect or disconnect never races the iteration.
func (n *Notifier) broadcast(event Event) {
	n.mu.RLock()
	subs := make([]Subscriber, 0, len(n.subscribers))
	for sub := range n.subscribers {
		subs = append(subs, sub)
	}
	n.mu.RUnlock()

	for _, sub := range subs {
		sub.Notify(event)
	}
}

// EventSink implementation: broadcasts fire only after the service has
// committed the corresponding repository write.

// ObjectCreated broadcasts a created event for the record.
func (n *Notifier) ObjectCreated(ctx context.Context, record *ObjectRecord) error {
	n.BroadcastCreated(record)
	return nil
}

// ObjectDeleted broadcasts a deleted event for the id.
func (n *Notifier) ObjectDeleted(ctx context.Context, id uuid.UUID) error {
	n.BroadcastDeleted(id)
	return nil
}
