// Package bus fans poll outcomes out to subscribers. Every emission is
// delivered to all current subscribers, synchronously with respect to
// the publish call.
package bus

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Mateuse/Gpu-Monitor/internal/domain"
	"github.com/google/uuid"
)

// Subscriber receives poll outcomes. Exactly one of the two methods is
// invoked per completed poll. Calls arrive serially from the poller's
// emission path, so implementations need no internal ordering; slow
// implementations delay delivery to later subscribers.
type Subscriber interface {
	OnSnapshot(snap *domain.MetricSnapshot)
	OnError(perr *domain.PollError)
}

// SubscriberFuncs adapts bare functions to the Subscriber interface.
// Nil fields are skipped.
type SubscriberFuncs struct {
	Snapshot func(snap *domain.MetricSnapshot)
	Error    func(perr *domain.PollError)
}

func (s SubscriberFuncs) OnSnapshot(snap *domain.MetricSnapshot) {
	if s.Snapshot != nil {
		s.Snapshot(snap)
	}
}

func (s SubscriberFuncs) OnError(perr *domain.PollError) {
	if s.Error != nil {
		s.Error(perr)
	}
}

// Bus is a concurrency-safe subscriber registry with fan-out delivery.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber

	logger *slog.Logger

	// Statistics
	snapshotsDelivered atomic.Int64
	errorsDelivered    atomic.Int64
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}

	return &Bus{
		subscribers: make(map[string]Subscriber),
		logger:      logger.With("component", "bus"),
	}
}

// Subscribe registers a subscriber and returns its registration ID.
func (b *Bus) Subscribe(sub Subscriber) string {
	id := uuid.New().String()

	b.mu.Lock()
	b.subscribers[id] = sub
	total := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Debug("subscriber registered", "id", id, "total", total)
	return id
}

// Unsubscribe removes a subscriber. Unknown IDs are a no-op.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	delete(b.subscribers, id)
	b.mu.Unlock()

	b.logger.Debug("subscriber removed", "id", id)
}

// PublishSnapshot delivers a snapshot to every current subscriber.
func (b *Bus) PublishSnapshot(snap *domain.MetricSnapshot) {
	for _, sub := range b.snapshot() {
		sub.OnSnapshot(snap)
		b.snapshotsDelivered.Add(1)
	}
}

// PublishError delivers a poll error to every current subscriber.
func (b *Bus) PublishError(perr *domain.PollError) {
	for _, sub := range b.snapshot() {
		sub.OnError(perr)
		b.errorsDelivered.Add(1)
	}
}

// snapshot copies the subscriber set so delivery runs without holding
// the lock; a subscriber may unsubscribe from within its callback.
func (b *Bus) snapshot() []Subscriber {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := make([]Subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	return subs
}

// Stats returns delivery statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.subscribers)
	b.mu.RUnlock()

	return Stats{
		ActiveSubscribers:  active,
		SnapshotsDelivered: b.snapshotsDelivered.Load(),
		ErrorsDelivered:    b.errorsDelivered.Load(),
	}
}

// Stats holds bus delivery statistics.
type Stats struct {
	ActiveSubscribers  int
	SnapshotsDelivered int64
	ErrorsDelivered    int64
}
