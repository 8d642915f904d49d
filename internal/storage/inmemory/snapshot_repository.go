package inmemory

import (
	"sync"

	"github.com/Mateuse/Gpu-Monitor/internal/domain"
)

// SnapshotRepository is an in-memory implementation of snapshot storage
// using mutex-protected fields. It doubles as a bus subscriber: wire it
// with bus.Subscribe(repo) and every poll outcome lands here.
//
// No history is retained; only the most recent snapshot and the most
// recent error are held, per the last-known-good cache contract.
type SnapshotRepository struct {
	mu        sync.RWMutex
	latest    *domain.MetricSnapshot
	lastError *domain.PollError

	snapshotCount int64
	errorCount    int64
}

// NewSnapshotRepository creates an empty repository.
func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

// SetSnapshot stores a successful poll result and clears the last error.
// Thread-safe for concurrent writes.
func (r *SnapshotRepository) SetSnapshot(snap *domain.MetricSnapshot) error {
	if snap == nil {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.latest = snap
	r.lastError = nil
	r.snapshotCount++
	return nil
}

// SetError stores a failed poll result. The last good snapshot is kept.
// Thread-safe for concurrent writes.
func (r *SnapshotRepository) SetError(perr *domain.PollError) error {
	if perr == nil {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastError = perr
	r.errorCount++
	return nil
}

// Latest returns the last known good snapshot.
// Thread-safe for concurrent reads.
func (r *SnapshotRepository) Latest() (*domain.MetricSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.latest == nil {
		return nil, domain.ErrNoSnapshot
	}
	return r.latest, nil
}

// LastError returns the most recent poll failure, or nil when the
// latest completed poll succeeded.
func (r *SnapshotRepository) LastError() *domain.PollError {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastError
}

// Counts returns the number of successful and failed polls recorded.
func (r *SnapshotRepository) Counts() (int64, int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshotCount, r.errorCount
}

// Clear resets the repository. Useful for testing.
func (r *SnapshotRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.latest = nil
	r.lastError = nil
	r.snapshotCount = 0
	r.errorCount = 0
}

// OnSnapshot implements bus.Subscriber.
func (r *SnapshotRepository) OnSnapshot(snap *domain.MetricSnapshot) {
	_ = r.SetSnapshot(snap)
}

// OnError implements bus.Subscriber.
func (r *SnapshotRepository) OnError(perr *domain.PollError) {
	_ = r.SetError(perr)
}
