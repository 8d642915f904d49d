package storage

import (
	"github.com/Mateuse/Gpu-Monitor/internal/domain"
)

// SnapshotRepository is the presentation-layer cache of poll outcomes.
// It retains the most recent successful snapshot and the most recent
// failure independently: a failed poll never overwrites the last known
// good snapshot.
type SnapshotRepository interface {
	// SetSnapshot stores a successful poll result and clears the
	// last error.
	SetSnapshot(snap *domain.MetricSnapshot) error

	// SetError stores a failed poll result, leaving the last good
	// snapshot untouched.
	SetError(perr *domain.PollError) error

	// Latest returns the last known good snapshot, or ErrNoSnapshot
	// when no poll has succeeded yet.
	Latest() (*domain.MetricSnapshot, error)

	// LastError returns the most recent poll failure, or nil when
	// the latest completed poll succeeded.
	LastError() *domain.PollError

	// Counts returns the number of successful and failed polls
	// recorded since startup.
	Counts() (snapshots int64, errors int64)
}
