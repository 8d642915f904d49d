package bus

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mateuse/Gpu-Monitor/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot() *domain.MetricSnapshot {
	return &domain.MetricSnapshot{
		Timestamp: time.Now().UTC(),
		Devices:   []domain.DeviceMetrics{{Index: 0, Name: "GPU"}},
	}
}

func TestBus_SubscribeAndPublish(t *testing.T) {
	b := NewBus(testLogger())

	var got *domain.MetricSnapshot
	b.Subscribe(SubscriberFuncs{
		Snapshot: func(snap *domain.MetricSnapshot) { got = snap },
	})

	snap := testSnapshot()
	b.PublishSnapshot(snap)

	require.NotNil(t, got)
	assert.Equal(t, snap, got)
}

func TestBus_FanOutToAllSubscribers(t *testing.T) {
	b := NewBus(testLogger())

	counts := make([]int, 3)
	for i := 0; i < 3; i++ {
		i := i
		b.Subscribe(SubscriberFuncs{
			Snapshot: func(*domain.MetricSnapshot) { counts[i]++ },
		})
	}

	b.PublishSnapshot(testSnapshot())
	b.PublishSnapshot(testSnapshot())

	for i, n := range counts {
		assert.Equal(t, 2, n, "subscriber %d", i)
	}
}

func TestBus_PublishError(t *testing.T) {
	b := NewBus(testLogger())

	var got *domain.PollError
	b.Subscribe(SubscriberFuncs{
		Error: func(perr *domain.PollError) { got = perr },
	})

	perr := &domain.PollError{Kind: domain.ToolTimeout, Message: "slow"}
	b.PublishError(perr)

	require.NotNil(t, got)
	assert.Equal(t, domain.ToolTimeout, got.Kind)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus(testLogger())

	delivered := 0
	id := b.Subscribe(SubscriberFuncs{
		Snapshot: func(*domain.MetricSnapshot) { delivered++ },
	})

	b.PublishSnapshot(testSnapshot())
	b.Unsubscribe(id)
	b.PublishSnapshot(testSnapshot())

	assert.Equal(t, 1, delivered)
}

func TestBus_UnsubscribeUnknownID(t *testing.T) {
	b := NewBus(testLogger())
	b.Unsubscribe("no-such-id")

	assert.Equal(t, 0, b.Stats().ActiveSubscribers)
}

func TestBus_PublishWithNoSubscribers(t *testing.T) {
	b := NewBus(testLogger())

	b.PublishSnapshot(testSnapshot())
	b.PublishError(&domain.PollError{Kind: domain.ParseFailure})

	stats := b.Stats()
	assert.Equal(t, int64(0), stats.SnapshotsDelivered)
	assert.Equal(t, int64(0), stats.ErrorsDelivered)
}

func TestBus_Stats(t *testing.T) {
	b := NewBus(testLogger())

	b.Subscribe(SubscriberFuncs{})
	b.Subscribe(SubscriberFuncs{})

	b.PublishSnapshot(testSnapshot())
	b.PublishError(&domain.PollError{Kind: domain.ParseFailure})

	stats := b.Stats()
	assert.Equal(t, 2, stats.ActiveSubscribers)
	assert.Equal(t, int64(2), stats.SnapshotsDelivered)
	assert.Equal(t, int64(2), stats.ErrorsDelivered)
}

func TestBus_SubscriberCanUnsubscribeDuringDelivery(t *testing.T) {
	b := NewBus(testLogger())

	var id string
	id = b.Subscribe(SubscriberFuncs{
		Snapshot: func(*domain.MetricSnapshot) { b.Unsubscribe(id) },
	})

	b.PublishSnapshot(testSnapshot())
	b.PublishSnapshot(testSnapshot())

	assert.Equal(t, int64(1), b.Stats().SnapshotsDelivered)
}
