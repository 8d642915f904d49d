package handlers

import (
	"context"
	"net/http/httptest"
	"time"

	"github.com/Mateuse/Gpu-Monitor/internal/domain"
	"github.com/Mateuse/Gpu-Monitor/internal/poller"
	"github.com/gin-gonic/gin"
)

// MockSnapshotRepository implements storage.SnapshotRepository for testing
type MockSnapshotRepository struct {
	SetSnapshotFunc func(snap *domain.MetricSnapshot) error
	SetErrorFunc    func(perr *domain.PollError) error
	LatestFunc      func() (*domain.MetricSnapshot, error)
	LastErrorFunc   func() *domain.PollError
	CountsFunc      func() (int64, int64)
}

func (m *MockSnapshotRepository) SetSnapshot(snap *domain.MetricSnapshot) error {
	if m.SetSnapshotFunc != nil {
		return m.SetSnapshotFunc(snap)
	}
	return nil
}

func (m *MockSnapshotRepository) SetError(perr *domain.PollError) error {
	if m.SetErrorFunc != nil {
		return m.SetErrorFunc(perr)
	}
	return nil
}

func (m *MockSnapshotRepository) Latest() (*domain.MetricSnapshot, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc()
	}
	return nil, domain.ErrNoSnapshot
}

func (m *MockSnapshotRepository) LastError() *domain.PollError {
	if m.LastErrorFunc != nil {
		return m.LastErrorFunc()
	}
	return nil
}

func (m *MockSnapshotRepository) Counts() (int64, int64) {
	if m.CountsFunc != nil {
		return m.CountsFunc()
	}
	return 0, 0
}

// MockController implements Controller for testing
type MockController struct {
	StartFunc         func(ctx context.Context, interval time.Duration) error
	StopFunc          func() error
	ManualRefreshFunc func()
	SetIntervalFunc   func(interval time.Duration) error
	StateFunc         func() poller.State
	IntervalFunc      func() time.Duration
	StatsFunc         func() poller.Stats
}

func (m *MockController) Start(ctx context.Context, interval time.Duration) error {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, interval)
	}
	return nil
}

func (m *MockController) Stop() error {
	if m.StopFunc != nil {
		return m.StopFunc()
	}
	return nil
}

func (m *MockController) ManualRefresh() {
	if m.ManualRefreshFunc != nil {
		m.ManualRefreshFunc()
	}
}

func (m *MockController) SetInterval(interval time.Duration) error {
	if m.SetIntervalFunc != nil {
		return m.SetIntervalFunc(interval)
	}
	return nil
}

func (m *MockController) State() poller.State {
	if m.StateFunc != nil {
		return m.StateFunc()
	}
	return poller.StateIdle
}

func (m *MockController) Interval() time.Duration {
	if m.IntervalFunc != nil {
		return m.IntervalFunc()
	}
	return 5 * time.Second
}

func (m *MockController) Stats() poller.Stats {
	if m.StatsFunc != nil {
		return m.StatsFunc()
	}
	return poller.Stats{}
}

func setupGinTest() (*gin.Engine, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	w := httptest.NewRecorder()
	return router, w
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func testSnapshot(ts time.Time) *domain.MetricSnapshot {
	return &domain.MetricSnapshot{
		Timestamp: ts,
		Devices: []domain.DeviceMetrics{
			{
				Index:          0,
				Name:           "NVIDIA A100-SXM4-80GB",
				TemperatureC:   intPtr(45),
				UtilizationPct: intPtr(12),
				MemoryUsedMB:   intPtr(1024),
				MemoryTotalMB:  intPtr(40960),
				PowerW:         floatPtr(70.5),
			},
			{
				Index: 1,
				Name:  "NVIDIA A100-SXM4-80GB",
			},
		},
		RawQuery: "0, NVIDIA A100-SXM4-80GB, 45, 12, 1024, 40960, 70.5",
	}
}
