package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mateuse/Gpu-Monitor/internal/api/dto"
	"github.com/Mateuse/Gpu-Monitor/internal/domain"
	"github.com/Mateuse/Gpu-Monitor/internal/poller"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/stretchr/testify/assert"
)

func TestStatusHandler_GetStatus_Running(t *testing.T) {
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	mockCtrl := &MockController{
		StateFunc: func() poller.State {
			return poller.StateRunning
		},
		IntervalFunc: func() time.Duration {
			return 10 * time.Second
		},
		StatsFunc: func() poller.Stats {
			return poller.Stats{PollsCompleted: 42, PollsSkipped: 1, PollsFailed: 3}
		},
	}
	mockRepo := &MockSnapshotRepository{
		LatestFunc: func() (*domain.MetricSnapshot, error) {
			return testSnapshot(ts), nil
		},
	}

	handler := NewStatusHandler(mockCtrl, mockRepo)
	handler.hostInfo = func() (*host.InfoStat, error) {
		return &host.InfoStat{
			Hostname: "gpu-host-01",
			Platform: "ubuntu",
			Uptime:   86400,
		}, nil
	}

	router, w := setupGinTest()
	router.GET("/status", handler.GetStatus)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.StatusResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "running", response.State)
	assert.Equal(t, 10, response.IntervalSeconds)
	assert.Equal(t, int64(42), response.PollsCompleted)
	assert.Equal(t, int64(1), response.PollsSkipped)
	assert.Equal(t, int64(3), response.PollsFailed)
	assert.NotNil(t, response.LastUpdated)
	assert.True(t, response.LastUpdated.Equal(ts))
	assert.Nil(t, response.LastError)
	assert.Equal(t, "gpu-host-01", response.Hostname)
	assert.Equal(t, "ubuntu", response.Platform)
	assert.Equal(t, uint64(86400), response.UptimeSeconds)
}

func TestStatusHandler_GetStatus_IdleNoSnapshot(t *testing.T) {
	mockCtrl := &MockController{}
	mockRepo := &MockSnapshotRepository{}

	handler := NewStatusHandler(mockCtrl, mockRepo)
	handler.hostInfo = func() (*host.InfoStat, error) {
		return nil, errors.New("host info unavailable")
	}

	router, w := setupGinTest()
	router.GET("/status", handler.GetStatus)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.StatusResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "idle", response.State)
	assert.Nil(t, response.LastUpdated)
	assert.Empty(t, response.Hostname)
}

func TestStatusHandler_GetStatus_WithLastError(t *testing.T) {
	errTime := time.Date(2026, 8, 30, 12, 5, 0, 0, time.UTC)
	mockCtrl := &MockController{
		StateFunc: func() poller.State {
			return poller.StateRunning
		},
	}
	mockRepo := &MockSnapshotRepository{
		LastErrorFunc: func() *domain.PollError {
			return &domain.PollError{
				Kind:      domain.ToolTimeout,
				Message:   "diagnostic tool timed out",
				Timestamp: errTime,
			}
		},
	}

	handler := NewStatusHandler(mockCtrl, mockRepo)
	handler.hostInfo = func() (*host.InfoStat, error) {
		return &host.InfoStat{}, nil
	}

	router, w := setupGinTest()
	router.GET("/status", handler.GetStatus)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.StatusResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotNil(t, response.LastError)
	assert.Equal(t, "tool_timeout", response.LastError.Kind)
	assert.Equal(t, "diagnostic tool timed out", response.LastError.Message)
}
