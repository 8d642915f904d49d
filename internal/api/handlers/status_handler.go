package handlers

import (
	"net/http"

	"github.com/Mateuse/Gpu-Monitor/internal/api/dto"
	"github.com/Mateuse/Gpu-Monitor/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/host"
)

// StatusHandler reports poller state alongside host metadata.
type StatusHandler struct {
	ctrl Controller
	repo storage.SnapshotRepository

	// hostInfo is swappable for tests.
	hostInfo func() (*host.InfoStat, error)
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(ctrl Controller, repo storage.SnapshotRepository) *StatusHandler {
	return &StatusHandler{
		ctrl:     ctrl,
		repo:     repo,
		hostInfo: host.Info,
	}
}

// GetStatus returns the poller state machine position, poll counters,
// the last failure if any, and best-effort host information.
func (h *StatusHandler) GetStatus(c *gin.Context) {
	stats := h.ctrl.Stats()

	resp := dto.StatusResponse{
		State:           h.ctrl.State().String(),
		IntervalSeconds: int(h.ctrl.Interval().Seconds()),
		PollsCompleted:  stats.PollsCompleted,
		PollsSkipped:    stats.PollsSkipped,
		PollsFailed:     stats.PollsFailed,
	}

	if snap, err := h.repo.Latest(); err == nil {
		ts := snap.Timestamp
		resp.LastUpdated = &ts
	}
	if perr := h.repo.LastError(); perr != nil {
		resp.LastError = dto.ToPollErrorResponse(perr)
	}

	// Host details are informational only; failures leave the
	// fields empty.
	if info, err := h.hostInfo(); err == nil {
		resp.Hostname = info.Hostname
		resp.Platform = info.Platform
		resp.UptimeSeconds = info.Uptime
	}

	c.JSON(http.StatusOK, resp)
}
