package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Mateuse/Gpu-Monitor/internal/api/dto"
	"github.com/Mateuse/Gpu-Monitor/internal/domain"
	"github.com/Mateuse/Gpu-Monitor/internal/poller"
	"github.com/gin-gonic/gin"
)

// Controller matches the poller's control and status surface. Declared
// here so handlers can be tested against a mock.
type Controller interface {
	Start(ctx context.Context, interval time.Duration) error
	Stop() error
	ManualRefresh()
	SetInterval(interval time.Duration) error
	State() poller.State
	Interval() time.Duration
	Stats() poller.Stats
}

// ControlHandler exposes the poller control interface over HTTP.
type ControlHandler struct {
	ctrl Controller
}

// NewControlHandler creates a new control handler
func NewControlHandler(ctrl Controller) *ControlHandler {
	return &ControlHandler{
		ctrl: ctrl,
	}
}

// Refresh triggers a one-shot poll. The result arrives through the
// snapshot stream, not this response.
func (h *ControlHandler) Refresh(c *gin.Context) {
	h.ctrl.ManualRefresh()
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
}

// Start begins the periodic schedule. The scheduling loop is not tied
// to the request context; it runs until stopped.
func (h *ControlHandler) Start(c *gin.Context) {
	var req dto.IntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "Invalid request",
			Message:   "body must contain interval_seconds",
			Timestamp: time.Now(),
		})
		return
	}

	interval := time.Duration(req.IntervalSeconds) * time.Second
	if err := h.ctrl.Start(context.Background(), interval); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrAlreadyRunning) {
			status = http.StatusConflict
		}
		c.JSON(status, dto.ErrorResponse{
			Error:     "cannot start poller",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "started",
		"interval_seconds": req.IntervalSeconds,
	})
}

// Stop cancels the periodic schedule.
func (h *ControlHandler) Stop(c *gin.Context) {
	if err := h.ctrl.Stop(); err != nil {
		if errors.Is(err, domain.ErrNotRunning) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Error:     "poller not running",
				Message:   err.Error(),
				Timestamp: time.Now(),
			})
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

// SetInterval updates the periodic interval. Takes effect on the next
// scheduled tick.
func (h *ControlHandler) SetInterval(c *gin.Context) {
	var req dto.IntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "Invalid request",
			Message:   "body must contain interval_seconds",
			Timestamp: time.Now(),
		})
		return
	}

	interval := time.Duration(req.IntervalSeconds) * time.Second
	if err := h.ctrl.SetInterval(interval); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "interval out of range",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "interval updated",
		"interval_seconds": req.IntervalSeconds,
	})
}
