package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Mateuse/Gpu-Monitor/internal/api/dto"
	"github.com/Mateuse/Gpu-Monitor/internal/domain"
	"github.com/Mateuse/Gpu-Monitor/internal/storage"
	"github.com/gin-gonic/gin"
)

// SnapshotHandler serves the last known good snapshot and its devices.
type SnapshotHandler struct {
	repo storage.SnapshotRepository
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(repo storage.SnapshotRepository) *SnapshotHandler {
	return &SnapshotHandler{
		repo: repo,
	}
}

// GetSnapshot returns the most recent successful snapshot.
func (h *SnapshotHandler) GetSnapshot(c *gin.Context) {
	snap, err := h.repo.Latest()
	if err != nil {
		if errors.Is(err, domain.ErrNoSnapshot) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:     "snapshot not available",
				Message:   "no poll has completed successfully yet",
				Timestamp: time.Now(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     "Failed to retrieve snapshot",
			Message:   "Internal server error occurred",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ToSnapshotResponse(snap))
}

// GetRaw returns the unparsed tool output of the latest snapshot.
func (h *SnapshotHandler) GetRaw(c *gin.Context) {
	snap, err := h.repo.Latest()
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:     "snapshot not available",
			Message:   "no poll has completed successfully yet",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ToRawResponse(snap))
}

// ListDevices returns all devices of the latest snapshot.
func (h *SnapshotHandler) ListDevices(c *gin.Context) {
	snap, err := h.repo.Latest()
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:     "snapshot not available",
			Message:   "no poll has completed successfully yet",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ToSnapshotResponse(snap).Devices)
}

// GetDevice returns one device of the latest snapshot by index.
func (h *SnapshotHandler) GetDevice(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "Invalid request",
			Message:   "device index must be a non-negative integer",
			Timestamp: time.Now(),
		})
		return
	}

	snap, err := h.repo.Latest()
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:     "snapshot not available",
			Message:   "no poll has completed successfully yet",
			Timestamp: time.Now(),
		})
		return
	}

	device, ok := snap.Device(index)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:     "device not found",
			Message:   "no device with index " + c.Param("index") + " in the latest snapshot",
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ToDeviceResponse(device))
}
