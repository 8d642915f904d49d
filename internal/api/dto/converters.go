package dto

import (
	"github.com/Mateuse/Gpu-Monitor/internal/domain"
)

// ToDeviceResponse converts domain.DeviceMetrics to dto.DeviceResponse
func ToDeviceResponse(d *domain.DeviceMetrics) *DeviceResponse {
	if d == nil {
		return nil
	}

	resp := &DeviceResponse{
		Index:          d.Index,
		Name:           d.Name,
		TemperatureC:   d.TemperatureC,
		UtilizationPct: d.UtilizationPct,
		MemoryUsedMB:   d.MemoryUsedMB,
		MemoryTotalMB:  d.MemoryTotalMB,
		PowerW:         d.PowerW,
	}

	if pct, ok := d.MemoryPct(); ok {
		resp.MemoryPct = &pct
	}

	return resp
}

// ToSnapshotResponse converts domain.MetricSnapshot to dto.SnapshotResponse
func ToSnapshotResponse(snap *domain.MetricSnapshot) *SnapshotResponse {
	if snap == nil {
		return nil
	}

	devices := make([]*DeviceResponse, 0, len(snap.Devices))
	for i := range snap.Devices {
		devices = append(devices, ToDeviceResponse(&snap.Devices[i]))
	}

	return &SnapshotResponse{
		Timestamp: snap.Timestamp,
		Devices:   devices,
		Total:     len(devices),
	}
}

// ToRawResponse extracts the raw texts of a snapshot.
func ToRawResponse(snap *domain.MetricSnapshot) *RawResponse {
	if snap == nil {
		return nil
	}

	return &RawResponse{
		Timestamp:  snap.Timestamp,
		RawQuery:   snap.RawQuery,
		FullReport: snap.FullReport,
	}
}

// ToPollErrorResponse converts domain.PollError to dto.PollErrorResponse
func ToPollErrorResponse(perr *domain.PollError) *PollErrorResponse {
	if perr == nil {
		return nil
	}

	return &PollErrorResponse{
		Kind:      string(perr.Kind),
		Message:   perr.Message,
		RawOutput: perr.RawOutput,
		Timestamp: perr.Timestamp,
	}
}
