package dto

import "time"

// DeviceResponse represents one GPU device in API responses.
// Decouples internal domain.DeviceMetrics from the API contract.
// Nil pointer fields serialize as absent: the tool reported no usable
// value for that metric.
type DeviceResponse struct {
	Index          int      `json:"index" example:"0"`
	Name           string   `json:"name" example:"NVIDIA A100-SXM4-80GB"`
	TemperatureC   *int     `json:"temperature_c,omitempty" example:"45"`
	UtilizationPct *int     `json:"utilization_pct,omitempty" example:"12"`
	MemoryUsedMB   *int     `json:"memory_used_mb,omitempty" example:"1024"`
	MemoryTotalMB  *int     `json:"memory_total_mb,omitempty" example:"40960"`
	MemoryPct      *int     `json:"memory_pct,omitempty" example:"2"`
	PowerW         *float64 `json:"power_w,omitempty" example:"70.5"`
}

// SnapshotResponse wraps the devices of one poll with its capture time.
type SnapshotResponse struct {
	Timestamp time.Time         `json:"timestamp" example:"2026-08-30T12:34:56Z"`
	Devices   []*DeviceResponse `json:"devices"`
	Total     int               `json:"total" example:"2"`
}

// RawResponse carries the unparsed tool output for the raw view.
type RawResponse struct {
	Timestamp  time.Time `json:"timestamp"`
	RawQuery   string    `json:"raw_query"`
	FullReport string    `json:"full_report,omitempty"`
}

// PollErrorResponse represents a failed poll in API responses.
type PollErrorResponse struct {
	Kind      string    `json:"kind" example:"tool_timeout"`
	Message   string    `json:"message" example:"diagnostic tool timed out"`
	RawOutput string    `json:"raw_output,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse reports poller and host state.
type StatusResponse struct {
	State           string             `json:"state" example:"running"`
	IntervalSeconds int                `json:"interval_seconds" example:"5"`
	PollsCompleted  int64              `json:"polls_completed" example:"120"`
	PollsSkipped    int64              `json:"polls_skipped" example:"1"`
	PollsFailed     int64              `json:"polls_failed" example:"3"`
	LastUpdated     *time.Time         `json:"last_updated,omitempty"`
	LastError       *PollErrorResponse `json:"last_error,omitempty"`
	Hostname        string             `json:"hostname,omitempty" example:"gpu-host-01"`
	Platform        string             `json:"platform,omitempty" example:"ubuntu"`
	UptimeSeconds   uint64             `json:"uptime_seconds,omitempty" example:"86400"`
}

// IntervalRequest is the body for interval control requests.
type IntervalRequest struct {
	IntervalSeconds int `json:"interval_seconds" binding:"required" example:"10"`
}
