package domain

import "time"

// DeviceMetrics holds the metrics reported for a single physical GPU in
// one poll. Numeric fields are pointers: nil means the tool printed no
// usable value for that field (nvidia-smi reports "N/A" or "[N/A]" for
// metrics a device does not expose).
type DeviceMetrics struct {
	// Index is the logical device index as reported by nvidia-smi.
	// Unique within a snapshot, non-negative.
	Index int `json:"index"`

	// Name is the display name of the device.
	// Example: "NVIDIA A100-SXM4-80GB"
	Name string `json:"name"`

	// TemperatureC is the core temperature in degrees Celsius.
	TemperatureC *int `json:"temperature_c,omitempty"`

	// UtilizationPct is the GPU utilization percentage (0-100).
	UtilizationPct *int `json:"utilization_pct,omitempty"`

	// MemoryUsedMB and MemoryTotalMB are framebuffer memory in MiB.
	// When both are present, MemoryUsedMB <= MemoryTotalMB.
	MemoryUsedMB  *int `json:"memory_used_mb,omitempty"`
	MemoryTotalMB *int `json:"memory_total_mb,omitempty"`

	// PowerW is the current power draw in watts.
	PowerW *float64 `json:"power_w,omitempty"`
}

// MemoryPct returns the memory usage percentage, or false when either
// memory field is unavailable or the total is zero.
func (d *DeviceMetrics) MemoryPct() (int, bool) {
	if d.MemoryUsedMB == nil || d.MemoryTotalMB == nil || *d.MemoryTotalMB == 0 {
		return 0, false
	}
	return (*d.MemoryUsedMB * 100) / *d.MemoryTotalMB, true
}

// MetricSnapshot is one complete set of per-device metrics from a single
// successful poll. Snapshots are immutable value objects; the poller
// creates a fresh one per poll and never mutates a delivered snapshot.
type MetricSnapshot struct {
	// Timestamp is the capture time of the poll.
	Timestamp time.Time `json:"timestamp"`

	// Devices is ordered by input line order, which nvidia-smi emits
	// ascending by device index. The parser does not re-sort.
	Devices []DeviceMetrics `json:"devices"`

	// RawQuery preserves the CSV text the snapshot was parsed from,
	// for the raw output view.
	RawQuery string `json:"raw_query,omitempty"`

	// FullReport is the human-readable `nvidia-smi` table captured
	// alongside the query, when available. Best effort: empty when
	// the second invocation failed.
	FullReport string `json:"full_report,omitempty"`
}

// Device returns the device with the given index, or false when the
// snapshot has no such device.
func (s *MetricSnapshot) Device(index int) (*DeviceMetrics, bool) {
	for i := range s.Devices {
		if s.Devices[i].Index == index {
			return &s.Devices[i], true
		}
	}
	return nil, false
}
