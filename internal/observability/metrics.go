// Package observability holds Prometheus self-metrics for the monitor
// process. These count the monitor's own behavior, not GPU conditions.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Poll outcome label values for PollsTotal.
const (
	OutcomeSuccess      = "success"
	OutcomeNotFound     = "tool_not_found"
	OutcomeTimeout      = "tool_timeout"
	OutcomeNonZeroExit  = "tool_nonzero_exit"
	OutcomeParseFailure = "parse_failure"
	OutcomeSkipped      = "skipped"
)

// Metrics holds all Prometheus metrics, registered on a custom registry
// to avoid polluting the global default.
type Metrics struct {
	Registry *prometheus.Registry

	// PollsTotal counts completed and skipped poll triggers by outcome.
	PollsTotal *prometheus.CounterVec

	// PollDuration observes wall time of completed polls in seconds.
	PollDuration prometheus.Histogram

	// ParseLinesSkipped counts tool output lines the parser dropped.
	ParseLinesSkipped prometheus.Counter

	// DevicesReported is the device count in the latest snapshot.
	DevicesReported prometheus.Gauge

	// Subscribers is the current number of bus subscribers.
	Subscribers prometheus.Gauge
}

// NewMetrics creates a Metrics instance with everything registered.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		PollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gpumon_polls_total",
			Help: "Total number of poll triggers by outcome.",
		}, []string{"outcome"}),

		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gpumon_poll_duration_seconds",
			Help:    "Duration of completed polls in seconds.",
			Buckets: prometheus.DefBuckets,
		}),

		ParseLinesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gpumon_parse_lines_skipped_total",
			Help: "Total number of tool output lines dropped by the parser.",
		}),

		DevicesReported: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gpumon_devices_reported",
			Help: "Number of devices in the most recent snapshot.",
		}),

		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gpumon_subscribers",
			Help: "Current number of snapshot stream subscribers.",
		}),
	}

	reg.MustRegister(
		m.PollsTotal,
		m.PollDuration,
		m.ParseLinesSkipped,
		m.DevicesReported,
		m.Subscribers,
	)

	return m
}
