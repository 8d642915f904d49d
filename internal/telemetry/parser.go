// Package telemetry converts nvidia-smi CSV query output into device
// metric records.
package telemetry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mateuse/Gpu-Monitor/internal/domain"
)

// fieldsPerLine is the expected field count per CSV line, matching the
// seven fields requested from the tool.
const fieldsPerLine = 7

// Warning records a non-fatal parse anomaly: a dropped line or a
// corrected field.
type Warning struct {
	// Line is the 1-based line number in the raw input.
	Line int

	// Text is the offending line, trimmed.
	Text string

	// Reason is a human-readable explanation.
	Reason string
}

// Parser converts raw CSV text into DeviceMetrics records. Stateless
// and safe for concurrent use.
type Parser struct{}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse splits raw text into lines and converts each well-formed line
// into a DeviceMetrics record, preserving input order.
//
// Blank lines are skipped. A line with the wrong field count, or one
// whose index field is not a non-negative integer, is dropped and
// recorded as a warning. Other numeric fields that fail to parse
// (the tool prints "N/A" for metrics a device does not expose) become
// nil on the record instead of failing it.
//
// When no line parses successfully the result is ErrNoValidRecords.
func (p *Parser) Parse(raw string) ([]domain.DeviceMetrics, []Warning, error) {
	var (
		devices  []domain.DeviceMetrics
		warnings []Warning
	)

	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != fieldsPerLine {
			warnings = append(warnings, Warning{
				Line:   i + 1,
				Text:   line,
				Reason: fmt.Sprintf("expected %d fields, got %d", fieldsPerLine, len(fields)),
			})
			continue
		}
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}

		// The index is the record's identity; a line without a
		// usable one carries no addressable device.
		index, err := strconv.Atoi(fields[0])
		if err != nil || index < 0 {
			warnings = append(warnings, Warning{
				Line:   i + 1,
				Text:   line,
				Reason: "index field is not a non-negative integer",
			})
			continue
		}

		device := domain.DeviceMetrics{
			Index:          index,
			Name:           fields[1],
			TemperatureC:   toInt(fields[2]),
			UtilizationPct: toInt(fields[3]),
			MemoryUsedMB:   toInt(fields[4]),
			MemoryTotalMB:  toInt(fields[5]),
			PowerW:         toFloat(fields[6]),
		}

		// Used memory above total is a reporting anomaly, not a
		// legal reading. Both fields become unavailable so the
		// used <= total invariant holds for every delivered record.
		if device.MemoryUsedMB != nil && device.MemoryTotalMB != nil &&
			*device.MemoryUsedMB > *device.MemoryTotalMB {
			warnings = append(warnings, Warning{
				Line:   i + 1,
				Text:   line,
				Reason: "memory used exceeds memory total, dropping both fields",
			})
			device.MemoryUsedMB = nil
			device.MemoryTotalMB = nil
		}

		devices = append(devices, device)
	}

	if len(devices) == 0 {
		return nil, warnings, domain.ErrNoValidRecords
	}

	return devices, warnings, nil
}

// toInt parses an integer metric field. Values the tool prints with a
// fractional part ("70.0") are truncated; anything unparseable ("N/A",
// "[N/A]", "") maps to nil.
func toInt(s string) *int {
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		v := int(f)
		return &v
	}
	return nil
}

// toFloat parses a float metric field, mapping unparseable values to nil.
func toFloat(s string) *float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return &f
	}
	return nil
}
