package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mateuse/Gpu-Monitor/internal/domain"
	"github.com/Mateuse/Gpu-Monitor/internal/poller"
)

// Chrome rows around the body: tab bar, status bar, help line.
const chromeLines = 3

func bodyHeight(totalHeight int) int {
	h := totalHeight - chromeLines
	if h < 1 {
		return 1
	}
	return h
}

func barWidth(totalWidth int) int {
	w := totalWidth / 4
	if w < 10 {
		return 10
	}
	if w > 40 {
		return 40
	}
	return w
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var body string
	switch m.activeView {
	case ViewSummary:
		body = m.renderSummary()
	default:
		body = m.viewport.View()
	}

	sections := []string{
		m.renderTabBar(),
		body,
		m.renderStatusBar(),
		m.renderHelp(),
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderTabBar() string {
	active := lipgloss.NewStyle().
		Foreground(m.theme.ActiveTab).
		Bold(true)
	inactive := lipgloss.NewStyle().
		Foreground(m.theme.FaintText)

	tabs := make([]string, 0, 3)
	for _, view := range []View{ViewSummary, ViewDetail, ViewRaw} {
		label := fmt.Sprintf(" %d:%s ", int(view)+1, view)
		if view == m.activeView {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}
	return strings.Join(tabs, "|")
}

// renderSummary shows one line per device: name, temperature, and
// utilization and memory bars.
func (m Model) renderSummary() string {
	lines := make([]string, 0, bodyHeight(m.height))

	if m.snapshot == nil {
		lines = append(lines, m.waitingLine())
	} else {
		for i := range m.snapshot.Devices {
			lines = append(lines, m.summaryLine(&m.snapshot.Devices[i]))
		}
	}

	for len(lines) < bodyHeight(m.height) {
		lines = append(lines, "")
	}
	return strings.Join(lines[:bodyHeight(m.height)], "\n")
}

func (m Model) waitingLine() string {
	style := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	if m.lastErr != nil {
		return lipgloss.NewStyle().Foreground(m.theme.ErrorText).
			Render(fmt.Sprintf("poll failed: %s", m.lastErr.Message))
	}
	return style.Render("waiting for first poll...")
}

func (m Model) summaryLine(device *domain.DeviceMetrics) string {
	name := lipgloss.NewStyle().
		Foreground(m.theme.NormalText).
		Render(fmt.Sprintf("[%d] %-28s", device.Index, truncate(device.Name, 28)))

	temp := m.tempCell(device.TemperatureC)

	util := "util " + m.barCell(device.UtilizationPct)
	mem := "mem " + m.memBarCell(device)

	return strings.Join([]string{name, temp, util, mem}, "  ")
}

func (m Model) tempCell(tempC *int) string {
	if tempC == nil {
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("  N/A")
	}
	return lipgloss.NewStyle().
		Foreground(m.theme.TempColor(*tempC)).
		Render(fmt.Sprintf("%3d°C", *tempC))
}

func (m Model) barCell(pct *int) string {
	if pct == nil {
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("N/A")
	}
	return fmt.Sprintf("%s %3d%%", m.bar.ViewAs(float64(*pct)/100), *pct)
}

func (m Model) memBarCell(device *domain.DeviceMetrics) string {
	pct, ok := device.MemoryPct()
	if !ok {
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("N/A")
	}
	return fmt.Sprintf("%s %3d%% (%d/%d MiB)",
		m.bar.ViewAs(float64(pct)/100), pct, *device.MemoryUsedMB, *device.MemoryTotalMB)
}

// renderDetailBody lists every metric of every device, one block per
// device, for the scrollable detailed view.
func (m Model) renderDetailBody() string {
	if m.snapshot == nil {
		return m.waitingLine()
	}

	header := lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true)
	label := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	var b strings.Builder
	for i := range m.snapshot.Devices {
		device := &m.snapshot.Devices[i]
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(header.Render(fmt.Sprintf("GPU %d: %s", device.Index, device.Name)))
		b.WriteString("\n")
		b.WriteString(label.Render("  temperature : "))
		b.WriteString(m.tempCell(device.TemperatureC))
		b.WriteString("\n")
		b.WriteString(label.Render("  utilization : "))
		b.WriteString(formatPct(device.UtilizationPct))
		b.WriteString("\n")
		b.WriteString(label.Render("  memory      : "))
		b.WriteString(formatMemory(device))
		b.WriteString("\n")
		b.WriteString(label.Render("  power       : "))
		b.WriteString(formatPower(device.PowerW))
		b.WriteString("\n")
	}
	return b.String()
}

// renderRawBody shows the unparsed tool output, preferring the full
// report when one was captured.
func (m Model) renderRawBody() string {
	if m.snapshot == nil {
		return m.waitingLine()
	}
	if m.snapshot.FullReport != "" {
		return m.snapshot.FullReport
	}
	return m.snapshot.RawQuery
}

func (m Model) renderStatusBar() string {
	state := m.ctrl.State()

	stateStyle := lipgloss.NewStyle().Foreground(m.theme.StateStopped)
	if state == poller.StateRunning {
		stateStyle = lipgloss.NewStyle().Foreground(m.theme.StateRunning)
	}

	parts := []string{
		stateStyle.Render(state.String()),
		fmt.Sprintf("interval %s", m.ctrl.Interval()),
	}

	if m.snapshot != nil {
		parts = append(parts, fmt.Sprintf("updated %s", m.snapshot.Timestamp.Format("15:04:05")))
	}
	if m.lastErr != nil {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(m.theme.ErrorText).
			Render(fmt.Sprintf("error: %s", m.lastErr.Message)))
	}
	if m.notice != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(m.theme.FaintText).
			Render(m.notice))
	}

	return strings.Join(parts, " | ")
}

func (m Model) renderHelp() string {
	return lipgloss.NewStyle().
		Foreground(m.theme.HelpText).
		Render("Tab/1/2/3 views · s start/stop · r refresh · +/- interval · q quit")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func formatPct(pct *int) string {
	if pct == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", *pct)
}

func formatMemory(device *domain.DeviceMetrics) string {
	if device.MemoryUsedMB == nil || device.MemoryTotalMB == nil {
		return "N/A"
	}
	pct, _ := device.MemoryPct()
	return fmt.Sprintf("%d / %d MiB (%d%%)", *device.MemoryUsedMB, *device.MemoryTotalMB, pct)
}

func formatPower(watts *float64) string {
	if watts == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f W", *watts)
}
