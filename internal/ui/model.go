package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mateuse/Gpu-Monitor/internal/domain"
	"github.com/Mateuse/Gpu-Monitor/internal/poller"
)

// View identifies which data view is active.
type View int

const (
	// ViewSummary shows one line per device.
	ViewSummary View = iota
	// ViewDetail shows every metric of every device.
	ViewDetail
	// ViewRaw shows the unparsed tool output.
	ViewRaw
)

// String returns the view's tab label.
func (v View) String() string {
	switch v {
	case ViewSummary:
		return "Summary"
	case ViewDetail:
		return "Detailed"
	case ViewRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// SnapshotMsg delivers a successful poll through the bubbletea message
// loop. Sent from the bus subscriber via Program.Send.
type SnapshotMsg struct {
	Snapshot *domain.MetricSnapshot
}

// PollErrorMsg delivers a failed poll through the bubbletea message loop.
type PollErrorMsg struct {
	Err *domain.PollError
}

// noticeFadeMsg clears a transient notice from the status bar.
type noticeFadeMsg struct{}

const noticeFadeDelay = 2 * time.Second

// Controller is the poller control surface the TUI drives.
type Controller interface {
	Start(ctx context.Context, interval time.Duration) error
	Stop() error
	ManualRefresh()
	SetInterval(interval time.Duration) error
	State() poller.State
	Interval() time.Duration
	Stats() poller.Stats
}

// Model is the top-level bubbletea model for the monitor TUI.
type Model struct {
	ctrl  Controller
	theme Theme
	keys  KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	activeView View

	// Latest poll outcomes. snapshot is the last known good one; a
	// failed poll sets lastErr without clearing snapshot.
	snapshot *domain.MetricSnapshot
	lastErr  *domain.PollError

	// Scrollable body for the detailed and raw views.
	viewport viewport.Model

	// Per-metric bar renderer, shared across devices.
	bar progress.Model

	// Transient status bar notice (interval changes, control errors).
	notice string
}

// NewModel creates a Model driving the given poller control surface.
func NewModel(ctrl Controller) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false

	return Model{
		ctrl:       ctrl,
		theme:      DefaultTheme,
		keys:       DefaultKeyMap,
		activeView: ViewSummary,
		viewport:   viewport.New(0, 0),
		bar:        bar,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.viewport.Width = message.Width
		m.viewport.Height = bodyHeight(message.Height)
		m.bar.Width = barWidth(message.Width)
		m.refreshViewport()

	case SnapshotMsg:
		m.snapshot = message.Snapshot
		m.lastErr = nil
		m.refreshViewport()

	case PollErrorMsg:
		m.lastErr = message.Err

	case noticeFadeMsg:
		m.notice = ""

	case tea.KeyMsg:
		return m.handleKeys(message)
	}

	return m, nil
}

func (m Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(message, m.keys.NextView):
		m.switchView(View((int(m.activeView) + 1) % 3))

	case key.Matches(message, m.keys.ViewSummary):
		m.switchView(ViewSummary)

	case key.Matches(message, m.keys.ViewDetail):
		m.switchView(ViewDetail)

	case key.Matches(message, m.keys.ViewRaw):
		m.switchView(ViewRaw)

	case key.Matches(message, m.keys.StartStop):
		return m.toggleSchedule()

	case key.Matches(message, m.keys.Refresh):
		m.ctrl.ManualRefresh()
		return m.withNotice("refresh scheduled")

	case key.Matches(message, m.keys.IntervalUp):
		return m.adjustInterval(time.Second)

	case key.Matches(message, m.keys.IntervalDown):
		return m.adjustInterval(-time.Second)

	case key.Matches(message, m.keys.Up):
		m.viewport.LineUp(1)

	case key.Matches(message, m.keys.Down):
		m.viewport.LineDown(1)

	case key.Matches(message, m.keys.PageUp):
		m.viewport.HalfViewUp()

	case key.Matches(message, m.keys.PageDown):
		m.viewport.HalfViewDown()
	}

	return m, nil
}

func (m *Model) switchView(view View) {
	if m.activeView == view {
		return
	}
	m.activeView = view
	m.viewport.GotoTop()
	m.refreshViewport()
}

func (m Model) toggleSchedule() (tea.Model, tea.Cmd) {
	if m.ctrl.State() == poller.StateRunning {
		if err := m.ctrl.Stop(); err != nil {
			return m.withNotice(err.Error())
		}
		return m.withNotice("polling stopped")
	}

	if err := m.ctrl.Start(context.Background(), m.ctrl.Interval()); err != nil {
		return m.withNotice(err.Error())
	}
	return m.withNotice("polling started")
}

func (m Model) adjustInterval(delta time.Duration) (tea.Model, tea.Cmd) {
	next := m.ctrl.Interval() + delta
	if err := m.ctrl.SetInterval(next); err != nil {
		return m.withNotice(err.Error())
	}
	return m.withNotice(fmt.Sprintf("interval set to %s", next))
}

func (m Model) withNotice(text string) (tea.Model, tea.Cmd) {
	m.notice = text
	return m, tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}

// refreshViewport rebuilds the scrollable body content for the views
// that use it. The summary view renders directly and skips the viewport.
func (m *Model) refreshViewport() {
	switch m.activeView {
	case ViewDetail:
		m.viewport.SetContent(m.renderDetailBody())
	case ViewRaw:
		m.viewport.SetContent(m.renderRawBody())
	}
}
