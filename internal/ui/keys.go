package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the monitor TUI.
type KeyMap struct {
	// View switching.
	NextView    key.Binding
	ViewSummary key.Binding
	ViewDetail  key.Binding
	ViewRaw     key.Binding

	// Detail and raw view scrolling.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Poller control.
	StartStop    key.Binding
	Refresh      key.Binding
	IntervalUp   key.Binding
	IntervalDown key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	NextView: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next view"),
	),
	ViewSummary: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "summary"),
	),
	ViewDetail: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "detailed"),
	),
	ViewRaw: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "raw"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "scroll down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	StartStop: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start/stop"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	IntervalUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "slower"),
	),
	IntervalDown: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "faster"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
