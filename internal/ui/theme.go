package ui

import "github.com/charmbracelet/lipgloss"

// Temperature thresholds in degrees Celsius for color coding.
const (
	tempWarnThreshold   = 70
	tempDangerThreshold = 80
)

// Theme defines the color palette for the monitor TUI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Temperature severity colors.
	TempOK     lipgloss.Color
	TempWarn   lipgloss.Color
	TempDanger lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	ActiveTab        lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Poller state colors for the status bar.
	StateRunning lipgloss.Color
	StateStopped lipgloss.Color
	ErrorText    lipgloss.Color
}

// TempColor returns the severity color for a temperature reading.
func (theme Theme) TempColor(tempC int) lipgloss.Color {
	switch {
	case tempC >= tempDangerThreshold:
		return theme.TempDanger
	case tempC >= tempWarnThreshold:
		return theme.TempWarn
	default:
		return theme.TempOK
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	TempOK:     lipgloss.Color("40"),
	TempWarn:   lipgloss.Color("214"),
	TempDanger: lipgloss.Color("196"),

	HeaderForeground: lipgloss.Color("255"),
	ActiveTab:        lipgloss.Color("39"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("245"),

	StateRunning: lipgloss.Color("40"),
	StateStopped: lipgloss.Color("214"),
	ErrorText:    lipgloss.Color("196"),
}
