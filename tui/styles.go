// Package tui is a terminal version of the window manager dialog.
// This file contains the lipgloss styles.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3584e4")).
			MarginBottom(1)

	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3584e4")).Bold(true)
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ec27e"))
	missingStyle = lipgloss.NewStyle().Faint(true)
	execStyle    = lipgloss.NewStyle().Faint(true)
	statusStyle  = lipgloss.NewStyle().Faint(true).MarginTop(1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e01b24"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#e5a50a")).
			Padding(0, 1).
			MarginTop(1)
)
