// Package ui renders terminal output for the taskflow CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mizannoor/taskflow/internal/types"
)

var (
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	blockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14")) // cyan
)

// RenderWarn renders a warning marker or message.
func RenderWarn(s string) string { return warnStyle.Render(s) }

// RenderError renders an error message.
func RenderError(s string) string { return errStyle.Render(s) }

// RenderOK renders a success marker or message.
func RenderOK(s string) string { return okStyle.Render(s) }

// RenderID renders a task or edge ID.
func RenderID(s string) string { return idStyle.Render(s) }

// RenderDim renders secondary text.
func RenderDim(s string) string { return dimStyle.Render(s) }

// RenderStatus renders a task status with its conventional color.
func RenderStatus(s types.Status) string {
	switch s {
	case types.StatusCompleted:
		return okStyle.Render(string(s))
	case types.StatusInProgress:
		return warnStyle.Render(string(s))
	default:
		return string(s)
	}
}

// RenderBlockedMarker renders the blocked flag shown in list output.
func RenderBlockedMarker() string {
	return blockedStyle.Render("[blocked]")
}

// RenderCyclePath renders a rejected cycle for display, closing the
// loop: "tf-a → tf-b → tf-a".
func RenderCyclePath(path []string) string {
	if len(path) == 0 {
		return ""
	}
	closed := append(append([]string{}, path...), path[0])
	rendered := make([]string, len(closed))
	for i, id := range closed {
		rendered[i] = idStyle.Render(id)
	}
	return strings.Join(rendered, dimStyle.Render(" → "))
}

// TaskLine formats one task for list output.
func TaskLine(task *types.Task, blocked bool, showMarker bool) string {
	line := fmt.Sprintf("%s  %-12s %s", RenderID(task.ID), RenderStatus(task.Status), task.Title)
	if blocked && showMarker {
		line += " " + RenderBlockedMarker()
	}
	return line
}
