package components

import (
	"strings"

	"github.com/theirongolddev/purse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusKind colors the status message.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusOK
	StatusError
)

// RenderStatusBar renders the bottom bar: key hints on the left, the last
// status message on the right, and an unsaved marker when storage is behind.
func RenderStatusBar(width int, hints, status string, kind StatusKind, unsaved bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	msgColor := t.TextMuted
	switch kind {
	case StatusOK:
		msgColor = t.Green
	case StatusError:
		msgColor = t.Red
	}

	left := " " + hints
	right := ""
	if status != "" {
		right = lipgloss.NewStyle().Foreground(msgColor).Render(status)
	}
	if unsaved {
		right += lipgloss.NewStyle().Foreground(t.Orange).Bold(true).Render("  ● unsaved [s]ync")
	}
	right += " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
