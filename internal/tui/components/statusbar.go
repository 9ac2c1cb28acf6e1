package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/pablasso/chime/internal/tui/styles"
)

const separator = "  |  "

// StatusBar renders a bottom help bar showing contextual help items.
type StatusBar struct{}

// NewStatusBar creates a new StatusBar instance.
func NewStatusBar() StatusBar {
	return StatusBar{}
}

// Render returns the status bar string for the given width and items.
// Items are joined with "  |  " and padded to fill the width.
func (s StatusBar) Render(width int, items []string) string {
	if len(items) == 0 {
		return styles.StatusBarStyle.Width(width).Render("")
	}

	content := strings.Join(items, separator)

	return styles.StatusBarStyle.Width(width).Render(content)
}

// RenderWithMessage renders the help items on the left and an already
// styled message right-aligned. The message wins when space runs out.
func (s StatusBar) RenderWithMessage(width int, items []string, message string) string {
	if message == "" {
		return s.Render(width, items)
	}

	msgWidth := lipgloss.Width(message)
	if msgWidth >= width {
		return ansi.Truncate(message, width, "…")
	}

	left := ansi.Truncate(strings.Join(items, separator), width-msgWidth-1, "…")
	gap := width - lipgloss.Width(left) - msgWidth
	if gap < 1 {
		gap = 1
	}
	return styles.StatusBarStyle.Render(left) + strings.Repeat(" ", gap) + message
}
