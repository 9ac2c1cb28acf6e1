package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/chime/internal/tui/components"
	"github.com/pablasso/chime/internal/tui/msgs"
	"github.com/pablasso/chime/internal/tui/styles"
)

// MenuItem represents a menu option in the home view.
type MenuItem struct {
	Label       string
	Shortcut    string
	Description string
}

// MenuSection represents a group of related menu items.
type MenuSection struct {
	Title string
	Items []MenuItem
}

// HomeModel is the model for the home view landing screen.
type HomeModel struct {
	sections  []MenuSection
	cursor    int
	active    int
	completed int
	width     int
	height    int
	errorMsg  string // Temporary error message to display
}

// NewHomeModel creates a new HomeModel showing the given task counts.
func NewHomeModel(active, completed int) HomeModel {
	return HomeModel{
		sections: []MenuSection{
			{
				Title: "Tasks",
				Items: []MenuItem{
					{Label: "New Task", Shortcut: "n", Description: "Schedule a task with an alarm"},
					{Label: "Active Tasks", Shortcut: "a", Description: fmt.Sprintf("%d pending", active)},
					{Label: "Completed Tasks", Shortcut: "c", Description: fmt.Sprintf("%d done", completed)},
				},
			},
			{
				Title: "",
				Items: []MenuItem{
					{Label: "Quit", Shortcut: "q", Description: ""},
				},
			},
		},
		active:    active,
		completed: completed,
	}
}

// Init implements tea.Model.
func (m HomeModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < m.totalMenuItems()-1 {
				m.cursor++
			}
		case "enter":
			return m, m.commandFor(m.getShortcutAtCursor())
		default:
			return m, m.commandFor(msg.String())
		}
	}
	return m, nil
}

// commandFor maps a menu shortcut to its navigation command.
func (m HomeModel) commandFor(shortcut string) tea.Cmd {
	switch shortcut {
	case "n":
		return func() tea.Msg { return msgs.GoToFormMsg{} }
	case "a":
		return func() tea.Msg { return msgs.GoToActiveMsg{} }
	case "c":
		return func() tea.Msg { return msgs.GoToCompletedMsg{} }
	case "q":
		return tea.Quit
	}
	return nil
}

// totalMenuItems returns the total number of menu items across all sections.
func (m HomeModel) totalMenuItems() int {
	total := 0
	for _, section := range m.sections {
		total += len(section.Items)
	}
	return total
}

// getShortcutAtCursor returns the shortcut key for the currently selected item.
func (m HomeModel) getShortcutAtCursor() string {
	idx := 0
	for _, section := range m.sections {
		for _, item := range section.Items {
			if idx == m.cursor {
				return item.Shortcut
			}
			idx++
		}
	}
	return ""
}

// View implements tea.Model.
func (m HomeModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := styles.TitleStyle.Render("C H I M E")
	tagline := styles.SubtleStyle.Render("Tasks with alarms")
	titleLine := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title)
	taglineLine := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, tagline)

	// Build menu with sections
	var menuLines []string
	cursorIdx := 0

	for sectionIdx, section := range m.sections {
		if section.Title != "" {
			menuLines = append(menuLines, styles.SectionStyle.Render(section.Title))
		}

		for _, item := range section.Items {
			mainPart := "[" + item.Shortcut + "] " + item.Label

			var line string
			if cursorIdx == m.cursor {
				line = styles.SelectedStyle.Render(mainPart)
			} else {
				line = styles.SubtleStyle.Render(mainPart)
			}
			if item.Description != "" {
				line += "  " + styles.SubtleStyle.Render(item.Description)
			}
			menuLines = append(menuLines, line)
			cursorIdx++
		}

		// Add spacing between sections (except after the last one)
		if sectionIdx < len(m.sections)-1 {
			menuLines = append(menuLines, "")
		}
	}

	menu := strings.Join(menuLines, "\n")

	// Status bar takes 1 line at bottom
	statusBarHeight := 1
	// title + tagline + spacing + menu lines + error (if any)
	contentHeight := 2 + 2 + len(menuLines)
	if m.errorMsg != "" {
		contentHeight += 2
	}
	availableHeight := m.height - statusBarHeight

	topPadding := (availableHeight - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	b.WriteString(strings.Repeat("\n", topPadding))
	b.WriteString(titleLine)
	b.WriteString("\n")
	b.WriteString(taglineLine)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, menu))

	if m.errorMsg != "" {
		b.WriteString("\n\n")
		errorLine := styles.ErrorStyle.Render(m.errorMsg)
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, errorLine))
	}

	bottomPadding := availableHeight - (topPadding + contentHeight)
	if bottomPadding < 0 {
		bottomPadding = 0
	}
	b.WriteString(strings.Repeat("\n", bottomPadding))

	statusItems := []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	b.WriteString(components.NewStatusBar().Render(m.width, statusItems))

	return b.String()
}

// SetSize updates the model dimensions.
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Cursor returns the current cursor position.
func (m HomeModel) Cursor() int {
	return m.cursor
}

// Counts returns the active and completed task counts shown in the menu.
func (m HomeModel) Counts() (active, completed int) {
	return m.active, m.completed
}

// SetError sets an error message to display temporarily.
func (m *HomeModel) SetError(msg string) {
	m.errorMsg = msg
}

// Error returns the current error message.
func (m HomeModel) Error() string {
	return m.errorMsg
}
