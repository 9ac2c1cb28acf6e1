package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/pablasso/chime/internal/task"
	"github.com/pablasso/chime/internal/tui/components"
	"github.com/pablasso/chime/internal/tui/msgs"
	"github.com/pablasso/chime/internal/tui/styles"
)

// ListKind selects which tasks a list shows and which actions it offers.
type ListKind int

const (
	ListActive ListKind = iota
	ListCompleted
)

func (k ListKind) title() string {
	if k == ListCompleted {
		return "Completed Tasks"
	}
	return "Active Tasks"
}

func (k ListKind) includes(t task.Task) bool {
	return t.Completed == (k == ListCompleted)
}

const (
	dateLayout    = "Mon Jan 2 15:04"
	progressWidth = 10
	minNameWidth  = 12
)

// listGroup is one series (or the single tasks) as shown in a list. Done and
// Total count the whole series so progress stays meaningful in both lists.
type listGroup struct {
	key       string
	title     string
	recurring *task.Recurring
	tasks     []task.Task
	done      int
	total     int
}

// listRow is a cursor position: a group header or a task inside an
// expanded group.
type listRow struct {
	group int
	task  int // -1 for the group header
}

// TaskListModel shows tasks grouped by series with expand/collapse.
type TaskListModel struct {
	kind      ListKind
	groups    []listGroup
	collapsed map[string]bool
	rows      []listRow
	cursor    int
	banner    string
	width     int
	height    int
}

// NewTaskListModel creates a list of the given kind. tasks is the full
// collection; the list keeps only the tasks matching its kind.
func NewTaskListModel(kind ListKind, tasks []task.Task) TaskListModel {
	m := TaskListModel{
		kind:      kind,
		collapsed: make(map[string]bool),
	}
	m.SetTasks(tasks)
	return m
}

// SetTasks replaces the shown tasks, keeping expansion state and clamping
// the cursor.
func (m *TaskListModel) SetTasks(tasks []task.Task) {
	m.groups = nil
	for _, g := range task.GroupTasks(tasks) {
		lg := listGroup{
			key:       g.Key,
			title:     g.Title,
			recurring: g.Recurring,
			done:      g.Completed(),
			total:     len(g.Tasks),
		}
		for _, t := range g.Tasks {
			if m.kind.includes(t) {
				lg.tasks = append(lg.tasks, t)
			}
		}
		if len(lg.tasks) > 0 {
			m.groups = append(m.groups, lg)
		}
	}
	m.rebuildRows()
}

func (m *TaskListModel) rebuildRows() {
	m.rows = nil
	for gi, g := range m.groups {
		m.rows = append(m.rows, listRow{group: gi, task: -1})
		if m.collapsed[g.key] {
			continue
		}
		for ti := range g.tasks {
			m.rows = append(m.rows, listRow{group: gi, task: ti})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Init implements tea.Model.
func (m TaskListModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m TaskListModel) Update(msg tea.Msg) (TaskListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return msgs.GoToHomeMsg{} }
		case "ctrl+c":
			return m, tea.Quit
		case "n":
			return m, func() tea.Msg { return msgs.GoToFormMsg{} }
		}

		if len(m.rows) == 0 {
			return m, nil
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "enter", " ":
			row := m.rows[m.cursor]
			if row.task < 0 {
				m.toggleGroup(row.group)
				return m, nil
			}
			if m.kind == ListActive {
				return m, m.toggleCmd(row)
			}
		case "left", "h":
			m.collapseAtCursor()
		case "right", "l":
			row := m.rows[m.cursor]
			if row.task < 0 && m.collapsed[m.groups[row.group].key] {
				m.toggleGroup(row.group)
			}
		case "c":
			if row := m.rows[m.cursor]; row.task >= 0 && m.kind == ListActive {
				return m, m.toggleCmd(row)
			}
		case "d", "delete":
			if row := m.rows[m.cursor]; row.task >= 0 {
				id := m.groups[row.group].tasks[row.task].ID
				return m, func() tea.Msg { return msgs.DeleteTaskMsg{ID: id} }
			}
		}
	}
	return m, nil
}

func (m TaskListModel) toggleCmd(row listRow) tea.Cmd {
	id := m.groups[row.group].tasks[row.task].ID
	return func() tea.Msg { return msgs.ToggleTaskMsg{ID: id} }
}

func (m *TaskListModel) toggleGroup(gi int) {
	key := m.groups[gi].key
	m.collapsed[key] = !m.collapsed[key]
	m.rebuildRows()
	for i, r := range m.rows {
		if r.group == gi && r.task < 0 {
			m.cursor = i
			break
		}
	}
}

// collapseAtCursor folds the group under the cursor and moves the cursor to
// its header.
func (m *TaskListModel) collapseAtCursor() {
	gi := m.rows[m.cursor].group
	if !m.collapsed[m.groups[gi].key] {
		m.toggleGroup(gi)
	}
}

// View implements tea.Model.
func (m TaskListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder
	title := styles.TitleStyle.Render(m.kind.title())
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	// title (2 lines incl. margin) + blank + status bar
	available := m.height - 4
	if available < 1 {
		available = 1
	}

	var lines []string
	if len(m.rows) == 0 {
		lines = append(lines, styles.SubtleStyle.Render("No tasks found"))
		if m.kind == ListActive {
			lines = append(lines, "", styles.SubtleStyle.Render("Press n to create one"))
		}
	} else {
		start, end := m.window(available)
		for i := start; i < end; i++ {
			lines = append(lines, m.renderRow(i))
		}
	}

	b.WriteString(strings.Join(lines, "\n"))
	used := strings.Count(b.String(), "\n") + 1
	if remaining := m.height - used - 1; remaining > 0 {
		b.WriteString(strings.Repeat("\n", remaining))
	}
	b.WriteString("\n")

	bar := components.NewStatusBar()
	if m.banner != "" {
		b.WriteString(bar.RenderWithMessage(m.width, m.statusItems(), styles.BannerStyle.Render(m.banner)))
	} else {
		b.WriteString(bar.Render(m.width, m.statusItems()))
	}
	return b.String()
}

// window returns the row range to draw so the cursor stays visible.
func (m TaskListModel) window(size int) (start, end int) {
	if len(m.rows) <= size {
		return 0, len(m.rows)
	}
	start = m.cursor - size + 1
	if start < 0 {
		start = 0
	}
	end = start + size
	if end > len(m.rows) {
		end = len(m.rows)
		start = end - size
	}
	return start, end
}

func (m TaskListModel) renderRow(i int) string {
	row := m.rows[i]
	g := m.groups[row.group]
	selected := i == m.cursor

	indicator := "  "
	if selected {
		indicator = styles.SelectedStyle.Render("› ")
	}

	if row.task < 0 {
		return indicator + m.renderHeader(g, selected)
	}

	t := g.tasks[row.task]
	mark := "○"
	if t.Completed {
		mark = "✓"
	}
	when := t.ScheduledAt.Format(dateLayout)
	snd := "♪ " + t.SoundName()

	nameWidth := m.width - lipgloss.Width(when) - lipgloss.Width(snd) - 16
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}
	name := ansi.Truncate(t.Name, nameWidth, "…")
	name += strings.Repeat(" ", max(0, nameWidth-lipgloss.Width(name)))

	line := fmt.Sprintf("%s %s  %s  %s", mark, name, when, snd)
	if selected {
		line = styles.SelectedStyle.Render(line)
	}
	return indicator + "    " + line
}

func (m TaskListModel) renderHeader(g listGroup, selected bool) string {
	arrow := "▾"
	if m.collapsed[g.key] {
		arrow = "▸"
	}

	noun := "tasks"
	if len(g.tasks) == 1 {
		noun = "task"
	}

	title := ansi.Truncate(g.title, max(minNameWidth, m.width/2), "…")
	if selected {
		title = styles.SelectedStyle.Render(title)
	} else {
		title = styles.SectionStyle.Render(title)
	}

	parts := []string{arrow + " " + title, styles.SubtleStyle.Render(fmt.Sprintf("(%d %s)", len(g.tasks), noun))}
	if g.recurring != nil {
		parts = append(parts,
			styles.BadgeStyle.Render("Recurring "+string(g.recurring.Frequency)),
			components.NewProgress(g.done, g.total, progressWidth).View())
	}
	return strings.Join(parts, "  ")
}

func (m TaskListModel) statusItems() []string {
	items := []string{"↑↓ Navigate", "Enter Expand"}
	if m.kind == ListActive {
		items = append(items, "c Complete")
	}
	return append(items, "d Delete", "Esc Back")
}

// SetSize updates the model dimensions.
func (m *TaskListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetBanner sets the alarm banner shown in the status bar. Empty clears it.
func (m *TaskListModel) SetBanner(text string) {
	m.banner = text
}

// Banner returns the current alarm banner.
func (m TaskListModel) Banner() string {
	return m.banner
}

// Kind returns the list kind.
func (m TaskListModel) Kind() ListKind {
	return m.kind
}

// Cursor returns the current cursor row.
func (m TaskListModel) Cursor() int {
	return m.cursor
}

// RowCount returns the number of visible rows, headers included.
func (m TaskListModel) RowCount() int {
	return len(m.rows)
}

// GroupCount returns the number of groups shown.
func (m TaskListModel) GroupCount() int {
	return len(m.groups)
}

// SelectedTask returns the task under the cursor, if the cursor is on a task.
func (m TaskListModel) SelectedTask() (task.Task, bool) {
	if len(m.rows) == 0 {
		return task.Task{}, false
	}
	row := m.rows[m.cursor]
	if row.task < 0 {
		return task.Task{}, false
	}
	return m.groups[row.group].tasks[row.task], true
}
