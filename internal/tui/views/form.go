package views

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/chime/internal/sound"
	"github.com/pablasso/chime/internal/task"
	"github.com/pablasso/chime/internal/tui/components"
	"github.com/pablasso/chime/internal/tui/msgs"
	"github.com/pablasso/chime/internal/tui/styles"
)

// FormField identifies a focusable row of the task form.
type FormField int

const (
	FieldName FormField = iota
	FieldDateTime
	FieldAlarm
	FieldSound
	FieldRecurring
	FieldFrequency
	FieldEndDate
	FieldSubmit
)

const inputLayout = "2006-01-02 15:04"

// previewDoneMsg reports that a sound preview stopped.
type previewDoneMsg struct {
	key string
	err error
}

// soundOption is one choice of the sound selector. The last option is the
// custom file slot.
type soundOption struct {
	id   string
	name string
	url  string
}

// FormConfig holds initialization parameters.
type FormConfig struct {
	Player       sound.Player
	DefaultSound string
	Now          func() time.Time
}

// FormModel is the task creation form.
type FormModel struct {
	name     textinput.Model
	datetime textinput.Model
	alarm    textinput.Model
	endDate  textinput.Model

	focus FormField

	options      []soundOption
	soundIdx     int
	defaultSound int
	customSound  *task.CustomSound

	recurring bool
	freqIdx   int

	preview *sound.Preview
	playing string
	spinner spinner.Model

	errorMsg string
	flash    string

	now    func() time.Time
	width  int
	height int
}

// NewFormModel creates an empty form.
func NewFormModel(cfg FormConfig) FormModel {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	var options []soundOption
	defaultIdx := 0
	for i, s := range sound.All() {
		options = append(options, soundOption{id: s.ID, name: s.Name, url: s.URL})
		if s.ID == cfg.DefaultSound {
			defaultIdx = i
		}
	}
	options = append(options, soundOption{id: sound.CustomID, name: "Custom file…"})

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.SelectedStyle

	m := FormModel{
		name:         newInput("What needs doing?", 120),
		datetime:     newInput(cfg.Now().Add(time.Hour).Format(inputLayout), 16),
		alarm:        newInput("same as date & time", 16),
		endDate:      newInput(cfg.Now().AddDate(0, 1, 0).Format(task.DateLayout), 10),
		options:      options,
		soundIdx:     defaultIdx,
		defaultSound: defaultIdx,
		preview:      sound.NewPreview(cfg.Player),
		spinner:      sp,
		now:          cfg.Now,
	}
	m.name.Focus()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = ""
	return ti
}

// Init implements tea.Model.
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case previewDoneMsg:
		m.playing = m.preview.Playing()
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.errorMsg = "Preview failed: " + msg.err.Error()
		}
		return m, nil

	case spinner.TickMsg:
		if m.playing == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInput(msg)
}

func (m FormModel) handleKey(msg tea.KeyMsg) (FormModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.preview.Stop()
		return m, tea.Quit
	case "esc":
		m.preview.Stop()
		m.playing = ""
		return m, func() tea.Msg { return msgs.GoToHomeMsg{} }
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		return m.moveFocus(1)
	case "shift+tab", "up":
		return m.moveFocus(-1)
	}

	switch m.focus {
	case FieldSound:
		return m.handleSoundKey(msg)
	case FieldRecurring:
		switch msg.String() {
		case " ", "enter", "x":
			m.recurring = !m.recurring
		}
		return m, nil
	case FieldFrequency:
		switch msg.String() {
		case "left", "h":
			m.freqIdx = (m.freqIdx + len(task.Frequencies) - 1) % len(task.Frequencies)
		case "right", "l", " ":
			m.freqIdx = (m.freqIdx + 1) % len(task.Frequencies)
		case "enter":
			return m.moveFocus(1)
		}
		return m, nil
	case FieldSubmit:
		if msg.String() == "enter" {
			return m.submit()
		}
		return m, nil
	}

	// Text fields
	if msg.String() == "enter" {
		return m.moveFocus(1)
	}
	return m.updateInput(msg)
}

func (m FormModel) handleSoundKey(msg tea.KeyMsg) (FormModel, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.soundIdx = (m.soundIdx + len(m.options) - 1) % len(m.options)
	case "right", "l":
		m.soundIdx = (m.soundIdx + 1) % len(m.options)
	case " ", "p":
		return m.togglePreview()
	case "u":
		return m, func() tea.Msg { return msgs.GoToSoundPickerMsg{} }
	case "x":
		if m.customSound != nil {
			if m.playing == sound.CustomID {
				m.preview.Stop()
				m.playing = ""
			}
			m.customSound = nil
			m.soundIdx = m.defaultSound
		}
	case "enter":
		if m.selectedOption().id == sound.CustomID && m.customSound == nil {
			return m, func() tea.Msg { return msgs.GoToSoundPickerMsg{} }
		}
		return m.moveFocus(1)
	}
	return m, nil
}

func (m FormModel) togglePreview() (FormModel, tea.Cmd) {
	opt := m.selectedOption()
	locator := opt.url
	if opt.id == sound.CustomID {
		if m.customSound == nil {
			m.errorMsg = "Choose a custom sound file first (u)"
			return m, nil
		}
		locator = m.customSound.URL
	}

	playing, done := m.preview.Toggle(opt.id, locator)
	if !playing {
		m.playing = ""
		return m, nil
	}
	m.playing = opt.id
	m.errorMsg = ""
	return m, tea.Batch(m.spinner.Tick, waitForPreview(opt.id, done))
}

func waitForPreview(key string, done <-chan error) tea.Cmd {
	return func() tea.Msg {
		return previewDoneMsg{key: key, err: <-done}
	}
}

func (m FormModel) updateInput(msg tea.Msg) (FormModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FieldName:
		m.name, cmd = m.name.Update(msg)
	case FieldDateTime:
		m.datetime, cmd = m.datetime.Update(msg)
	case FieldAlarm:
		m.alarm, cmd = m.alarm.Update(msg)
	case FieldEndDate:
		m.endDate, cmd = m.endDate.Update(msg)
	}
	return m, cmd
}

// visibleFields lists the focusable rows in display order.
func (m FormModel) visibleFields() []FormField {
	fields := []FormField{FieldName, FieldDateTime, FieldAlarm, FieldSound, FieldRecurring}
	if m.recurring {
		fields = append(fields, FieldFrequency, FieldEndDate)
	}
	return append(fields, FieldSubmit)
}

func (m FormModel) moveFocus(delta int) (FormModel, tea.Cmd) {
	fields := m.visibleFields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	return m.setFocus(fields[idx])
}

func (m FormModel) setFocus(f FormField) (FormModel, tea.Cmd) {
	m.focus = f
	m.name.Blur()
	m.datetime.Blur()
	m.alarm.Blur()
	m.endDate.Blur()

	switch f {
	case FieldName:
		return m, m.name.Focus()
	case FieldDateTime:
		return m, m.datetime.Focus()
	case FieldAlarm:
		return m, m.alarm.Focus()
	case FieldEndDate:
		return m, m.endDate.Focus()
	}
	return m, nil
}

func (m FormModel) selectedOption() soundOption {
	return m.options[m.soundIdx]
}

// Template builds a task template from the form. Input that cannot be
// parsed is reported as a validation error on its field.
func (m FormModel) Template() (task.Template, error) {
	tpl := task.Template{Name: strings.TrimSpace(m.name.Value())}

	at, err := parseOptional(m.datetime.Value(), task.ParseDateTime)
	if err != nil {
		return tpl, &task.ValidationError{Field: "datetime", Message: "use YYYY-MM-DD HH:MM"}
	}
	tpl.ScheduledAt = at

	alarm, err := parseOptional(m.alarm.Value(), task.ParseDateTime)
	if err != nil {
		return tpl, &task.ValidationError{Field: "alarm", Message: "use YYYY-MM-DD HH:MM"}
	}
	if alarm.IsZero() {
		alarm = at
	}
	tpl.AlarmAt = alarm

	opt := m.selectedOption()
	tpl.AlarmSound = opt.id
	if opt.id == sound.CustomID && m.customSound != nil {
		cs := *m.customSound
		tpl.CustomSound = &cs
	}

	if m.recurring {
		end, err := parseOptional(m.endDate.Value(), task.ParseDate)
		if err != nil {
			return tpl, &task.ValidationError{Field: "endDate", Message: "use YYYY-MM-DD"}
		}
		tpl.Recurring = &task.Recurring{EndDate: end, Frequency: task.Frequencies[m.freqIdx]}
	}

	return tpl, tpl.Validate()
}

func parseOptional(s string, parse func(string) (time.Time, error)) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return parse(s)
}

func (m FormModel) submit() (FormModel, tea.Cmd) {
	tpl, err := m.Template()
	if err != nil {
		m.errorMsg = err.Error()
		m.flash = ""
		return m, nil
	}
	m.errorMsg = ""
	return m, func() tea.Msg { return msgs.SubmitTaskMsg{Template: tpl} }
}

// HandleCreated shows the outcome of a submission. On success the form is
// cleared for the next task.
func (m FormModel) HandleCreated(msg msgs.TasksCreatedMsg) (FormModel, tea.Cmd) {
	if msg.Err != nil {
		m.errorMsg = msg.Err.Error()
		m.flash = ""
		return m, nil
	}

	m.preview.Stop()
	fresh := NewFormModel(FormConfig{Now: m.now})
	fresh.preview = m.preview
	fresh.options = m.options
	fresh.soundIdx = m.defaultSound
	fresh.defaultSound = m.defaultSound
	fresh.width, fresh.height = m.width, m.height

	switch msg.Count {
	case 0:
		fresh.flash = fmt.Sprintf("No occurrences of %q fall before the end date", msg.Name)
	case 1:
		fresh.flash = fmt.Sprintf("Created %q", msg.Name)
	default:
		fresh.flash = fmt.Sprintf("Created %d tasks for %q", msg.Count, msg.Name)
	}
	return fresh, textinput.Blink
}

// SetCustomSound selects a validated audio file as the alarm sound.
func (m *FormModel) SetCustomSound(path string) {
	m.customSound = &task.CustomSound{Name: filepath.Base(path), URL: path}
	m.soundIdx = len(m.options) - 1
	m.errorMsg = ""
}

// SetError sets an error message to display.
func (m *FormModel) SetError(msg string) {
	m.errorMsg = msg
	m.flash = ""
}

// View implements tea.Model.
func (m FormModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var lines []string
	row := func(f FormField, label, value string) {
		indicator := "  "
		labelText := fmt.Sprintf("%-12s", label)
		if m.focus == f {
			indicator = styles.SelectedStyle.Render("› ")
			labelText = styles.SelectedStyle.Render(labelText)
		} else {
			labelText = styles.SubtleStyle.Render(labelText)
		}
		lines = append(lines, indicator+labelText+" "+value)
	}

	row(FieldName, "Name", m.name.View())
	row(FieldDateTime, "Date & time", m.datetime.View())
	row(FieldAlarm, "Alarm time", m.alarm.View())
	row(FieldSound, "Sound", m.soundView())
	row(FieldRecurring, "Recurring", checkbox(m.recurring))
	if m.recurring {
		row(FieldFrequency, "Frequency", "‹ "+string(task.Frequencies[m.freqIdx])+" ›")
		row(FieldEndDate, "End date", m.endDate.View())
	}

	submit := "[ Create Task ]"
	if m.focus == FieldSubmit {
		submit = styles.SelectedStyle.Render(submit)
	} else {
		submit = styles.SubtleStyle.Render(submit)
	}
	lines = append(lines, "", "  "+submit)

	if m.errorMsg != "" {
		lines = append(lines, "", "  "+styles.ErrorStyle.Render(m.errorMsg))
	} else if m.flash != "" {
		lines = append(lines, "", "  "+styles.SuccessStyle.Render(m.flash))
	}

	var b strings.Builder
	title := styles.TitleStyle.Render("New Task")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	form := strings.Join(lines, "\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, form))

	used := strings.Count(b.String(), "\n") + 1
	if remaining := m.height - used - 1; remaining > 0 {
		b.WriteString(strings.Repeat("\n", remaining))
	}

	b.WriteString(components.NewStatusBar().Render(m.width, m.statusItems()))
	return b.String()
}

func (m FormModel) soundView() string {
	opt := m.selectedOption()
	name := opt.name
	if opt.id == sound.CustomID && m.customSound != nil {
		name = m.customSound.Name
	}
	out := "‹ " + name + " ›"
	if m.playing != "" && m.playing == opt.id {
		out += "  " + m.spinner.View() + styles.SubtleStyle.Render(" playing")
	}
	return out
}

func (m FormModel) statusItems() []string {
	switch m.focus {
	case FieldSound:
		items := []string{"←→ Sound", "p Preview", "u Upload"}
		if m.customSound != nil {
			items = append(items, "x Remove file")
		}
		return append(items, "Esc Back")
	case FieldRecurring:
		return []string{"Space Toggle", "Tab Next", "Ctrl+S Create", "Esc Back"}
	case FieldFrequency:
		return []string{"←→ Change", "Tab Next", "Ctrl+S Create", "Esc Back"}
	}
	return []string{"Tab Next", "Shift+Tab Prev", "Ctrl+S Create", "Esc Back"}
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// SetSize updates the model dimensions.
func (m *FormModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Focus returns the focused field.
func (m FormModel) Focus() FormField {
	return m.focus
}

// Playing returns the id of the sound being previewed, or "".
func (m FormModel) Playing() string {
	return m.playing
}

// Error returns the current error message.
func (m FormModel) Error() string {
	return m.errorMsg
}

// Flash returns the current success message.
func (m FormModel) Flash() string {
	return m.flash
}

// CustomSound returns the selected custom sound, if any.
func (m FormModel) CustomSound() *task.CustomSound {
	return m.customSound
}

// StopPreview stops any sound preview in progress.
func (m *FormModel) StopPreview() {
	m.preview.Stop()
	m.playing = ""
}
