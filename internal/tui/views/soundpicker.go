package views

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pablasso/chime/internal/sound"
	"github.com/pablasso/chime/internal/tui/components"
	"github.com/pablasso/chime/internal/tui/msgs"
	"github.com/pablasso/chime/internal/tui/styles"
)

// SoundPickerModel lets the user choose a custom alarm sound file.
type SoundPickerModel struct {
	picker   filepicker.Model
	startDir string
	width    int
	height   int
	err      error
}

// NewSoundPickerModel creates a picker starting in startDir, limited to
// audio files.
func NewSoundPickerModel(startDir string) SoundPickerModel {
	fp := filepicker.New()
	fp.CurrentDirectory = startDir
	fp.AllowedTypes = sound.AudioExtensions
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.DirAllowed = false
	fp.FileAllowed = true

	return SoundPickerModel{
		picker:   fp,
		startDir: startDir,
	}
}

// Init implements tea.Model.
func (m SoundPickerModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update implements tea.Model.
func (m SoundPickerModel) Update(msg tea.Msg) (SoundPickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return msgs.SoundPickerCancelledMsg{} }
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		absPath, err := filepath.Abs(path)
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, func() tea.Msg { return msgs.SoundSelectedMsg{Path: absPath} }
	}

	return m, cmd
}

// View implements tea.Model.
func (m SoundPickerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := styles.TitleStyle.Render("Select Alarm Sound")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	b.WriteString(m.picker.View())

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(m.err.Error()))
	}

	// Fill remaining space before status bar
	lines := strings.Count(b.String(), "\n") + 1
	if remaining := m.height - lines - 1; remaining > 0 {
		b.WriteString(strings.Repeat("\n", remaining))
	}

	statusItems := []string{"↑↓ Navigate", "Enter Select", "← Up a folder", "Esc Back"}
	b.WriteString(components.NewStatusBar().Render(m.width, statusItems))

	return b.String()
}

// SetSize updates the model dimensions.
func (m *SoundPickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Reserve space for title (2 lines) and status bar (1 line)
	m.picker.Height = height - 4
}

// CurrentDirectory returns the current directory being displayed.
func (m SoundPickerModel) CurrentDirectory() string {
	return m.picker.CurrentDirectory
}

// StartDir returns the directory the picker opened in.
func (m SoundPickerModel) StartDir() string {
	return m.startDir
}

// Err returns any error that occurred.
func (m SoundPickerModel) Err() error {
	return m.err
}
