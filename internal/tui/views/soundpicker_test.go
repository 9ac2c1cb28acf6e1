package views

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pablasso/chime/internal/sound"
	"github.com/pablasso/chime/internal/tui/msgs"
)

func TestNewSoundPickerModel(t *testing.T) {
	tmpDir := t.TempDir()

	m := NewSoundPickerModel(tmpDir)

	if m.StartDir() != tmpDir {
		t.Errorf("expected startDir %s, got %s", tmpDir, m.StartDir())
	}
	if m.CurrentDirectory() != tmpDir {
		t.Errorf("expected CurrentDirectory %s, got %s", tmpDir, m.CurrentDirectory())
	}
	if m.Err() != nil {
		t.Errorf("expected no error, got %v", m.Err())
	}
	if len(m.picker.AllowedTypes) != len(sound.AudioExtensions) {
		t.Errorf("expected audio extensions filter, got %v", m.picker.AllowedTypes)
	}
	if m.picker.DirAllowed {
		t.Error("expected DirAllowed to be false (only files can be selected)")
	}
}

func TestSoundPickerModel_Init(t *testing.T) {
	m := NewSoundPickerModel(t.TempDir())

	// filepicker.Init returns a command to read the directory
	if m.Init() == nil {
		t.Error("expected Init() to return a command")
	}
}

func TestSoundPickerModel_EscapeCancels(t *testing.T) {
	m := NewSoundPickerModel(t.TempDir())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected command from Escape key")
	}
	if _, ok := cmd().(msgs.SoundPickerCancelledMsg); !ok {
		t.Error("expected msgs.SoundPickerCancelledMsg")
	}
}

func TestSoundPickerModel_CtrlCQuits(t *testing.T) {
	m := NewSoundPickerModel(t.TempDir())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected command from Ctrl+C")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestSoundPickerModel_SelectsAudioFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rooster.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		t.Fatalf("failed to create sound file: %v", err)
	}

	m := NewSoundPickerModel(tmpDir)
	m.SetSize(80, 24)
	m, _ = m.Update(m.Init()())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected selection command")
	}
	selected, ok := cmd().(msgs.SoundSelectedMsg)
	if !ok {
		t.Fatal("expected msgs.SoundSelectedMsg")
	}
	if selected.Path != path {
		t.Errorf("expected %s, got %s", path, selected.Path)
	}
}

func TestSoundPickerModel_View(t *testing.T) {
	m := NewSoundPickerModel(t.TempDir())
	if m.View() != "" {
		t.Error("expected empty view when dimensions are 0")
	}

	m.SetSize(80, 24)
	view := m.View()
	for _, want := range []string{"Select Alarm Sound", "↑↓ Navigate", "Esc Back"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}
