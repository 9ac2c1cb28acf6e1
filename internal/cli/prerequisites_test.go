package cli

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/pablasso/chime/internal/sound"
)

func TestPrerequisiteError(t *testing.T) {
	t.Run("formats error with check, message, and help", func(t *testing.T) {
		err := &PrerequisiteError{
			Check:   "Test Check",
			Message: "Something went wrong",
			Help:    "Try doing X to fix it.",
		}

		expected := "Test Check: Something went wrong\n\nTry doing X to fix it."
		if err.Error() != expected {
			t.Errorf("got %q, want %q", err.Error(), expected)
		}
	})
}

func TestCheckDataDirFree(t *testing.T) {
	t.Run("no lock file returns nil", func(t *testing.T) {
		if err := checkDataDirFree(t.TempDir()); err != nil {
			t.Errorf("expected nil error, got: %v", err)
		}
	})

	t.Run("stale lock returns nil", func(t *testing.T) {
		dir := t.TempDir()
		os.WriteFile(filepath.Join(dir, "chime.lock"), []byte("99999999"), 0644)

		if err := checkDataDirFree(dir); err != nil {
			t.Errorf("expected nil error for stale lock, got: %v", err)
		}
	})

	t.Run("live lock returns PrerequisiteError", func(t *testing.T) {
		dir := t.TempDir()
		// PID 1 is always running on unix systems
		os.WriteFile(filepath.Join(dir, "chime.lock"), []byte("1"), 0644)

		err := checkDataDirFree(dir)
		prereqErr, ok := err.(*PrerequisiteError)
		if !ok {
			t.Fatalf("expected *PrerequisiteError, got %T", err)
		}
		if prereqErr.Check != "Data directory" {
			t.Errorf("got check %q, want %q", prereqErr.Check, "Data directory")
		}
	})
}

func TestCheckDataDirWritable(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "chime")

		if err := checkDataDirWritable(dir); err != nil {
			t.Fatalf("expected nil error, got: %v", err)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Error("expected data directory to exist")
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("expected probe file removed, found %d entries", len(entries))
		}
	})

	t.Run("file in the way returns PrerequisiteError", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chime")
		os.WriteFile(path, []byte("not a dir"), 0644)

		err := checkDataDirWritable(path)
		if _, ok := err.(*PrerequisiteError); !ok {
			t.Fatalf("expected *PrerequisiteError, got %T", err)
		}
	})
}

func TestCheckPlayer(t *testing.T) {
	orig := sound.LookPath
	t.Cleanup(func() { sound.LookPath = orig })

	t.Run("available player returns nil", func(t *testing.T) {
		sound.LookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }

		if err := checkPlayer(sound.NewExecPlayer("", nil)); err != nil {
			t.Errorf("expected nil error, got: %v", err)
		}
	})

	t.Run("missing player returns PrerequisiteError", func(t *testing.T) {
		sound.LookPath = func(string) (string, error) { return "", exec.ErrNotFound }

		err := checkPlayer(sound.NewExecPlayer("", nil))
		prereqErr, ok := err.(*PrerequisiteError)
		if !ok {
			t.Fatalf("expected *PrerequisiteError, got %T", err)
		}
		if prereqErr.Message != "No audio player found" {
			t.Errorf("got message %q", prereqErr.Message)
		}
	})
}
