package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pablasso/chime/internal/sound"
	"github.com/pablasso/chime/internal/store"
)

// PrerequisiteError represents a failed prerequisite check with helpful remediation info.
type PrerequisiteError struct {
	Check   string
	Message string
	Help    string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("%s: %s\n\n%s", e.Check, e.Message, e.Help)
}

// checkDataDirFree fails when a running TUI owns the data directory, since it
// would overwrite any change made here on its next save.
func checkDataDirFree(dataDir string) error {
	err := store.NewLock(dataDir).CheckFree()
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrLocked) {
		return &PrerequisiteError{
			Check:   "Data directory",
			Message: err.Error(),
			Help:    "Close the chime window first, or make the change there.",
		}
	}
	return err
}

// checkDataDirWritable verifies the data directory can be created and written.
func checkDataDirWritable(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return &PrerequisiteError{
			Check:   "Data directory",
			Message: fmt.Sprintf("cannot create %s", dataDir),
			Help:    "Set data_dir in the config file or pass --data-dir.",
		}
	}
	probe, err := os.CreateTemp(dataDir, ".probe-*")
	if err != nil {
		return &PrerequisiteError{
			Check:   "Data directory",
			Message: fmt.Sprintf("%s is not writable", dataDir),
			Help:    "Fix the directory permissions or choose another data_dir.",
		}
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}

// checkPlayer verifies an audio command is available for p.
func checkPlayer(p *sound.ExecPlayer) error {
	if _, err := p.Resolve(); err != nil {
		return &PrerequisiteError{
			Check:   "Audio player",
			Message: "No audio player found",
			Help:    "Install one of ffplay, mpv, afplay, paplay or aplay, or set sound.player in the config file.",
		}
	}
	return nil
}

// absPath resolves path for storage in a task record.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return abs, nil
}
