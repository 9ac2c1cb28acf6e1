package tui

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/pablasso/chime/internal/sound"
	"github.com/pablasso/chime/internal/store"
)

// Options configures TUI startup behavior.
type Options struct {
	// Store is the task store the TUI reads and mutates. Required.
	Store *store.Store
	// Player plays alarms and previews. Nil disables sound; alarms fall back
	// to the banner and terminal bell.
	Player sound.Player
	Logger *log.Logger

	// Tick is the alarm scan interval while a task list is open.
	Tick time.Duration
	// Retention is how long fired task ids are remembered.
	Retention time.Duration
	// DefaultSound is the sound preselected in the form.
	DefaultSound string
	// StartDir is where the custom sound picker opens.
	StartDir string
	// Now overrides the clock used for alarms and form defaults.
	Now func() time.Time
}
