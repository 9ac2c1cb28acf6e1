// Package cli implements chime's cobra commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pablasso/chime/internal/config"
	"github.com/pablasso/chime/internal/logging"
	"github.com/pablasso/chime/internal/sound"
	"github.com/pablasso/chime/internal/store"
	"github.com/pablasso/chime/internal/version"
	"github.com/spf13/cobra"
)

// app carries what every command needs once flags are parsed.
type app struct {
	configPath string
	dataDir    string

	cfg    *config.Config
	logger *log.Logger
	now    func() time.Time
}

// NewRootCmd builds the command tree. Each call returns fresh commands and
// flag state.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "chime",
		Short: "Tasks with alarms",
		Long: `Chime keeps a list of tasks and rings an alarm when each one is due.

Run without a command to open the interactive view.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory holding tasks.json (overrides data_dir)")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newDoneCmd(a),
		newRmCmd(a),
		newSoundsCmd(a),
		newWatchCmd(a),
		newExportCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the command line in args.
func Execute(args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// load reads the configuration and sets up logging to w.
func (a *app) load(w io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	a.cfg = cfg
	a.logger = logging.New(w, cfg.LogLevel)
	return nil
}

// openStore opens the task store for reading.
func (a *app) openStore() *store.Store {
	return a.openStoreLogging(a.logger)
}

// openStoreLogging opens the task store with its warnings sent to logger.
func (a *app) openStoreLogging(logger *log.Logger) *store.Store {
	return store.Open(store.NewFileKV(a.cfg.DataDir), store.WithLogger(logger))
}

// openStoreForWrite opens the task store after checking that no TUI owns the
// data directory.
func (a *app) openStoreForWrite() (*store.Store, error) {
	if err := checkDataDirFree(a.cfg.DataDir); err != nil {
		return nil, err
	}
	return a.openStore(), nil
}

// player builds the configured audio player.
func (a *app) player() *sound.ExecPlayer {
	return sound.NewExecPlayer(a.cfg.Sound.Player, a.cfg.Sound.PlayerArgs)
}

// persisted reports a write failure that the store only logged.
func persisted(st *store.Store) error {
	if err := st.LastPersistErr(); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}
