package main

import (
	"fmt"
	"os"

	"github.com/pablasso/chime/internal/cli"
	"github.com/pablasso/chime/internal/config"
	"github.com/pablasso/chime/internal/logging"
	"github.com/pablasso/chime/internal/sound"
	"github.com/pablasso/chime/internal/store"
	"github.com/pablasso/chime/internal/tui"
	"github.com/pablasso/chime/internal/version"
)

func main() {
	args := os.Args[1:]

	res, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	switch {
	case res.Subcommand:
		// A command was given; the CLI parses everything again
		if err := cli.Execute(args); err != nil {
			os.Exit(1)
		}
	case res.ShowHelp:
		fmt.Print(res.HelpText)
	case res.ShowVersion:
		fmt.Println("chime", version.String())
	default:
		if err := runTUI(res); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// runTUI owns the data directory for the life of the interactive view.
func runTUI(res parseResult) error {
	cfg, err := config.Load(res.ConfigPath)
	if err != nil {
		return err
	}
	if res.DataDir != "" {
		cfg.DataDir = res.DataDir
	}
	tick := cfg.Alarm.TickInterval
	if res.Tick > 0 {
		tick = res.Tick
	}

	lock := store.NewLock(cfg.DataDir)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	// The TUI owns the terminal, so logs go to the data dir.
	logger, closer, err := logging.OpenFile(cfg.DataDir, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	var player sound.Player
	p := sound.NewExecPlayer(cfg.Sound.Player, cfg.Sound.PlayerArgs)
	if c, err := p.Resolve(); err != nil {
		logger.Warn("no audio player, alarms will ring the terminal bell", "err", err)
	} else {
		logger.Info("audio player", "command", c.Name)
		player = p
	}

	logger.Info("starting", "version", version.Version, "data_dir", cfg.DataDir, "tick", tick)
	return tui.Run(tui.Options{
		Store:        store.Open(store.NewFileKV(cfg.DataDir), store.WithLogger(logger)),
		Player:       player,
		Logger:       logger,
		Tick:         tick,
		Retention:    cfg.Alarm.FiredRetention,
		DefaultSound: cfg.Sound.Default,
	})
}
