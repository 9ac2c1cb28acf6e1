package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

type parseResult struct {
	ConfigPath  string
	DataDir     string
	Tick        time.Duration
	ShowHelp    bool
	ShowVersion bool
	HelpText    string
	// Subcommand is set when args name a command for the CLI.
	Subcommand bool
}

func parseArgs(args []string) (parseResult, error) {
	fs := flag.NewFlagSet("chime", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "Config file")
	dataDir := fs.String("data-dir", "", "Directory holding tasks.json")
	tick := fs.Duration("tick", 0, "Alarm scan interval (default alarm.tick_interval)")
	showVersion := fs.Bool("version", false, "Show version information")
	showVersionShort := fs.Bool("v", false, "Show version information")

	usage := func() string {
		var b strings.Builder
		fmt.Fprintln(&b, "Usage: chime [flags]")
		fmt.Fprintln(&b, "       chime <command> [flags]")
		fmt.Fprintln(&b, "")
		fmt.Fprintln(&b, "Chime keeps a list of tasks and rings an alarm when each one is due.")
		fmt.Fprintln(&b, "Without a command it opens the interactive view; run `chime help` for commands.")
		fmt.Fprintln(&b, "")
		fmt.Fprintln(&b, "Flags:")
		fs.SetOutput(&b)
		fs.PrintDefaults()
		fs.SetOutput(io.Discard)
		return b.String()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return parseResult{ShowHelp: true, HelpText: usage()}, nil
		}
		return parseResult{}, fmt.Errorf("%v\n\n%s", err, usage())
	}

	if fs.NArg() > 0 {
		return parseResult{Subcommand: true}, nil
	}

	if *showVersion || *showVersionShort {
		return parseResult{ShowVersion: true}, nil
	}

	if *tick < 0 {
		return parseResult{}, fmt.Errorf("--tick must be positive, got %s\n\n%s", *tick, usage())
	}

	return parseResult{
		ConfigPath: *configPath,
		DataDir:    *dataDir,
		Tick:       *tick,
	}, nil
}
