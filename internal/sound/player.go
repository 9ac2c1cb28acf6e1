package sound

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoPlayer is returned when no audio command is available.
var ErrNoPlayer = errors.New("no audio player found (install ffplay, mpv, afplay, paplay or aplay)")

// CommandContext is the function used to create exec.Cmd instances.
// It can be replaced in tests to mock playback.
var CommandContext = exec.CommandContext

// LookPath resolves player commands. Replaced in tests.
var LookPath = exec.LookPath

// Player plays an audio resource. Play blocks until playback finishes;
// cancelling ctx stops it.
type Player interface {
	Play(ctx context.Context, locator string) error
}

// Command is an external program able to play a sound file or URL passed as
// its last argument.
type Command struct {
	Name string
	Args []string
}

// DefaultCommands are tried in order when no command is configured.
var DefaultCommands = []Command{
	{Name: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{Name: "mpv", Args: []string{"--no-video", "--really-quiet"}},
	{Name: "afplay"},
	{Name: "paplay"},
	{Name: "aplay", Args: []string{"-q"}},
}

// ExecPlayer plays sounds through an external command.
type ExecPlayer struct {
	// Command overrides detection when set.
	Command *Command
}

// NewExecPlayer returns a player using name and args, or auto-detection when
// name is empty.
func NewExecPlayer(name string, args []string) *ExecPlayer {
	if name == "" {
		return &ExecPlayer{}
	}
	return &ExecPlayer{Command: &Command{Name: name, Args: args}}
}

// Resolve returns the command that Play would run.
func (p *ExecPlayer) Resolve() (Command, error) {
	if p.Command != nil {
		if _, err := LookPath(p.Command.Name); err != nil {
			return Command{}, fmt.Errorf("audio player %q not found: %w", p.Command.Name, err)
		}
		return *p.Command, nil
	}
	for _, c := range DefaultCommands {
		if _, err := LookPath(c.Name); err == nil {
			return c, nil
		}
	}
	return Command{}, ErrNoPlayer
}

// Play runs the player command and waits for it to exit.
func (p *ExecPlayer) Play(ctx context.Context, locator string) error {
	if locator == "" {
		return errors.New("empty sound locator")
	}
	c, err := p.Resolve()
	if err != nil {
		return err
	}

	args := append(append([]string{}, c.Args...), locator)
	cmd := CommandContext(ctx, c.Name, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s failed: %w", c.Name, err)
	}
	return nil
}
