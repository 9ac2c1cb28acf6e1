// Package testutil provides testing utilities for the chime project.
package testutil

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
)

// MockCommandFunc creates a mock command that outputs the given response and
// exits successfully.
// Usage: sound.CommandContext = testutil.MockCommandFunc("")
func MockCommandFunc(output string) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "echo", "-n", output)
	}
}

// LookPathFunc returns a LookPath replacement that only finds the named
// commands.
// Usage: sound.LookPath = testutil.LookPathFunc("ffplay")
func LookPathFunc(available ...string) func(file string) (string, error) {
	return func(file string) (string, error) {
		for _, name := range available {
			if name == file {
				return filepath.Join("/usr/bin", file), nil
			}
		}
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}
}

// SetupTestEnv points the XDG config and data homes at fresh temp
// directories so nothing touches the real user files. Returns the chime data
// directory inside the data home.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	return filepath.Join(dataHome, "chime")
}
