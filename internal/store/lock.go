package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const lockFileName = "chime.lock"

// ErrLocked matches any *LockedError via errors.Is.
var ErrLocked = errors.New("data directory is locked")

// LockedError reports that another live process owns the data directory.
type LockedError struct {
	PID int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("chime is already open in another process (PID %d)", e.PID)
}

func (e *LockedError) Is(target error) bool {
	return target == ErrLocked
}

// Lock guards a data directory against a second writer. The TUI holds it for
// its lifetime, because it persists its whole in-memory collection and would
// overwrite anyone else's writes.
type Lock struct {
	path string
}

// NewLock creates a lock manager for the given data directory.
func NewLock(dataDir string) *Lock {
	return &Lock{
		path: filepath.Join(dataDir, lockFileName),
	}
}

// Acquire attempts to acquire the lock.
// Returns a *LockedError if the lock is held by another running process.
// Stale locks (from dead processes) are automatically cleaned up.
func (l *Lock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Try atomic creation with O_EXCL
	err := l.create()
	if err == nil || !os.IsExist(err) {
		return err
	}

	// Lock file exists - check if it's stale
	pid, ok, readErr := l.holder()
	if readErr != nil {
		return readErr
	}
	if ok && processExists(pid) && pid != os.Getpid() {
		return &LockedError{PID: pid}
	}
	if ok && pid == os.Getpid() {
		return nil
	}

	// Dead or invalid holder - remove stale lock and retry once
	if removeErr := os.Remove(l.path); removeErr != nil && !os.IsNotExist(removeErr) {
		return fmt.Errorf("failed to remove stale lock file: %w", removeErr)
	}
	if err := l.create(); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("lock acquired by another process during retry")
		}
		return fmt.Errorf("failed to create lock file on retry: %w", err)
	}
	return nil
}

// create writes our PID into a freshly created lock file.
func (l *Lock) create() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, writeErr := fmt.Fprintf(f, "%d", os.Getpid())
	f.Close()
	if writeErr != nil {
		os.Remove(l.path)
		return fmt.Errorf("failed to write lock file: %w", writeErr)
	}
	return nil
}

// holder returns the PID recorded in the lock file. ok is false when the file
// does not hold a valid PID.
func (l *Lock) holder() (pid int, ok bool, err error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read existing lock file: %w", err)
	}
	pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
	if parseErr != nil {
		return 0, false, nil
	}
	return pid, true, nil
}

// Release removes the lock file.
// Returns nil if the lock file doesn't exist (idempotent).
func (l *Lock) Release() error {
	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// CheckFree returns a *LockedError if another live process holds the lock.
// Stale or invalid lock files are removed.
func (l *Lock) CheckFree() error {
	pid, ok, err := l.holder()
	if err != nil {
		return err
	}
	if ok && pid != os.Getpid() && processExists(pid) {
		return &LockedError{PID: pid}
	}
	if _, statErr := os.Stat(l.path); statErr == nil && (!ok || !processExists(pid)) {
		if removeErr := os.Remove(l.path); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("failed to remove stale lock file: %w", removeErr)
		}
	}
	return nil
}

// processExists checks if a process with the given PID is running.
// Uses kill with signal 0, which checks for process existence without sending a signal.
func processExists(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 doesn't send a signal, just checks if process exists.
	// EPERM means it exists but belongs to another user.
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
