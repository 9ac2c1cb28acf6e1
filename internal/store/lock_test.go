package store

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestLock_Acquire_Success(t *testing.T) {
	tmpDir := t.TempDir()

	lock := NewLock(tmpDir)
	if err := lock.Acquire(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, lockFileName))
	if err != nil {
		t.Fatalf("failed to read lock file: %v", err)
	}

	pid, err := strconv.Atoi(string(data))
	if err != nil {
		t.Fatalf("failed to parse PID from lock file: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("lock file PID mismatch: got %d, want %d", pid, os.Getpid())
	}
}

func TestLock_Acquire_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	if err := NewLock(dir).Acquire(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, lockFileName)); err != nil {
		t.Errorf("expected lock file: %v", err)
	}
}

func TestLock_Acquire_HeldByLiveProcess(t *testing.T) {
	tmpDir := t.TempDir()

	// PID 1 is always running on unix systems
	if err := os.WriteFile(filepath.Join(tmpDir, lockFileName), []byte("1"), 0644); err != nil {
		t.Fatalf("failed to create lock file: %v", err)
	}

	err := NewLock(tmpDir).Acquire()
	var locked *LockedError
	if !errors.As(err, &locked) {
		t.Fatalf("expected LockedError, got %v", err)
	}
	if locked.PID != 1 {
		t.Errorf("expected PID 1, got %d", locked.PID)
	}
}

func TestLock_Acquire_StaleLock(t *testing.T) {
	tmpDir := t.TempDir()
	lockPath := filepath.Join(tmpDir, lockFileName)

	// PID 99999999 is unlikely to exist
	if err := os.WriteFile(lockPath, []byte("99999999"), 0644); err != nil {
		t.Fatalf("failed to create lock file: %v", err)
	}

	if err := NewLock(tmpDir).Acquire(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(lockPath)
	if string(data) != strconv.Itoa(os.Getpid()) {
		t.Errorf("expected our PID in lock file, got %q", data)
	}
}

func TestLock_Acquire_InvalidContent(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, lockFileName), []byte("not-a-pid"), 0644); err != nil {
		t.Fatalf("failed to create lock file: %v", err)
	}

	if err := NewLock(tmpDir).Acquire(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLock_Release_Idempotent(t *testing.T) {
	lock := NewLock(t.TempDir())
	if err := lock.Acquire(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("second release should be a no-op, got %v", err)
	}
}

func TestLock_CheckFree(t *testing.T) {
	t.Run("no lock file", func(t *testing.T) {
		if err := NewLock(t.TempDir()).CheckFree(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("held by us", func(t *testing.T) {
		lock := NewLock(t.TempDir())
		if err := lock.Acquire(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := lock.CheckFree(); err != nil {
			t.Errorf("our own lock should not block us: %v", err)
		}
	})

	t.Run("held by live process", func(t *testing.T) {
		tmpDir := t.TempDir()
		os.WriteFile(filepath.Join(tmpDir, lockFileName), []byte("1"), 0644)

		var locked *LockedError
		if err := NewLock(tmpDir).CheckFree(); !errors.As(err, &locked) {
			t.Errorf("expected LockedError, got %v", err)
		}
	})

	t.Run("stale lock removed", func(t *testing.T) {
		tmpDir := t.TempDir()
		lockPath := filepath.Join(tmpDir, lockFileName)
		os.WriteFile(lockPath, []byte("99999999"), 0644)

		if err := NewLock(tmpDir).CheckFree(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
			t.Errorf("expected stale lock to be removed")
		}
	})
}

func TestLockedError_IsErrLocked(t *testing.T) {
	var err error = &LockedError{PID: 42}
	if !errors.Is(err, ErrLocked) {
		t.Error("expected LockedError to match ErrLocked")
	}
}
