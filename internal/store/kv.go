package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoKey is returned by KV.Get when the key has never been written.
var ErrNoKey = errors.New("key not found")

// KV is a durable string-keyed blob store.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// FileKV stores each key as <dir>/<key>.json.
type FileKV struct {
	dir string
}

// NewFileKV creates a file-backed KV rooted at dir.
func NewFileKV(dir string) *FileKV {
	return &FileKV{dir: dir}
}

// Dir returns the directory holding the key files.
func (f *FileKV) Dir() string {
	return f.dir
}

// Get reads the value stored under key.
func (f *FileKV) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoKey
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set atomically replaces the value stored under key.
// Uses a temp file + rename so readers never see a partial write.
func (f *FileKV) Set(key string, value []byte) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	path := f.path(key)
	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())

	if err := os.WriteFile(tmpPath, value, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Clean up temp file on failure
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// MemoryKV is an in-memory KV for tests and dry runs.
type MemoryKV struct {
	data map[string][]byte
	// SetErr, when non-nil, is returned by every Set call.
	SetErr error
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

// Get returns a copy of the stored value.
func (m *MemoryKV) Get(key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNoKey
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (m *MemoryKV) Set(key string, value []byte) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}
