// Package store persists small JSON documents, one value per file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Slot is a durable container for a single value that is loaded once and
// rewritten in full on every change.
type Slot[T any] interface {
	// Load returns the stored value. A slot that was never written returns
	// the zero value and no error.
	Load() (T, error)
	// Save replaces the stored value.
	Save(value T) error
}

// File is a Slot backed by a JSON file.
type File[T any] struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a Slot stored at path. The file is not touched until the
// first Load or Save.
func NewFile[T any](path string) *File[T] {
	return &File[T]{path: path}
}

// Path returns the location of the backing file.
func (f *File[T]) Path() string {
	return f.path
}

// Load reads and decodes the file. A missing file is the zero value.
func (f *File[T]) Load() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var value T
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return value, nil
	}
	if err != nil {
		return value, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if err := json.Unmarshal(data, &value); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to decode %s: %w", f.path, err)
	}
	return value, nil
}

// Save encodes value and rewrites the whole file, creating its directory.
func (f *File[T]) Save(value T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}

// Memory is an in-process Slot. Tests use it in place of File.
type Memory[T any] struct {
	mu    sync.Mutex
	value T

	// LoadError and SaveError are returned by Load and Save when set.
	LoadError error
	SaveError error
	// Saves counts successful writes.
	Saves int
}

// NewMemory returns a Memory slot holding value.
func NewMemory[T any](value T) *Memory[T] {
	return &Memory[T]{value: value}
}

func (m *Memory[T]) Load() (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		var zero T
		return zero, m.LoadError
	}
	return m.value, nil
}

func (m *Memory[T]) Save(value T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveError != nil {
		return m.SaveError
	}
	m.value = value
	m.Saves++
	return nil
}

// Value returns the last saved value without going through Load.
func (m *Memory[T]) Value() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}
