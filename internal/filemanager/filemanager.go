// Package filemanager provides process-safe JSON file persistence.
// Writes go through a temp file in the target directory followed by an
// atomic rename, so concurrent readers never observe a partial file.
package filemanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockTimeout is returned when acquiring a file lock times out
var ErrLockTimeout = errors.New("timeout acquiring file lock")

// Manager provides process-safe reads and atomic writes of a JSON file
type Manager[T any] struct {
	// lockTimeout is the maximum time to wait for a file lock
	lockTimeout time.Duration
}

// NewManager creates a new file manager with default settings
func NewManager[T any]() *Manager[T] {
	return &Manager[T]{lockTimeout: 5 * time.Second}
}

// NewManagerWithTimeout creates a new file manager with a custom lock timeout
func NewManagerWithTimeout[T any](timeout time.Duration) *Manager[T] {
	return &Manager[T]{lockTimeout: timeout}
}

// Read reads and unmarshals the file under a shared lock.
// Returns the underlying os.Stat error when the file is absent.
func (m *Manager[T]) Read(ctx context.Context, path string) (*T, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	lock := flock.New(path)

	lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	defer cancel()

	locked, err := lock.TryRLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire read lock: %w", err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json: %w", err)
	}

	return &result, nil
}

// Write marshals data and writes it under an exclusive lock using a
// temp file in the same directory plus an atomic rename. The payload is
// indented so the file stays hand-editable.
func (m *Manager[T]) Write(ctx context.Context, path string, data *T) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	lock := flock.New(path)

	lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() { _ = lock.Unlock() }()

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}
	jsonData = append(jsonData, '\n')

	// Unique temp file name to avoid conflicts on Windows
	tempFile := fmt.Sprintf("%s.%d.%d.tmp", path, os.Getpid(), time.Now().UnixNano())
	if err := os.WriteFile(tempFile, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Sync before rename so the rename publishes complete data
	if f, err := os.OpenFile(tempFile, os.O_RDWR, 0o644); err == nil {
		_ = f.Sync()
		_ = f.Close()
	}

	if err := atomicRename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// Delete removes the file under an exclusive lock. Deleting an absent
// file is not an error.
func (m *Manager[T]) Delete(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}

	lock := flock.New(path)

	lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}

	// Unlock before removing on Windows to avoid file handle issues
	if err := lock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock file: %w", err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}
