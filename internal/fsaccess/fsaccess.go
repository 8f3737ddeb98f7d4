// Package fsaccess defines the file access capability injected into the
// debug engine, with an OS-backed and an in-memory implementation.
package fsaccess

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// ErrNotFound is returned by MemFS for unknown paths.
var ErrNotFound = errors.New("file not found")

// FileAccessor is the file capability the engine depends on.
type FileAccessor interface {
	// IsWindows reports whether paths follow Windows conventions.
	IsWindows() bool

	// ReadFile returns the contents of path.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile replaces the contents of path.
	WriteFile(ctx context.Context, path string, data []byte) error
}

// OS implements FileAccessor on the host file system.
type OS struct{}

// IsWindows implements FileAccessor.
func (OS) IsWindows() bool {
	return runtime.GOOS == "windows"
}

// ReadFile implements FileAccessor.
func (OS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile implements FileAccessor.
func (OS) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// MemFS is an in-memory FileAccessor, keyed by exact path.
type MemFS struct {
	mu      sync.RWMutex
	files   map[string][]byte
	windows bool
	reads   int
}

// NewMemFS creates a MemFS holding the given files.
func NewMemFS(files map[string]string) *MemFS {
	m := &MemFS{files: make(map[string][]byte, len(files))}
	for path, content := range files {
		m.files[path] = []byte(content)
	}
	return m
}

// SetWindows switches the reported path convention.
func (m *MemFS) SetWindows(windows bool) {
	m.mu.Lock()
	m.windows = windows
	m.mu.Unlock()
}

// IsWindows implements FileAccessor.
func (m *MemFS) IsWindows() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.windows
}

// ReadFile implements FileAccessor.
func (m *MemFS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: path, Err: ErrNotFound}
	}
	return append([]byte(nil), data...), nil
}

// WriteFile implements FileAccessor.
func (m *MemFS) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.files[path] = append([]byte(nil), data...)
	m.mu.Unlock()
	return nil
}

// Reads returns how many ReadFile calls were made.
func (m *MemFS) Reads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads
}
