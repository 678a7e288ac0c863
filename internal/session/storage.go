package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Storage is one persistence scope for the session pair
type Storage interface {
	Get(key string) (string, bool)
	Put(entries map[string]string) error
	Delete(keys ...string) error
}

// MemoryStorage keeps entries in memory; used by tests and as a scratch scope
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryStorage returns an empty in-memory scope
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok && v != ""
}

func (m *MemoryStorage) Put(entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}

func (m *MemoryStorage) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// FileStorage keeps entries in a small YAML file. Writes go through a temp file
// and a rename so a reader never sees a half-written pair.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage returns a scope backed by path; the file is created on first write
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// ScopePath returns the per-terminal session file, keyed by the parent shell's pid
func ScopePath() string {
	return filepath.Join(os.TempDir(), "pbank-session-"+strconv.Itoa(os.Getppid())+".yaml")
}

// Path returns the backing file
func (f *FileStorage) Path() string {
	return f.path
}

func (f *FileStorage) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return "", false
	}
	v, ok := entries[key]
	return v, ok && v != ""
}

func (f *FileStorage) Put(entries map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, err := f.load()
	if err != nil {
		current = make(map[string]string)
	}
	for k, v := range entries {
		current[k] = v
	}
	return f.save(current)
}

func (f *FileStorage) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, err := f.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		// unreadable file: drop it entirely
		return f.remove()
	}
	for _, k := range keys {
		delete(current, k)
	}
	if len(current) == 0 {
		return f.remove()
	}
	return f.save(current)
}

func (f *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]string)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return entries, nil
}

func (f *FileStorage) save(entries map[string]string) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (f *FileStorage) remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
