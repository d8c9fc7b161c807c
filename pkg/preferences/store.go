package preferences

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Stored is the persisted form. Empty strings mean "not set".
type Stored struct {
	Theme    string `yaml:"theme,omitempty"`
	FontSize string `yaml:"fontSize,omitempty"`
}

// Store persists preferences between runs.
type Store interface {
	Load() (Stored, error)
	Save(Stored) error
}

// MemoryStore keeps preferences for the life of the process.
type MemoryStore struct {
	mu     sync.Mutex
	stored Stored
}

// NewMemoryStore returns a store seeded with initial values.
func NewMemoryStore(initial Stored) *MemoryStore {
	return &MemoryStore{stored: initial}
}

func (m *MemoryStore) Load() (Stored, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored, nil
}

func (m *MemoryStore) Save(s Stored) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = s
	return nil
}

// FileStore keeps preferences in a YAML file. A missing file loads as empty.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path)}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load() (Stored, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Stored{}, nil
	}
	if err != nil {
		return Stored{}, fmt.Errorf("preferences: read %s: %w", f.path, err)
	}

	var out Stored
	if err := yaml.Unmarshal(data, &out); err != nil {
		return Stored{}, fmt.Errorf("preferences: decode %s: %w", f.path, err)
	}
	return out, nil
}

func (f *FileStore) Save(s Stored) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("preferences: encode: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("preferences: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("preferences: write %s: %w", f.path, err)
	}
	return nil
}
