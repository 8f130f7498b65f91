package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"webrunner/domain/interfaces"

	"gopkg.in/ini.v1"
)

// fileLocks holds one mutex per absolute file path, shared by every store
// opened on that file
var fileLocks sync.Map

type iniStore struct {
	path string
	mu   *sync.Mutex
}

// NewINIStore - creates a key/value store backed by an INI file. The file is
// created on first write; every write re-reads the file so edits made
// between calls are kept. Stores on the same file share a lock.
func NewINIStore(path string) interfaces.Store {
	return &iniStore{path: path, mu: lockFor(path)}
}

func lockFor(path string) *sync.Mutex {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}
	mu, _ := fileLocks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Get - reads section.key from the file
func (s *iniStore) Get(section, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	sec, err := file.GetSection(section)
	if err != nil || !sec.HasKey(key) {
		return "", false, nil
	}
	return sec.Key(key).String(), true, nil
}

// Set - writes section.key, last write wins
func (s *iniStore) Set(section, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	file.Section(section).Key(key).SetValue(value)

	return s.save(file)
}

// load - reads the file, treating a missing file as empty. Values are stored
// literally: no inline comments, surrounding quotes kept, no line continuation.
func (s *iniStore) load() (*ini.File, error) {
	return ini.LoadSources(ini.LoadOptions{
		Loose:                   true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
		IgnoreContinuation:      true,
	}, s.path)
}

// save - writes to a temp file and renames it over the target
func (s *iniStore) save(file *ini.File) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := file.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
