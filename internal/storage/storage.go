package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a file-based key-value store for device-local UI state (checked
// items, custom list entries, slot selection, servings overrides, theme and
// language preference). One JSON file per key.
type Store struct {
	basePath string
	mu       sync.Mutex
}

// NewStore creates a new Store and ensures the base directory exists.
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", basePath, err)
	}
	return &Store{basePath: basePath}, nil
}

// sanitizeKey makes the key safe for filenames.
func sanitizeKey(key string) string {
	replacer := strings.NewReplacer("/", "-", ":", "-", " ", "_")
	return replacer.Replace(key)
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.basePath, sanitizeKey(key)+".json")
}

// Get unmarshals the value stored under key into v. It returns false with a
// nil error when the key has never been written.
func (s *Store) Get(key string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read state file for %q: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal state for %q: %w", key, err)
	}
	return true, nil
}

// Set marshals v and writes it under key.
func (s *Store) Set(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state for %q: %w", key, err)
	}

	if err := os.WriteFile(s.pathFor(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write state file for %q: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathFor(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete state file for %q: %w", key, err)
	}
	return nil
}
