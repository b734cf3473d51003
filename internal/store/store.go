// Package store persists small key-value settings across runs, such as the
// last validated recipient email. The medium is injectable; FileStore keeps
// values in a JSON file next to the binary.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// RecipientEmailKey holds the last validated recipient email.
const RecipientEmailKey = "recipient_email"

// Store is a minimal key-value collaborator. Get reports absence through its
// second result rather than an error.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// FileStore backs a Store with a JSON object on disk, loaded once at
// construction and rewritten on every Set.
type FileStore struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// NewFileStore loads the store at path, starting empty when the file does
// not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read store file %s: %w", path, err)
	}
	return &FileStore{path: path, values: values}, nil
}

// Get returns the stored value for key and whether it was present.
func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and writes the whole store back to disk.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file %s: %w", s.path, err)
	}
	return nil
}
