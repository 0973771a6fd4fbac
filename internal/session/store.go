// Package session persists the single opaque backend session identifier
// between runs. The id is an opaque credential: it is stored verbatim and
// never inspected.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the single-slot durable storage contract for the session id.
// All operations are idempotent.
type Store interface {
	// Save writes the session id, replacing any previous one.
	Save(id string) error

	// Load returns the stored session id. The boolean reports whether a
	// session is present.
	Load() (string, bool, error)

	// Clear removes the stored session id. Clearing an empty store is not
	// an error.
	Clear() error
}

// FileStore keeps the session id in a small file under the user cache
// directory, the same way OAuth tokens are cached for CLI tools.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store rooted at dir. An empty dir
// selects the default cache location.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = DefaultDir()
	}
	return &FileStore{path: filepath.Join(dir, "session")}
}

// DefaultDir returns the default directory for persisted state.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "nextclass")
}

// Path returns the file the session id is stored in.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the session id with owner-only permissions.
func (s *FileStore) Save(id string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(id+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load reads the stored session id, if any.
func (s *FileStore) Load() (string, bool, error) {
	slurp, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session file: %w", err)
	}
	id := strings.TrimSpace(string(slurp))
	if id == "" {
		return "", false, nil
	}
	return id, true, nil
}

// Clear removes the session file.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
