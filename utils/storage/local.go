package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps uploaded files on disk under a single directory, each one
// saved under a generated unique name so original names never collide.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed and returns the store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

// StoredName generates a unique on-disk name preserving the original
// extension.
func (s *LocalStore) StoredName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return uuid.New().String() + ext
}

// PathFor returns the absolute path for a stored filename.
func (s *LocalStore) PathFor(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Exists reports whether the stored file is present on disk.
func (s *LocalStore) Exists(filename string) bool {
	_, err := os.Stat(s.PathFor(filename))
	return err == nil
}

// Remove deletes a stored file. A missing file is not an error; the metadata
// row is the source of truth and cleanup is best-effort.
func (s *LocalStore) Remove(filename string) error {
	err := os.Remove(s.PathFor(filename))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
