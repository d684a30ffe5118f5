// Package storage provides the flat image directory where uploaded product
// images live, addressed by filename only.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ImageStore abstracts the image directory so the service can be tested
// against a temporary directory or another flat blob store.
type ImageStore interface {
	// Save writes data under name, replacing any existing file.
	Save(name string, data []byte) error

	// Remove deletes the file named name. A file that is already gone is
	// treated as success.
	Remove(name string) error

	// Path resolves name to an absolute location inside the directory.
	Path(name string) string
}

// DiskStore is an ImageStore backed by a single directory on disk.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the directory if needed and returns a store rooted at it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(name string, data []byte) error {
	if err := os.WriteFile(s.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write image %s: %w", name, err)
	}
	return nil
}

func (s *DiskStore) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image %s: %w", name, err)
	}
	return nil
}

// Path confines name to the store's directory; any path components in name
// are discarded.
func (s *DiskStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename reduces an externally supplied filename to a safe form:
// directory components are stripped, spaces become underscores and any
// character outside [A-Za-z0-9._-] is dropped.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	return name
}
