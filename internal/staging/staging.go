// Package staging manages the local working directories a transcoding job
// moves files through: one for raw downloads, one for processed output.
package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store owns the raw and processed staging directories. Filenames are joined
// onto fixed roots as-is; rejecting unsafe names is the caller's job.
type Store struct {
	rawDir       string
	processedDir string
}

// New constructs a Store over the two staging roots.
func New(rawDir, processedDir string) *Store {
	return &Store{rawDir: rawDir, processedDir: processedDir}
}

// EnsureDirectories creates both staging directories if they do not already
// exist. Safe to call repeatedly.
func (s *Store) EnsureDirectories() error {
	for _, dir := range []string{s.rawDir, s.processedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create staging dir %s: %w", dir, err)
		}
	}
	return nil
}

// RawPath returns the staging path for a raw file name.
func (s *Store) RawPath(name string) string {
	return filepath.Join(s.rawDir, name)
}

// ProcessedPath returns the staging path for a processed file name.
func (s *Store) ProcessedPath(name string) string {
	return filepath.Join(s.processedDir, name)
}

// DeleteRaw removes a staged raw file. A missing file is not an error:
// cleanup may run after a prior partial failure already removed it.
func (s *Store) DeleteRaw(name string) error {
	return deleteFile(s.RawPath(name))
}

// DeleteProcessed removes a staged processed file, tolerating absence the
// same way DeleteRaw does.
func (s *Store) DeleteProcessed(name string) error {
	return deleteFile(s.ProcessedPath(name))
}

func deleteFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
