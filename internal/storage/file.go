package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

const lockFileName = ".lock"

// FileStorage keeps each slot in its own JSON file under a directory.
// Writes go through a temp file and a rename so a slot is never half written.
type FileStorage struct {
	fs   afero.Fs
	dir  string
	lock *flock.Flock
}

// NewFileStorage creates a FileStorage on the OS filesystem. Writes are
// guarded by a lock file so concurrent processes never interleave.
func NewFileStorage(dir string) (*FileStorage, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	s := NewFileStorageFs(osFs, dir)
	s.lock = flock.New(filepath.Join(dir, lockFileName))
	return s, nil
}

// NewFileStorageFs creates a FileStorage on an arbitrary afero filesystem,
// without inter-process locking.
func NewFileStorageFs(fsys afero.Fs, dir string) *FileStorage {
	return &FileStorage{fs: fsys, dir: dir}
}

// Path returns the file backing a slot.
func (s *FileStorage) Path(slot string) string {
	return filepath.Join(s.dir, slot+".json")
}

// Get returns the slot contents and true if the slot file exists.
func (s *FileStorage) Get(slot string) ([]byte, bool, error) {
	data, err := afero.ReadFile(s.fs, s.Path(slot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return data, true, nil
}

// Set atomically replaces the slot file.
func (s *FileStorage) Set(slot string, data []byte) error {
	if s.lock != nil {
		if err := s.lock.Lock(); err != nil {
			return fmt.Errorf("lock storage: %w", err)
		}
		defer s.lock.Unlock()
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	path := s.Path(slot)
	tmpPath := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := s.fs.Rename(tmpPath, path); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Close releases the lock file handle.
func (s *FileStorage) Close() error {
	if s.lock != nil {
		return s.lock.Close()
	}
	return nil
}
