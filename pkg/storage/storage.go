package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStorage stores and retrieves attachment files by stable path.
type FileStorage interface {
	Save(name string, r io.Reader) (path string, err error)
	Exists(path string) bool
	Delete(path string) error
	Open(path string) (io.ReadCloser, error)
}

// LocalStorage keeps files on the local filesystem under a base directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a local file storage rooted at basePath
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save writes the file under a collision-free name and returns its path
func (s *LocalStorage) Save(name string, r io.Reader) (string, error) {
	stored := uuid.New().String() + "-" + filepath.Base(name)
	path := filepath.Join(s.basePath, stored)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}

// Exists reports whether a stored file is still present
func (s *LocalStorage) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Delete removes a stored file. Missing files are not an error.
func (s *LocalStorage) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Open opens a stored file for reading
func (s *LocalStorage) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
