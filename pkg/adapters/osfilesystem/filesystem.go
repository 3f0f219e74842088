// Package osfilesystem provides a filesystem implementation using the os package.
package osfilesystem

import (
	"os"
	"path/filepath"

	"github.com/user/videoread/pkg/ports"
)

// FileSystem implements ports.FileSystem using the os package.
type FileSystem struct{}

// New creates a new FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

// WriteFile writes data to a file, creating parent directories as
// needed.
func (fs *FileSystem) WriteFile(path string, data []byte) error {
	if err := fs.ensureParent(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// AppendFile appends data to a file, creating it and its parent
// directories if necessary.
func (fs *FileSystem) AppendFile(path string, data []byte) error {
	if err := fs.ensureParent(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// MkdirAll creates a directory and all parent directories.
func (fs *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (fs *FileSystem) ensureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

var _ ports.FileSystem = (*FileSystem)(nil)
