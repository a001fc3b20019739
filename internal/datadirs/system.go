package datadirs

import (
	"os"

	"github.com/conn-castle/slivka-install/internal/fsutil"
)

// System abstracts the filesystem operations used by the copier so tests
// can inject failures.
type System interface {
	Lstat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	MkdirTemp(dir string, pattern string) (string, error)
	RemoveAll(path string) error
	Rename(oldpath string, newpath string) error
	CopyTree(src string, dst string) error
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// Lstat returns a FileInfo describing the named file without following symlinks.
func (RealSystem) Lstat(name string) (os.FileInfo, error) {
	return os.Lstat(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// MkdirTemp creates a new temporary directory in dir.
func (RealSystem) MkdirTemp(dir string, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// RemoveAll removes path and any children it contains.
func (RealSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Rename renames (moves) oldpath to newpath.
func (RealSystem) Rename(oldpath string, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// CopyTree copies the directory tree src to the non-existent path dst.
func (RealSystem) CopyTree(src string, dst string) error {
	return fsutil.CopyTree(src, dst)
}
