package install

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/conn-castle/slivka-install/internal/fsutil"
)

// System abstracts the filesystem operations used to copy shared files.
type System interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(name string) (os.FileInfo, error)
	Lstat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	CopyFile(src string, dst string, info fs.FileInfo) error
}

// RealSystem implements System using actual system calls.
type RealSystem struct{}

// WalkDir walks the file tree rooted at root.
func (RealSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

// Stat returns a FileInfo describing the named file, following symlinks.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Lstat returns a FileInfo describing the named file.
func (RealSystem) Lstat(name string) (os.FileInfo, error) {
	return os.Lstat(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// CopyFile copies src to dst with the mode and modification time of info.
func (RealSystem) CopyFile(src string, dst string, info fs.FileInfo) error {
	return fsutil.CopyFile(src, dst, info)
}
