package backend

import (
	"os"
	"os/exec"

	"github.com/conn-castle/slivka-install/internal/fsutil"
)

// System abstracts the filesystem and process environment used by backends.
type System interface {
	LookPath(file string) (string, error)
	Getenv(key string) string
	LookupEnv(key string) (string, bool)
	Environ() []string
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	MkdirTemp(dir string, pattern string) (string, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
	RemoveAll(path string) error
}

// RealSystem implements System with the os package.
type RealSystem struct{}

// LookPath searches PATH for an executable named file.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Getenv returns the value of an environment variable.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}

// LookupEnv returns the value of an environment variable and whether it is set.
func (RealSystem) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Environ returns the process environment.
func (RealSystem) Environ() []string {
	return os.Environ()
}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// MkdirTemp creates a new temporary directory.
func (RealSystem) MkdirTemp(dir string, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// ReadFile reads the named file.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile writes data to the named file.
func (RealSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// WriteFileAtomic writes data through a temporary file and a rename.
func (RealSystem) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(filename, data, perm)
}

// RemoveAll removes path and any children it contains.
func (RealSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
