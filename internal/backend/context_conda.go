package backend

import (
	"path/filepath"

	"github.com/conn-castle/slivka-install/internal/interpolate"
)

// Namespaces answered by the runtime providers.
const (
	NamespaceEnv   = "env"
	NamespaceWhich = "which"
)

// CondaContext resolves env: and which: keys for a conda environment.
type CondaContext struct {
	EnvPath string
	System  System
}

// Get implements interpolate.Provider. env: reads the installer's own
// environment; which: searches <env>/bin before PATH.
func (c CondaContext) Get(namespace string, name string) (string, error) {
	sys := c.System
	if sys == nil {
		sys = RealSystem{}
	}
	switch namespace {
	case NamespaceEnv:
		value, ok := sys.LookupEnv(name)
		if !ok {
			return "", interpolate.NotFound(namespace, name)
		}
		return value, nil
	case NamespaceWhich:
		dirs := append([]string{filepath.Join(c.EnvPath, "bin")}, filepath.SplitList(sys.Getenv("PATH"))...)
		path, ok := findExecutable(sys, name, dirs)
		if !ok {
			return "", &ExecutableNotFoundError{Name: name}
		}
		return path, nil
	default:
		return "", interpolate.NotFound(namespace, name)
	}
}
