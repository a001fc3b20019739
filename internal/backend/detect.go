package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// Conda lookup order when no executable is configured: variables first,
// then PATH.
var condaEnvCandidates = []string{"MAMBA_EXE", "CONDA_EXE"}
var condaPathCandidates = []string{"micromamba", "mamba", "conda"}

// ResolveExecutable expands a leading ~ in name and resolves it through PATH
// (names containing a separator are checked as paths).
func ResolveExecutable(sys System, name string) (string, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(name))
	if err != nil {
		return "", fmt.Errorf(messages.BackendExpandPathFailedFmt, name, err)
	}
	path, err := sys.LookPath(expanded)
	if err != nil || path == "" {
		return "", &ExecutableNotFoundError{Name: name}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

// DetectConda returns the conda-compatible executable to use. An explicit
// name wins; otherwise $MAMBA_EXE, $CONDA_EXE, micromamba, mamba and conda
// are tried in that order.
func DetectConda(sys System, explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return ResolveExecutable(sys, explicit)
	}
	for _, key := range condaEnvCandidates {
		if value := strings.TrimSpace(sys.Getenv(key)); value != "" {
			return value, nil
		}
	}
	for _, name := range condaPathCandidates {
		if path, err := sys.LookPath(name); err == nil && path != "" {
			return path, nil
		}
	}
	return "", &ExecutableNotFoundError{Name: messages.BackendCondaLabel}
}

// DetectDocker returns the docker executable, explicit or found on PATH.
func DetectDocker(sys System, explicit string) (string, error) {
	name := strings.TrimSpace(explicit)
	if name == "" {
		name = "docker"
	}
	return ResolveExecutable(sys, name)
}

// findExecutable searches dirs in order for an executable regular file.
func findExecutable(sys System, name string, dirs []string) (string, bool) {
	if strings.ContainsRune(name, os.PathSeparator) {
		return name, isExecutable(sys, name)
	}
	for _, dir := range dirs {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(sys, candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isExecutable(sys System, path string) bool {
	info, err := sys.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
