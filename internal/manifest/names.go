// Package manifest reads the YAML documents that describe a service: the
// service descriptor template and the per-backend install files.
package manifest

import (
	"path/filepath"
	"strings"
)

// File name suffixes inside a service folder.
const (
	ServiceSuffix = ".service.yaml"
	CondaSuffix   = ".conda.yaml"
	DockerSuffix  = ".docker.yaml"
)

// BaseName strips suffix from the file name of path. It returns the file
// name unchanged when the suffix is absent.
func BaseName(path string, suffix string) string {
	return strings.TrimSuffix(filepath.Base(path), suffix)
}

// Sibling returns the path of the file named base+suffix next to path.
func Sibling(path string, base string, suffix string) string {
	return filepath.Join(filepath.Dir(path), base+suffix)
}

// ServiceFileFor returns the service template that belongs to an install file.
func ServiceFileFor(installFile string, installSuffix string) string {
	return Sibling(installFile, BaseName(installFile, installSuffix), ServiceSuffix)
}
