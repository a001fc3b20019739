package config

import "path/filepath"

// Paths holds the source checkout locations resolved from a Config.
type Paths struct {
	Root        string
	ConfigPath  string
	ServicesDir string
	SharedDir   string
}

// DefaultConfigPath returns the settings file path for a source root.
func DefaultConfigPath(root string) string {
	return filepath.Join(root, FileName)
}

// ResolvePaths resolves the configured directories against root.
func (c *Config) ResolvePaths(root string, configPath string) Paths {
	return Paths{
		Root:        root,
		ConfigPath:  configPath,
		ServicesDir: resolve(root, c.ServicesDir),
		SharedDir:   resolve(root, c.SharedDir),
	}
}

func resolve(root string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
