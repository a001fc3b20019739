package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/slivka-install/internal/manifest"
	"github.com/conn-castle/slivka-install/internal/messages"
)

// DefaultCondaEnvRoot is the directory under the project that holds the
// per-service environments.
const DefaultCondaEnvRoot = "conda_env"

// Conda installs services into conda environments.
type Conda struct {
	Common
	// Exe is the conda, mamba or micromamba executable.
	Exe string
	// EnvRoot is the environments directory, relative to the project unless absolute.
	EnvRoot string
	// RecreateEnv removes an existing environment instead of reusing it.
	RecreateEnv bool
}

// Name returns "conda".
func (c *Conda) Name() string { return NameConda }

// InstallFile returns <base>.conda.yaml next to serviceFile.
func (c *Conda) InstallFile(serviceFile string) string {
	return installFileFor(serviceFile, manifest.CondaSuffix)
}

// Applicable reports whether serviceFile has a conda install file.
func (c *Conda) Applicable(serviceFile string) bool {
	return c.applicable(c.InstallFile(serviceFile))
}

// Install creates the service's environment, copies its data directories
// and writes the descriptor with a "conda run -p <env>" command prefix.
func (c *Conda) Install(ctx context.Context, installFile string, projectRoot string) (string, error) {
	f, err := manifest.LoadConda(installFile)
	if err != nil {
		return "", err
	}
	l := newLayout(installFile, manifest.CondaSuffix, projectRoot)

	envPath, err := c.provision(ctx, f, l.base, projectRoot)
	if err != nil {
		return "", err
	}
	pairs, err := c.copyData(l, f.Files)
	if err != nil {
		return "", err
	}
	hostPath := func(dst string) string { return filepath.Join(l.dataRoot, dst) }
	chain, err := buildContext(CondaContext{EnvPath: envPath, System: c.sys()}, pairs, l.dataRoot, hostPath, f.Vars)
	if err != nil {
		return "", err
	}
	return c.writeService(l.serviceFile, projectRoot, chain, c.CommandPrefix(envPath))
}

// CommandPrefix returns the tokens that run a command inside envPath.
func (c *Conda) CommandPrefix(envPath string) []string {
	return []string{c.Exe, "run", "-p", envPath}
}

func (c *Conda) envRoot(projectRoot string) string {
	root := c.EnvRoot
	if root == "" {
		root = DefaultCondaEnvRoot
	}
	if filepath.IsAbs(root) {
		return root
	}
	return filepath.Join(projectRoot, root)
}

// provision creates <env root>/<base> unless it already exists.
func (c *Conda) provision(ctx context.Context, f *manifest.CondaFile, base string, projectRoot string) (string, error) {
	sys := c.sys()
	root := c.envRoot(projectRoot)
	if err := sys.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf(messages.BackendCreateDirFailedFmt, root, err)
	}
	if info, err := sys.Stat(root); err != nil || !info.IsDir() {
		return "", fmt.Errorf(messages.BackendCondaEnvRootInvalidFmt, root)
	}
	envPath := filepath.Join(root, base)
	if abs, err := filepath.Abs(envPath); err == nil {
		envPath = abs
	}

	_, err := sys.Stat(envPath)
	switch {
	case err == nil && !c.RecreateEnv:
		c.notice(messages.BackendCondaEnvExistsFmt, envPath)
		c.logger().Warn("reusing existing conda environment", "path", envPath)
		return envPath, nil
	case err == nil:
		if err := sys.RemoveAll(envPath); err != nil {
			return "", fmt.Errorf(messages.BackendRemoveFailedFmt, envPath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf(messages.BackendStatFailedFmt, envPath, err)
	}

	specFile, cleanup, err := c.environmentSpec(f)
	if err != nil {
		return "", err
	}
	defer cleanup()

	c.logger().Info("creating conda environment", "path", envPath, "spec", specFile)
	err = c.runner().Run(ctx, Command{Args: []string{
		c.Exe, "env", "create",
		"--prefix", envPath,
		"--file", specFile,
		"--yes", "--quiet",
	}})
	if err != nil {
		return "", err
	}
	return envPath, nil
}

// environmentSpec returns the environment file to create from. An inline
// environment is written to a temporary file removed by cleanup.
func (c *Conda) environmentSpec(f *manifest.CondaFile) (string, func(), error) {
	sys := c.sys()
	noop := func() {}
	inline, err := f.InlineEnvironment()
	if err != nil {
		return "", noop, err
	}
	if inline == nil {
		path := f.EnvironmentFilePath()
		info, err := sys.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return "", noop, fmt.Errorf(messages.BackendFileNotFoundFmt, path)
		}
		return path, noop, nil
	}

	dir, err := sys.MkdirTemp("", "slivka-install-env-*")
	if err != nil {
		return "", noop, fmt.Errorf(messages.BackendCreateDirFailedFmt, os.TempDir(), err)
	}
	cleanup := func() { _ = sys.RemoveAll(dir) }
	path := filepath.Join(dir, "environment.yaml")
	if err := sys.WriteFile(path, inline, 0o600); err != nil {
		cleanup()
		return "", noop, fmt.Errorf(messages.BackendWriteFileFailedFmt, path, err)
	}
	return path, cleanup, nil
}
