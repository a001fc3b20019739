// Package backend provisions service runtimes (conda environments and
// docker images) and writes the resulting service descriptors.
package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/conn-castle/slivka-install/internal/datadirs"
	"github.com/conn-castle/slivka-install/internal/interpolate"
	"github.com/conn-castle/slivka-install/internal/manifest"
)

// Backend names.
const (
	NameConda  = "conda"
	NameDocker = "docker"
)

// Backend installs services with one runtime technology.
type Backend interface {
	Name() string
	// InstallFile returns the install file this backend reads for serviceFile.
	InstallFile(serviceFile string) string
	// Applicable reports whether the install file exists. It has no side effects.
	Applicable(serviceFile string) bool
	// Install provisions the runtime for installFile under projectRoot and
	// returns the path of the written service descriptor.
	Install(ctx context.Context, installFile string, projectRoot string) (string, error)
}

// Common holds the collaborators shared by every backend.
type Common struct {
	Runner Runner
	System System
	// Copier copies data directories; nil keeps existing destinations.
	Copier *datadirs.Copier
	// OverwriteService decides whether an existing, different descriptor is
	// replaced. Nil keeps it.
	OverwriteService OverwriteServiceFunc
	DiffMaxLines     int
	// Notice receives user-facing progress notes; nil discards them.
	Notice io.Writer
	Logger *slog.Logger
}

func (c *Common) sys() System {
	if c.System == nil {
		return RealSystem{}
	}
	return c.System
}

func (c *Common) runner() Runner {
	if c.Runner == nil {
		return ExecRunner{Logger: c.Logger}
	}
	return c.Runner
}

func (c *Common) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Common) copier() *datadirs.Copier {
	if c.Copier == nil {
		return &datadirs.Copier{Notice: c.Notice, Logger: c.Logger}
	}
	return c.Copier
}

func (c *Common) notice(format string, args ...any) {
	if c.Notice == nil {
		return
	}
	_, _ = fmt.Fprintf(c.Notice, format, args...)
}

func (c *Common) applicable(path string) bool {
	info, err := c.sys().Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// layout holds the paths derived from one install file.
type layout struct {
	base        string
	srcRoot     string
	serviceFile string
	dataRoot    string
}

func newLayout(installFile string, suffix string, projectRoot string) layout {
	base := manifest.BaseName(installFile, suffix)
	return layout{
		base:        base,
		srcRoot:     filepath.Dir(installFile),
		serviceFile: manifest.Sibling(installFile, base, manifest.ServiceSuffix),
		dataRoot:    filepath.Join(projectRoot, "data", base),
	}
}

func installFileFor(serviceFile string, suffix string) string {
	return manifest.Sibling(serviceFile, manifest.BaseName(serviceFile, manifest.ServiceSuffix), suffix)
}

// copyData copies the selected data directories into the data root.
func (c *Common) copyData(l layout, rules []datadirs.Rule) ([]datadirs.Pair, error) {
	pairs, err := datadirs.FindAndCopy(l.srcRoot, rules, l.dataRoot, c.copier())
	if err != nil {
		return nil, err
	}
	c.logger().Debug("data directories ready", "service", l.base, "count", len(pairs))
	return pairs, nil
}

// buildContext layers provider over the local and runtime path maps and
// pushes the interpolated vars on top.
func buildContext(provider interpolate.Provider, pairs []datadirs.Pair, dataRoot string, runtimePath func(dst string) string, vars map[string]string) (*interpolate.Chain, error) {
	dirs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		dirs[pair.Src] = pair.Dst
	}
	localPath := func(dst string) string { return filepath.Join(dataRoot, dst) }
	chain := interpolate.NewChain(
		provider,
		interpolate.PathMap(interpolate.NamespaceLocalPath, dirs, localPath),
		interpolate.PathMap(interpolate.NamespaceRuntimePath, dirs, runtimePath),
	)
	resolved, err := interpolate.Strings(vars, chain)
	if err != nil {
		return nil, err
	}
	chain.Push(interpolate.Namespaced(interpolate.NamespaceVar, resolved))
	return chain, nil
}
