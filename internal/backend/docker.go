package backend

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/conn-castle/slivka-install/internal/datadirs"
	"github.com/conn-castle/slivka-install/internal/envfile"
	"github.com/conn-castle/slivka-install/internal/manifest"
	"github.com/conn-castle/slivka-install/internal/messages"
)

// Docker defaults.
const (
	DefaultMountRoot         = "/data"
	DefaultWrapperScript     = "${SLIVKA_HOME}/scripts/run_with_docker.sh"
	DefaultPassthroughPrefix = "DOCKER_"
)

// Docker installs services as docker images.
type Docker struct {
	Common
	Exe string
	// MountRoot is where data directories appear inside the container.
	MountRoot string
	// WrapperScript runs the container; it is expanded by the platform at run time.
	WrapperScript string
	// PassthroughPrefix selects host variables forwarded to the wrapper script.
	PassthroughPrefix string
}

// Name returns "docker".
func (d *Docker) Name() string { return NameDocker }

// InstallFile returns <base>.docker.yaml next to serviceFile.
func (d *Docker) InstallFile(serviceFile string) string {
	return installFileFor(serviceFile, manifest.DockerSuffix)
}

// Applicable reports whether serviceFile has a docker install file.
func (d *Docker) Applicable(serviceFile string) bool {
	return d.applicable(d.InstallFile(serviceFile))
}

// Install pulls or builds the image, copies data directories and writes the
// descriptor with a command prefix that runs the image through the wrapper
// script with every data directory bind-mounted read-only.
func (d *Docker) Install(ctx context.Context, installFile string, projectRoot string) (string, error) {
	f, err := manifest.LoadDocker(installFile)
	if err != nil {
		return "", err
	}
	image, err := d.makeImage(ctx, f)
	if err != nil {
		return "", err
	}
	l := newLayout(installFile, manifest.DockerSuffix, projectRoot)
	pairs, err := d.copyData(l, f.Files)
	if err != nil {
		return "", err
	}
	provider := NewDockerContext(ctx, d.runner(), d.Exe, image)
	chain, err := buildContext(provider, pairs, l.dataRoot, d.containerPath, f.Vars)
	if err != nil {
		return "", err
	}
	prefix, err := d.CommandPrefix(pairs, l.dataRoot, image)
	if err != nil {
		return "", err
	}
	return d.writeService(l.serviceFile, projectRoot, chain, prefix)
}

// CommandPrefix returns env, the forwarded host variables, the wrapper
// script, one --mount per data directory and the image.
func (d *Docker) CommandPrefix(pairs []datadirs.Pair, dataRoot string, image string) ([]string, error) {
	sys := d.sys()
	envExe, err := sys.LookPath("env")
	if err != nil || envExe == "" {
		return nil, &ExecutableNotFoundError{Name: "env"}
	}
	prefix := []string{envExe}
	prefix = append(prefix, envfile.WithPrefix(sys.Environ(), d.passthroughPrefix())...)
	prefix = append(prefix, "bash", d.wrapperScript())
	for _, pair := range pairs {
		mount := fmt.Sprintf("type=bind,src=%s,dst=%s,ro", filepath.Join(dataRoot, pair.Dst), d.containerPath(pair.Dst))
		prefix = append(prefix, "--mount", mount)
	}
	return append(prefix, image), nil
}

func (d *Docker) containerPath(dst string) string {
	return path.Join(d.mountRoot(), filepath.ToSlash(dst))
}

func (d *Docker) mountRoot() string {
	if d.MountRoot == "" {
		return DefaultMountRoot
	}
	return d.MountRoot
}

func (d *Docker) wrapperScript() string {
	if d.WrapperScript == "" {
		return DefaultWrapperScript
	}
	return d.WrapperScript
}

func (d *Docker) passthroughPrefix() string {
	if d.PassthroughPrefix == "" {
		return DefaultPassthroughPrefix
	}
	return d.PassthroughPrefix
}

// makeImage pulls or builds the configured image and returns its reference.
func (d *Docker) makeImage(ctx context.Context, f *manifest.DockerFile) (string, error) {
	switch {
	case f.Pull != nil:
		ref := f.Pull.Reference()
		args := []string{d.Exe, "image", "pull"}
		if f.Pull.Platform != "" {
			args = append(args, "--platform", f.Pull.Platform)
		}
		args = append(args, "--quiet", ref)
		d.logger().Info("pulling image", "image", ref)
		if err := d.runner().Run(ctx, Command{Args: args}); err != nil {
			return "", err
		}
		return ref, nil
	case f.Build != nil:
		ref := f.Build.Reference()
		dockerfile := f.DockerfilePath()
		info, err := d.sys().Stat(dockerfile)
		if err != nil || !info.Mode().IsRegular() {
			return "", fmt.Errorf(messages.BackendFileNotFoundFmt, dockerfile)
		}
		dir := filepath.Dir(dockerfile)
		args := []string{d.Exe, "buildx", "build", "--tag", ref}
		if f.Build.Platform != "" {
			args = append(args, "--platform", f.Build.Platform)
		}
		args = append(args, "--file", dockerfile, dir)
		d.logger().Info("building image", "image", ref, "dockerfile", dockerfile)
		if err := d.runner().Run(ctx, Command{Args: args, Dir: dir}); err != nil {
			return "", err
		}
		return ref, nil
	default:
		return "", ErrNoImage
	}
}
