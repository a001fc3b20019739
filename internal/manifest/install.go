package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/conn-castle/slivka-install/internal/datadirs"
	"github.com/conn-castle/slivka-install/internal/messages"
)

// DefaultEnvironmentFile is used when a conda install file names neither an
// inline environment nor an environment file.
const DefaultEnvironmentFile = "environment.yaml"

// CondaFile is the <base>.conda.yaml install file.
type CondaFile struct {
	Path string `yaml:"-"`
	// Environment is an inline environment specification.
	Environment     yaml.Node         `yaml:"environment"`
	EnvironmentFile string            `yaml:"environment-file"`
	Files           datadirs.Rules    `yaml:"files"`
	Vars            map[string]string `yaml:"vars"`
}

// DockerFile is the <base>.docker.yaml install file.
type DockerFile struct {
	Path  string            `yaml:"-"`
	Pull  *ImageRef         `yaml:"pull"`
	Build *BuildSpec        `yaml:"build"`
	Files datadirs.Rules    `yaml:"files"`
	Vars  map[string]string `yaml:"vars"`
}

// ImageRef names an image to pull. In YAML it is either a plain image name
// or a mapping with image, tag and platform keys.
type ImageRef struct {
	Image    string `yaml:"image"`
	Tag      string `yaml:"tag"`
	Platform string `yaml:"platform"`
}

// BuildSpec describes an image built from a Dockerfile.
type BuildSpec struct {
	Dockerfile string `yaml:"dockerfile"`
	Image      string `yaml:"image"`
	Tag        string `yaml:"tag"`
	Platform   string `yaml:"platform"`
}

// UnmarshalYAML accepts both the scalar and mapping forms.
func (r *ImageRef) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*r = ImageRef{Image: value.Value}
	case yaml.MappingNode:
		type plain ImageRef
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*r = ImageRef(p)
	default:
		return fmt.Errorf(messages.ManifestPullInvalidFmt, value.Line)
	}
	if r.Image == "" {
		return errors.New(messages.ManifestImageRequired)
	}
	return nil
}

// Reference returns image[:tag].
func (r ImageRef) Reference() string {
	return reference(r.Image, r.Tag)
}

// Reference returns image[:tag].
func (b BuildSpec) Reference() string {
	return reference(b.Image, b.Tag)
}

func reference(image string, tag string) string {
	if tag == "" {
		return image
	}
	return image + ":" + tag
}

// LoadConda reads a conda install file.
func LoadConda(path string) (*CondaFile, error) {
	var f CondaFile
	if err := loadYAML(path, &f); err != nil {
		return nil, err
	}
	f.Path = path
	if f.HasInlineEnvironment() && f.EnvironmentFile != "" {
		return nil, fmt.Errorf(messages.ManifestParseFailedFmt, path, errors.New(messages.ManifestEnvironmentConflict))
	}
	return &f, nil
}

// EnvironmentFilePath returns the absolute path of the referenced
// environment file, resolved against the install file's directory.
func (f *CondaFile) EnvironmentFilePath() string {
	name := f.EnvironmentFile
	if name == "" {
		name = DefaultEnvironmentFile
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(filepath.Dir(f.Path), name)
}

// HasInlineEnvironment reports whether the file carries an environment
// mapping of its own. An explicit null counts as absent.
func (f *CondaFile) HasInlineEnvironment() bool {
	if f.Environment.Kind == 0 {
		return false
	}
	return f.Environment.Kind != yaml.ScalarNode || f.Environment.Tag != "!!null"
}

// InlineEnvironment renders the inline environment mapping as YAML, or
// returns nil when the file references an environment file instead.
func (f *CondaFile) InlineEnvironment() ([]byte, error) {
	if !f.HasInlineEnvironment() {
		return nil, nil
	}
	data, err := yaml.Marshal(&f.Environment)
	if err != nil {
		return nil, fmt.Errorf(messages.ManifestEncodeFailedFmt, f.Path, err)
	}
	return data, nil
}

// LoadDocker reads a docker install file.
func LoadDocker(path string) (*DockerFile, error) {
	var f DockerFile
	if err := loadYAML(path, &f); err != nil {
		return nil, err
	}
	f.Path = path
	if f.Build != nil {
		if f.Build.Dockerfile == "" {
			return nil, fmt.Errorf(messages.ManifestParseFailedFmt, path, errors.New(messages.ManifestDockerfileRequired))
		}
		if f.Build.Image == "" {
			return nil, fmt.Errorf(messages.ManifestParseFailedFmt, path, errors.New(messages.ManifestImageRequired))
		}
	}
	return &f, nil
}

// DockerfilePath returns the absolute Dockerfile path, resolved against
// the install file's directory.
func (f *DockerFile) DockerfilePath() string {
	if f.Build == nil {
		return ""
	}
	if filepath.IsAbs(f.Build.Dockerfile) {
		return f.Build.Dockerfile
	}
	return filepath.Join(filepath.Dir(f.Path), f.Build.Dockerfile)
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(messages.ManifestReadFailedFmt, path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf(messages.ManifestParseFailedFmt, path, err)
	}
	return nil
}
