// Package config loads the installer settings file, slivka-install.toml.
package config

// FileName is the settings file looked up in the source root.
const FileName = "slivka-install.toml"

// Config holds installer settings. Zero values are replaced by defaults.
type Config struct {
	ServicesDir string       `toml:"services_dir"`
	SharedDir   string       `toml:"shared_dir"`
	SlivkaExe   string       `toml:"slivka_exe"`
	Conda       CondaConfig  `toml:"conda"`
	Docker      DockerConfig `toml:"docker"`
}

// CondaConfig configures the conda backend.
type CondaConfig struct {
	// Exe is the conda executable; empty means auto-detect.
	Exe    string `toml:"exe"`
	EnvDir string `toml:"env_dir"`
}

// DockerConfig configures the docker backend.
type DockerConfig struct {
	// Exe is the docker executable; empty means docker on PATH.
	Exe               string `toml:"exe"`
	MountRoot         string `toml:"mount_root"`
	WrapperScript     string `toml:"wrapper_script"`
	PassthroughPrefix string `toml:"passthrough_prefix"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		ServicesDir: "services",
		SharedDir:   "shared",
		SlivkaExe:   "slivka",
		Conda: CondaConfig{
			EnvDir: "conda_env",
		},
		Docker: DockerConfig{
			MountRoot:         "/data",
			WrapperScript:     "${SLIVKA_HOME}/scripts/run_with_docker.sh",
			PassthroughPrefix: "DOCKER_",
		},
	}
}

// applyDefaults fills empty fields from Default.
func (c *Config) applyDefaults() {
	d := Default()
	setDefault(&c.ServicesDir, d.ServicesDir)
	setDefault(&c.SharedDir, d.SharedDir)
	setDefault(&c.SlivkaExe, d.SlivkaExe)
	setDefault(&c.Conda.EnvDir, d.Conda.EnvDir)
	setDefault(&c.Docker.MountRoot, d.Docker.MountRoot)
	setDefault(&c.Docker.WrapperScript, d.Docker.WrapperScript)
	setDefault(&c.Docker.PassthroughPrefix, d.Docker.PassthroughPrefix)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
