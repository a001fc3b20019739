package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// Validate checks that the settings are usable.
func (c *Config) Validate(source string) error {
	if strings.TrimSpace(c.Conda.EnvDir) == "" {
		return fmt.Errorf(messages.ConfigFieldBlankFmt, source, "conda.env_dir")
	}
	if !path.IsAbs(c.Docker.MountRoot) {
		return fmt.Errorf(messages.ConfigMountRootNotAbsoluteFmt, source, c.Docker.MountRoot)
	}
	if strings.ContainsAny(c.Docker.PassthroughPrefix, "= ") {
		return fmt.Errorf(messages.ConfigPassthroughPrefixInvalidFmt, source, c.Docker.PassthroughPrefix)
	}
	if strings.TrimSpace(c.SlivkaExe) == "" {
		return fmt.Errorf(messages.ConfigFieldBlankFmt, source, "slivka_exe")
	}
	return nil
}
