package messages

// Config messages for loading slivka-install.toml.
const (
	ConfigValidationFailed            = "config validation failed"
	ConfigMissingFileFmt              = "missing config file %s: %w"
	ConfigInvalidFmt                  = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt         = "config %s contains unrecognized keys: %w"
	ConfigFieldBlankFmt               = "config %s: %s must not be blank"
	ConfigMountRootNotAbsoluteFmt     = "config %s: docker.mount_root must be an absolute path, got %q"
	ConfigPassthroughPrefixInvalidFmt = "config %s: docker.passthrough_prefix %q must not contain '=' or spaces"
)
