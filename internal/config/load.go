package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/slivka-install/internal/messages"
)

// ErrConfigValidation wraps validation failures, as opposed to TOML syntax
// or filesystem errors.
var ErrConfigValidation = errors.New(messages.ConfigValidationFailed)

// Load reads the settings file at path. A missing file yields the defaults
// when optional is true; an explicitly requested file must exist.
func Load(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return &cfg, nil
		}
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates settings; source is used in error messages.
func Parse(data []byte, source string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt, ErrConfigValidation, source, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return &cfg, nil
}

// decodeStrict re-decodes with unknown keys rejected.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}
