package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns the user config file location, or "" when the
// config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "nimble", "config.toml")
}

// Load builds the configuration from defaults, the file at path and the
// environment, then validates it. A missing file is not an error; an empty
// path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decodeInto(cfg, path, data); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
			// File doesn't exist, defaults apply
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data in the format implied by path's extension on top of
// the defaults. It does not read the environment or validate.
func Parse(path string, data []byte) (*Config, error) {
	cfg := Default()
	if err := decodeInto(cfg, path, data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeInto overlays a file onto cfg. Languages are merged by id.
func decodeInto(cfg *Config, path string, data []byte) error {
	defaults := cfg.Languages
	cfg.Languages = nil

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = decodeTOML(cfg, path, data)
	case ".yaml", ".yml":
		err = decodeYAML(cfg, path, data)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		cfg.Languages = defaults
		return err
	}

	fromFile := cfg.Languages
	cfg.Languages = defaults
	cfg.mergeLanguages(fromFile)
	return nil
}

func decodeTOML(cfg *Config, path string, data []byte) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		pe := &ParseError{Path: path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return pe
	}
	return nil
}

func decodeYAML(cfg *Config, path string, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		pe := &ParseError{Path: path, Message: err.Error(), Err: err}
		pe.Line = yamlErrorLine(err.Error())
		return pe
	}
	return nil
}

// yamlErrorLine extracts N from a "yaml: line N: ..." message.
func yamlErrorLine(msg string) int {
	_, rest, ok := strings.Cut(msg, "line ")
	if !ok {
		return 0
	}
	var line int
	if _, err := fmt.Sscanf(rest, "%d", &line); err != nil {
		return 0
	}
	return line
}
