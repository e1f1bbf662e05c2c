package config

import (
	"fmt"
	"strconv"
)

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// envBinding maps one environment variable onto a setting.
type envBinding struct {
	name  string
	path  string
	apply func(cfg *Config, value string) error
}

var envBindings = []envBinding{
	{"NIMBLE_TAB_WIDTH", "editor.tab_width", func(cfg *Config, v string) error {
		return setInt(&cfg.Editor.TabWidth, v)
	}},
	{"NIMBLE_LINES_PER_ROLL", "scroll.lines_per_roll", func(cfg *Config, v string) error {
		return setInt(&cfg.Scroll.LinesPerRoll, v)
	}},
	{"NIMBLE_LOG_LEVEL", "logging.level", func(cfg *Config, v string) error {
		cfg.Logging.Level = v
		return nil
	}},
	{"NIMBLE_LOG_FILE", "logging.file", func(cfg *Config, v string) error {
		cfg.Logging.File = v
		return nil
	}},
}

// EnvNames returns the environment variables the loader reads.
func EnvNames() []string {
	names := make([]string, len(envBindings))
	for i, b := range envBindings {
		names[i] = b.name
	}
	return names
}

// applyEnv overlays set environment variables onto cfg.
// Empty string values are treated as set, not as unset.
func applyEnv(cfg *Config, lookup LookupFunc) error {
	for _, b := range envBindings {
		v, ok := lookup(b.name)
		if !ok {
			continue
		}
		if err := b.apply(cfg, v); err != nil {
			return &ValidationError{
				Path:    b.path,
				Message: fmt.Sprintf("invalid %s: %v", b.name, err),
				Value:   v,
			}
		}
	}
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}
