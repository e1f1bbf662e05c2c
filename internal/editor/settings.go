package editor

import (
	"github.com/dshills/nimble/internal/config"
	"github.com/dshills/nimble/internal/engine/boundary"
)

// Settings are the configuration values the editor applies live.
type Settings struct {
	TabWidth   int
	AutoIndent bool
	Pairs      []boundary.BracketPair

	LinesPerRoll        int
	LinesPerMouseMove   int
	ColumnsPerMouseMove int
}

// DefaultSettings returns the settings of the built-in configuration.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.Default())
}

// SettingsFromConfig extracts the editor settings from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		TabWidth:            cfg.Editor.TabWidth,
		AutoIndent:          cfg.Editor.AutoIndent,
		Pairs:               cfg.Editor.Pairs(),
		LinesPerRoll:        cfg.Scroll.LinesPerRoll,
		LinesPerMouseMove:   cfg.Scroll.LinesPerMouseMove,
		ColumnsPerMouseMove: cfg.Scroll.ColumnsPerMouseMove,
	}
}

// normalize fills zero values with usable minimums.
func (s Settings) normalize() Settings {
	s.TabWidth = max(s.TabWidth, 1)
	s.LinesPerRoll = max(s.LinesPerRoll, 1)
	s.LinesPerMouseMove = max(s.LinesPerMouseMove, 1)
	s.ColumnsPerMouseMove = max(s.ColumnsPerMouseMove, 1)
	return s
}
