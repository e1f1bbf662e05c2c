package config

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dshills/nimble/internal/engine/boundary"
)

// Limits enforced by Validate.
const (
	MinTabWidth = 1
	MaxTabWidth = 16
	MaxScroll   = 100
)

// Config is the complete editor configuration.
type Config struct {
	Editor    EditorConfig     `toml:"editor" yaml:"editor"`
	Scroll    ScrollConfig     `toml:"scroll" yaml:"scroll"`
	Languages []LanguageConfig `toml:"languages" yaml:"languages"`
	Logging   LoggingConfig    `toml:"logging" yaml:"logging"`
	Theme     ThemeConfig      `toml:"theme" yaml:"theme"`
}

// EditorConfig holds text editing settings.
type EditorConfig struct {
	// TabWidth is the number of spaces a Tab inserts and a tab stop spans.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`
	// AutoIndent copies the current line's indentation on Enter.
	AutoIndent bool `toml:"auto_indent" yaml:"auto_indent"`
	// BracketPairs lists auto-paired brackets as two-char strings, e.g. "()".
	BracketPairs []string `toml:"bracket_pairs" yaml:"bracket_pairs"`
}

// Pairs returns the bracket pairs in the form the boundary package uses.
// Malformed entries are skipped; Validate reports them.
func (e EditorConfig) Pairs() []boundary.BracketPair {
	pairs := make([]boundary.BracketPair, 0, len(e.BracketPairs))
	for _, p := range e.BracketPairs {
		if utf8.RuneCountInString(p) != 2 {
			continue
		}
		open, n := utf8.DecodeRuneInString(p)
		closing, _ := utf8.DecodeRuneInString(p[n:])
		pairs = append(pairs, boundary.BracketPair{Open: open, Close: closing})
	}
	return pairs
}

// ScrollConfig holds mouse scrolling settings.
type ScrollConfig struct {
	// LinesPerRoll is the number of lines one wheel notch scrolls.
	LinesPerRoll int `toml:"lines_per_roll" yaml:"lines_per_roll"`
	// LinesPerMouseMove is scrolled per drag event above or below the text.
	LinesPerMouseMove int `toml:"lines_per_mouse_move" yaml:"lines_per_mouse_move"`
	// ColumnsPerMouseMove is scrolled per drag event left or right of the text.
	ColumnsPerMouseMove int `toml:"columns_per_mouse_move" yaml:"columns_per_mouse_move"`
}

// LanguageConfig describes one language and its server.
type LanguageConfig struct {
	ID         string   `toml:"id" yaml:"id"`
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Server     string   `toml:"server" yaml:"server"`
	Args       []string `toml:"args" yaml:"args"`
	// Sync is "incremental" or "full".
	Sync string `toml:"sync" yaml:"sync"`
	// PositionEncoding is "utf-32" (chars) or "utf-16".
	PositionEncoding string `toml:"position_encoding" yaml:"position_encoding"`
}

// HasServer reports whether a server command is configured.
func (l LanguageConfig) HasServer() bool {
	return l.Server != ""
}

// ThemeConfig overrides terminal colors. Keys are "text", "background",
// "selection", "bracket", "status" or a semantic token type name such as
// "keyword"; values are hex colors like "#569cd6".
type ThemeConfig struct {
	Colors map[string]string `toml:"colors" yaml:"colors"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	// File is the log file; empty logs to stderr.
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:     4,
			AutoIndent:   true,
			BracketPairs: []string{"()", "[]", "{}"},
		},
		Scroll: ScrollConfig{
			LinesPerRoll:        3,
			LinesPerMouseMove:   1,
			ColumnsPerMouseMove: 1,
		},
		Languages: defaultLanguages(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func defaultLanguages() []LanguageConfig {
	return []LanguageConfig{
		{
			ID:               "cpp",
			Extensions:       []string{".c", ".cc", ".cpp", ".cxx", ".h", ".hh", ".hpp", ".hxx"},
			Server:           "clangd",
			Sync:             "incremental",
			PositionEncoding: "utf-32",
		},
		{
			ID:               "rust",
			Extensions:       []string{".rs"},
			Server:           "rust-analyzer",
			Sync:             "full",
			PositionEncoding: "utf-32",
		},
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Editor.BracketPairs = append([]string(nil), c.Editor.BracketPairs...)
	out.Languages = make([]LanguageConfig, len(c.Languages))
	for i, l := range c.Languages {
		l.Extensions = append([]string(nil), l.Extensions...)
		l.Args = append([]string(nil), l.Args...)
		out.Languages[i] = l
	}
	out.Theme.Colors = maps.Clone(c.Theme.Colors)
	return &out
}

// Language returns the language with the given id.
func (c *Config) Language(id string) (LanguageConfig, error) {
	for _, l := range c.Languages {
		if l.ID == id {
			return l, nil
		}
	}
	return LanguageConfig{}, fmt.Errorf("%w: %s", ErrUnknownLanguage, id)
}

// LanguageForPath returns the language whose extensions match path.
// Matching ignores case.
func (c *Config) LanguageForPath(path string) (LanguageConfig, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return LanguageConfig{}, false
	}
	for _, l := range c.Languages {
		for _, e := range l.Extensions {
			if strings.ToLower(e) == ext {
				return l, true
			}
		}
	}
	return LanguageConfig{}, false
}

// mergeLanguages overlays langs onto the current list by id.
func (c *Config) mergeLanguages(langs []LanguageConfig) {
	for _, l := range langs {
		replaced := false
		for i := range c.Languages {
			if c.Languages[i].ID == l.ID {
				c.Languages[i] = l
				replaced = true
				break
			}
		}
		if !replaced {
			c.Languages = append(c.Languages, l)
		}
	}
}

var (
	validSync     = map[string]bool{"incremental": true, "full": true}
	validEncoding = map[string]bool{"utf-32": true, "utf-16": true}
	validLevel    = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
)

// Validate checks every setting and returns all failures joined. Each
// failure matches ErrValidation.
func (c *Config) Validate() error {
	var errs []error
	fail := func(path, msg string, value any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
	}

	if c.Editor.TabWidth < MinTabWidth || c.Editor.TabWidth > MaxTabWidth {
		fail("editor.tab_width", fmt.Sprintf("must be between %d and %d", MinTabWidth, MaxTabWidth), c.Editor.TabWidth)
	}
	for i, p := range c.Editor.BracketPairs {
		if utf8.RuneCountInString(p) != 2 {
			fail(fmt.Sprintf("editor.bracket_pairs[%d]", i), "must be exactly two characters", p)
		}
	}

	scroll := []struct {
		path  string
		value int
	}{
		{"scroll.lines_per_roll", c.Scroll.LinesPerRoll},
		{"scroll.lines_per_mouse_move", c.Scroll.LinesPerMouseMove},
		{"scroll.columns_per_mouse_move", c.Scroll.ColumnsPerMouseMove},
	}
	for _, s := range scroll {
		if s.value < 1 || s.value > MaxScroll {
			fail(s.path, fmt.Sprintf("must be between 1 and %d", MaxScroll), s.value)
		}
	}

	seen := make(map[string]bool)
	for i, l := range c.Languages {
		path := fmt.Sprintf("languages[%d]", i)
		switch {
		case l.ID == "":
			fail(path+".id", "must not be empty", l.ID)
		case seen[l.ID]:
			fail(path+".id", "duplicate language", l.ID)
		}
		seen[l.ID] = true
		if l.Sync != "" && !validSync[strings.ToLower(l.Sync)] {
			fail(path+".sync", "must be incremental or full", l.Sync)
		}
		if l.PositionEncoding != "" && !validEncoding[strings.ToLower(l.PositionEncoding)] {
			fail(path+".position_encoding", "must be utf-32 or utf-16", l.PositionEncoding)
		}
		for _, e := range l.Extensions {
			if !strings.HasPrefix(e, ".") {
				fail(path+".extensions", "must start with a dot", e)
			}
		}
	}

	if c.Logging.Level != "" && !validLevel[strings.ToLower(c.Logging.Level)] {
		fail("logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}

	return errors.Join(errs...)
}
