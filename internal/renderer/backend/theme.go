package backend

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/nimble/internal/renderer/highlight"
)

// Default colors, keyed the way ThemeConfig keys them.
var defaultColors = map[string]string{
	"text":       "#d4d4d4",
	"background": "#1e1e1e",
	"selection":  "#264f78",
	"bracket":    "#ffd700",
	"status":     "#007acc",

	"comment":      "#6a9955",
	"keyword":      "#569cd6",
	"string":       "#ce9178",
	"number":       "#b5cea8",
	"regexp":       "#d16969",
	"operator":     "#d4d4d4",
	"preprocessor": "#c586c0",
	"namespace":    "#4ec9b0",
	"type":         "#4ec9b0",
	"class":        "#4ec9b0",
	"enum":         "#4ec9b0",
	"interface":    "#4ec9b0",
	"struct":       "#4ec9b0",
	"function":     "#dcdcaa",
	"method":       "#dcdcaa",
	"macro":        "#c586c0",
	"parameter":    "#9cdcfe",
	"variable":     "#9cdcfe",
	"property":     "#9cdcfe",
	"enumMember":   "#4fc1ff",
}

// defaultPalette is defaultColors parsed once. A malformed built-in color
// panics at init instead of silently drawing black.
var defaultPalette = mustParsePalette(defaultColors)

func mustParsePalette(colors map[string]string) map[string]colorful.Color {
	palette := make(map[string]colorful.Color, len(colors))
	for name, hex := range colors {
		c, err := colorful.Hex(hex)
		if err != nil {
			panic(fmt.Sprintf("backend: default color %s = %q: %v", name, hex, err))
		}
		palette[name] = c
	}
	return palette
}

// ErrInvalidColor is returned for theme colors that are not hex triplets.
var ErrInvalidColor = errors.New("invalid color")

// Theme maps what is drawn to terminal styles.
type Theme struct {
	Text        tcell.Style
	Gutter      tcell.Style
	CurrentLine tcell.Style
	Selection   tcell.Style
	Bracket     tcell.Style
	Status      tcell.Style

	tokens map[highlight.TokenType]tcell.Style
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() *Theme {
	t, _ := NewTheme(nil)
	return t
}

// NewTheme builds a theme from the defaults overridden by colors. Invalid
// entries keep their default and are reported together in the error; the
// returned theme is always usable.
func NewTheme(colors map[string]string) (*Theme, error) {
	var errs []error
	palette := maps.Clone(defaultPalette)
	for name, hex := range colors {
		c, err := colorful.Hex(strings.TrimSpace(hex))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s = %q", ErrInvalidColor, name, hex))
			continue
		}
		palette[name] = c
	}

	fg, bg := palette["text"], palette["background"]
	base := tcell.StyleDefault.Foreground(toTcell(fg)).Background(toTcell(bg))

	t := &Theme{
		Text: base,
		// Line numbers fade halfway into the background.
		Gutter:      base.Foreground(toTcell(fg.BlendLab(bg, 0.5))),
		CurrentLine: base.Bold(true),
		Selection:   base.Background(toTcell(palette["selection"])),
		Bracket:     base.Foreground(toTcell(palette["bracket"])).Bold(true),
		Status:      base.Foreground(tcell.NewRGBColor(255, 255, 255)).Background(toTcell(palette["status"])),
		tokens:      make(map[highlight.TokenType]tcell.Style),
	}
	for name, c := range palette {
		tt := highlight.TokenTypeFromString(name)
		if tt == highlight.TokenNone {
			continue
		}
		style := base.Foreground(toTcell(c))
		if tt == highlight.TokenComment {
			style = style.Italic(true)
		}
		t.tokens[tt] = style
	}
	return t, errors.Join(errs...)
}

// Token returns the style of a highlighted span.
func (t *Theme) Token(tt highlight.TokenType) tcell.Style {
	if s, ok := t.tokens[tt]; ok {
		return s
	}
	return t.Text
}

// toTcell converts a color to a terminal true color.
func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
