package viewport

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// CellWidth returns the number of screen cells a grapheme cluster occupies
// when it starts at display column col. Tabs advance to the next tab stop.
func CellWidth(cluster string, col, tabWidth int) int {
	if cluster == "\t" {
		tabWidth = max(tabWidth, 1)
		return tabWidth - col%tabWidth
	}
	return max(uniseg.StringWidth(cluster), 0)
}

// DisplayColumn returns the display column of the char at index chars
// within line. Tabs expand to tabWidth stops and wide graphemes count
// double. Chars inside a cluster map to the cluster's first column.
func DisplayColumn(line string, chars, tabWidth int) int {
	col := 0
	seen := 0
	g := uniseg.NewGraphemes(line)
	for seen < chars && g.Next() {
		cluster := g.Str()
		col += CellWidth(cluster, col, tabWidth)
		seen += utf8.RuneCountInString(cluster)
	}
	return col
}

// DisplayWidth returns the display width of a whole line.
func DisplayWidth(line string, tabWidth int) int {
	return DisplayColumn(line, utf8.RuneCountInString(line), tabWidth)
}
