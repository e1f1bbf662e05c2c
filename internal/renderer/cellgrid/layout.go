// Package cellgrid lays visible text out on a monospace cell grid and
// answers the two geometry questions the editor core asks of a renderer:
// which char lies under a screen position, and where a char is drawn.
package cellgrid

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/nimble/internal/engine/rope"
	"github.com/dshills/nimble/internal/renderer/viewport"
)

// Hit is the result of hit testing a screen position.
type Hit struct {
	Offset   int  // char offset of the glyph under the point
	Trailing bool // the point lies on the glyph's trailing half
	Inside   bool // the point lies over a glyph
}

// Cell is one grapheme cluster placed on the grid.
type Cell struct {
	Cluster string
	Offset  int // char offset of the cluster's first char
	Chars   int // chars in the cluster
	Col     int // display column, before horizontal scroll
	Width   int // cells occupied
}

// Line is the layout of one document line.
type Line struct {
	Number int // document line
	Start  int // char offset of the first char
	End    int // char offset just past the content, terminator excluded
	Width  int // display width of the content
	Cells  []Cell
}

// Options describes where and how text is laid out.
type Options struct {
	Region       ScreenRect // screen area of the text
	FirstLine    int        // document line of the first row
	CharStart    int        // char offset of the first row
	LineCount    int        // rows to lay out; 0 means the region height
	ColumnOffset int        // horizontal scroll in display columns
	TabWidth     int
}

// Layout is an immutable cell layout of the visible text.
type Layout struct {
	opts  Options
	lines []Line
}

// New lays out text, which must start at a line start.
func New(text string, opts Options) *Layout {
	opts.TabWidth = max(opts.TabWidth, 1)
	limit := opts.Region.Height()
	if opts.LineCount > 0 {
		limit = min(limit, opts.LineCount)
	}

	l := &Layout{opts: opts}
	if limit <= 0 {
		return l
	}

	offset := opts.CharStart
	line := Line{Number: opts.FirstLine, Start: offset}
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		chars := utf8.RuneCountInString(cluster)
		first, _ := utf8.DecodeRuneInString(cluster)

		if rope.IsLineBreak(first) {
			line.End = offset
			l.lines = append(l.lines, line)
			if len(l.lines) == limit {
				return l
			}
			offset += chars
			line = Line{Number: line.Number + 1, Start: offset}
			continue
		}

		width := viewport.CellWidth(cluster, line.Width, opts.TabWidth)
		line.Cells = append(line.Cells, Cell{
			Cluster: cluster,
			Offset:  offset,
			Chars:   chars,
			Col:     line.Width,
			Width:   width,
		})
		line.Width += width
		offset += chars
	}
	line.End = offset
	l.lines = append(l.lines, line)
	return l
}

// Lines returns the laid out lines, top row first.
func (l *Layout) Lines() []Line {
	return l.lines
}

// Region returns the screen area of the text.
func (l *Layout) Region() ScreenRect {
	return l.opts.Region
}

// ColumnOffset returns the horizontal scroll the layout was built with.
func (l *Layout) ColumnOffset() int {
	return l.opts.ColumnOffset
}

// HitTest returns the char under a screen position. Points above or below
// the text snap to the first or last row, points past the end of a line
// snap to the line's end.
func (l *Layout) HitTest(pos ScreenPos) Hit {
	if len(l.lines) == 0 {
		return Hit{Offset: l.opts.CharStart}
	}

	region := l.opts.Region
	row := pos.Row - region.Top
	inside := region.Contains(pos) && row < len(l.lines)
	row = max(0, min(row, len(l.lines)-1))
	line := l.lines[row]

	col := pos.Col - region.Left + l.opts.ColumnOffset
	if col < 0 || pos.Col < region.Left {
		return Hit{Offset: line.Start}
	}
	for _, c := range line.Cells {
		if col >= c.Col+c.Width {
			continue
		}
		if c.Width > 1 && col-c.Col >= c.Width/2 {
			// Trailing half: report the cluster's last char so the
			// caret lands after the whole cluster.
			return Hit{Offset: c.Offset + c.Chars - 1, Trailing: true, Inside: inside}
		}
		return Hit{Offset: c.Offset, Inside: inside}
	}
	return Hit{Offset: line.End}
}

// OffsetToRect returns the screen rectangle of the caret at offset, placed
// after the glyph when trailing is set. ok is false when the offset is not
// laid out or is scrolled out horizontally.
func (l *Layout) OffsetToRect(offset int, trailing bool) (rect ScreenRect, ok bool) {
	row, line, found := l.lineFor(offset)
	if !found {
		return ScreenRect{}, false
	}
	caret := offset
	if trailing {
		caret++
	}

	col, width := caretColumn(line, caret)
	region := l.opts.Region
	screenCol := region.Left + col - l.opts.ColumnOffset
	rect = RectFromSize(region.Top+row, screenCol, 1, max(width, 1))
	return rect, screenCol >= region.Left && screenCol < region.Right
}

// lineFor returns the row whose char range holds offset.
func (l *Layout) lineFor(offset int) (int, Line, bool) {
	for i, line := range l.lines {
		if offset >= line.Start && offset <= line.End {
			return i, line, true
		}
	}
	return 0, Line{}, false
}

// caretColumn returns the display column of a caret before the char at
// caret, and the width of the glyph there.
func caretColumn(line Line, caret int) (col, width int) {
	for _, c := range line.Cells {
		if caret <= c.Offset {
			return c.Col, c.Width
		}
		if caret < c.Offset+c.Chars {
			return c.Col + c.Width, 1
		}
	}
	return line.Width, 1
}
