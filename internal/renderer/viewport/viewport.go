// Package viewport provides the visible window over a document.
package viewport

// Text is the read access the viewport needs.
type Text interface {
	LenChars() int
	LenLines() int
	LineToChar(line int) int
}

// Viewport represents the visible portion of the document: a line range,
// the char range covering those lines and a horizontal column offset.
//
// The viewport is owned by a single document and is not safe for concurrent
// use.
type Viewport struct {
	// Position in the document (first and last visible line, inclusive)
	topLine int
	botLine int

	// Char offsets matching the visible lines
	charStart int
	charEnd   int

	// Horizontal scroll in display columns
	columnOffset int

	// Size in screen cells
	rows    int
	columns int

	// Lines actually shown; never more than the document holds
	visibleLines int
}

// New creates a viewport with the given size.
// Rows and columns are clamped to a minimum of 1.
func New(rows, columns int) *Viewport {
	return &Viewport{
		rows:         max(rows, 1),
		columns:      max(columns, 1),
		visibleLines: max(rows, 1),
	}
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int { return v.topLine }

// BottomLine returns the last visible line. It may lie past the end of the
// document when the document is shorter than the viewport.
func (v *Viewport) BottomLine() int { return v.botLine }

// CharStart returns the char offset of the first visible line.
func (v *Viewport) CharStart() int { return v.charStart }

// CharEnd returns the char offset just past the last visible line.
func (v *Viewport) CharEnd() int { return v.charEnd }

// ColumnOffset returns the first visible display column.
func (v *Viewport) ColumnOffset() int { return v.columnOffset }

// Rows returns the viewport height in cells.
func (v *Viewport) Rows() int { return v.rows }

// Columns returns the viewport width in cells.
func (v *Viewport) Columns() int { return v.columns }

// VisibleLines returns how many document lines the viewport shows.
func (v *Viewport) VisibleLines() int { return v.visibleLines }

// Contains reports whether line lies within [TopLine, BottomLine].
func (v *Viewport) Contains(line int) bool {
	return line >= v.topLine && line <= v.botLine
}

// Resize updates the viewport size and recomputes the window.
func (v *Viewport) Resize(t Text, rows, columns int) {
	v.rows = max(rows, 1)
	v.columns = max(columns, 1)
	v.Update(t)
}

// Update recomputes the visible line and char range after an edit, resize
// or scroll. If the document shrank below the top line, the top line is
// pulled back to the last line.
func (v *Viewport) Update(t Text) {
	lines := max(t.LenLines(), 1)
	v.topLine = max(0, min(v.topLine, lines-1))
	v.visibleLines = max(1, min(lines, v.rows))
	v.botLine = v.topLine + v.visibleLines - 1

	v.charStart = t.LineToChar(v.topLine)
	if v.botLine+1 >= lines {
		v.charEnd = t.LenChars()
	} else {
		v.charEnd = t.LineToChar(v.botLine + 1)
	}
}

// ScrollUp moves the window up by n lines, stopping at the first line.
func (v *Viewport) ScrollUp(t Text, n int) {
	v.topLine = max(0, v.topLine-max(n, 0))
	v.Update(t)
}

// ScrollDown moves the window down by n lines, stopping when the last line
// reaches the top.
func (v *Viewport) ScrollDown(t Text, n int) {
	v.topLine = min(max(t.LenLines()-1, 0), v.topLine+max(n, 0))
	v.Update(t)
}

// ScrollLeft moves the window left by n columns, stopping at column 0.
func (v *Viewport) ScrollLeft(n int) {
	v.columnOffset = max(0, v.columnOffset-max(n, 0))
}

// ScrollRight moves the window right by n columns. The offset never exceeds
// lineLength minus the visible width, so the longest line still ends
// inside the window.
func (v *Viewport) ScrollRight(n, lineLength int) {
	limit := max(0, lineLength-v.columns)
	v.columnOffset = max(0, min(v.columnOffset+max(n, 0), limit))
}

// UpdateColumnOffset adjusts the horizontal offset just enough to keep the
// caret's display column visible. It reports whether the offset changed.
func (v *Viewport) UpdateColumnOffset(caretColumn int) bool {
	caretColumn = max(caretColumn, 0)
	old := v.columnOffset
	switch {
	case caretColumn < v.columnOffset:
		v.columnOffset = caretColumn
	case caretColumn >= v.columnOffset+v.columns:
		v.columnOffset = caretColumn - v.columns + 1
	}
	return v.columnOffset != old
}

// Reveal makes line the top line when it lies outside the window.
// It reports whether the window moved.
func (v *Viewport) Reveal(t Text, line int) bool {
	v.Update(t)
	if v.Contains(line) {
		return false
	}
	v.topLine = line
	v.Update(t)
	return true
}

// Follow scrolls by exactly one line when line sits directly above or
// below the window, as after a single vertical caret step. Any other
// position outside the window falls back to Reveal.
func (v *Viewport) Follow(t Text, line int) bool {
	v.Update(t)
	switch {
	case v.Contains(line):
		return false
	case line == v.topLine-1:
		v.ScrollUp(t, 1)
		return true
	case line == v.botLine+1:
		v.ScrollDown(t, 1)
		return true
	}
	return v.Reveal(t, line)
}

// LineToScreenRow converts a document line to a screen row.
// Returns -1 if the line is not visible.
func (v *Viewport) LineToScreenRow(line int) int {
	if !v.Contains(line) {
		return -1
	}
	return line - v.topLine
}

// ScreenRowToLine converts a screen row to a document line.
func (v *Viewport) ScreenRowToLine(row int) int {
	return v.topLine + max(row, 0)
}

// ColumnToScreenCol converts a display column to a screen column.
func (v *Viewport) ColumnToScreenCol(col int) int {
	return col - v.columnOffset
}

// ScreenColToColumn converts a screen column to a display column.
func (v *Viewport) ScreenColToColumn(col int) int {
	return col + v.columnOffset
}
