package cursor

import (
	"fmt"
	"strings"

	"github.com/dshills/nimble/internal/engine/boundary"
)

// Text is the read access cursor motion needs.
type Text interface {
	boundary.Text
	LenLines() int
	CharToLine(i int) int
	LineLenChars(line int) int
}

// Direction is a caret motion direction.
type Direction uint8

const (
	Left Direction = iota
	Right
	Up
	Down
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Cursor is the caret of a document: a position, an anchor that together
// with the caret offset spans the selection, the trailing-edge bit from
// hit testing, and the column remembered across vertical moves.
//
// The caret offset is position plus one when trailing is set. trailing is
// never set at the end of the text.
type Cursor struct {
	position     int
	anchor       int
	trailing     bool
	columnMemory int
	selecting    bool
}

// Position returns the char offset of the glyph the caret is attached to.
func (c Cursor) Position() int { return c.position }

// Anchor returns the fixed end of the selection.
func (c Cursor) Anchor() int { return c.anchor }

// Trailing reports whether the caret sits on the trailing edge of the
// glyph at Position.
func (c Cursor) Trailing() bool { return c.trailing }

// ColumnMemory returns the remembered column for vertical motion.
func (c Cursor) ColumnMemory() int { return c.columnMemory }

// Selecting reports whether a mouse selection drag is active.
func (c Cursor) Selecting() bool { return c.selecting }

// Offset returns the caret's absolute char offset.
func (c Cursor) Offset() int {
	if c.trailing {
		return c.position + 1
	}
	return c.position
}

// Selection returns the current selection.
func (c Cursor) Selection() Selection {
	return Selection{Anchor: c.anchor, Head: c.Offset()}
}

// HasSelection reports whether anchor and caret differ.
func (c Cursor) HasSelection() bool {
	return c.anchor != c.Offset()
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	return fmt.Sprintf("Cursor(pos=%d anchor=%d trailing=%v)", c.position, c.anchor, c.trailing)
}

// place moves the caret to offset and resets the anchor unless extending.
func (c *Cursor) place(offset int, extend bool) {
	c.position = offset
	c.trailing = false
	if !extend {
		c.anchor = offset
	}
}

// Move performs a single-step motion. Left and Right cross a CRLF pair as
// one unit; Up and Down keep the remembered column. It reports whether the
// caret line may have changed.
func (c *Cursor) Move(t Text, dir Direction, extend bool) bool {
	switch dir {
	case Left:
		count := 1
		if boundary.IsCRLFBefore(t, c.Offset()) {
			count = 2
		}
		c.MoveBy(t, Left, count, extend)
	case Right:
		count := 1
		if boundary.IsCRLFAt(t, c.Offset()) {
			count = 2
		}
		c.MoveBy(t, Right, count, extend)
	case Up, Down:
		return c.moveVertical(t, dir, extend)
	}
	return true
}

// MoveBy moves the caret count chars left or right, saturating at the
// ends of the text. It clears the trailing bit and the column memory.
func (c *Cursor) MoveBy(t Text, dir Direction, count int, extend bool) {
	offset := c.Offset()
	switch dir {
	case Left:
		offset = max(0, offset-count)
	case Right:
		offset = min(t.LenChars(), offset+count)
	default:
		return
	}
	c.columnMemory = 0
	c.place(offset, extend)
}

// MoveByWord moves left or right across one word boundary scan.
func (c *Cursor) MoveByWord(t Text, dir Direction, extend bool) {
	var count int
	switch dir {
	case Left:
		count = boundary.WordLengthBackward(t, c.Offset())
	case Right:
		count = boundary.WordLengthForward(t, c.Offset())
	default:
		return
	}
	c.MoveBy(t, dir, count, extend)
}

// moveVertical moves one line up or down. The target column is the larger
// of the remembered column and the current one, clamped to the target
// line's content length.
func (c *Cursor) moveVertical(t Text, dir Direction, extend bool) bool {
	offset := c.Offset()
	line := t.CharToLine(offset)
	lastLine := t.LenLines() - 1

	target := line - 1
	if dir == Down {
		target = line + 1
	}
	if target < 0 || target > lastLine {
		return false
	}

	// The target line's own terminator is subtracted, not the current
	// line's, so Down can reach the end of the last line.
	targetLen := t.LineLenChars(target)
	if target < lastLine {
		targetLen -= boundary.LinebreakWidthBefore(t, target+1)
	}
	targetLen = max(0, targetLen)

	column := max(0, offset-t.LineToChar(line))
	desired := max(c.columnMemory, column)
	c.columnMemory = desired

	c.place(t.LineToChar(target)+min(targetLen, desired), extend)
	return true
}

// Click places the caret from a hit-test result and starts a drag
// selection. extend keeps the anchor.
func (c *Cursor) Click(t Text, position int, trailing, extend bool) {
	c.columnMemory = 0
	c.selecting = true
	c.setFromHit(t, position, trailing)
	if !extend {
		c.anchor = c.Offset()
	}
}

// Drag moves the caret while a drag selection is active. It reports
// whether the caret moved.
func (c *Cursor) Drag(t Text, position int, trailing bool) bool {
	if !c.selecting {
		return false
	}
	before := c.Offset()
	c.setFromHit(t, position, trailing)
	return c.Offset() != before
}

// Release ends a drag selection.
func (c *Cursor) Release() {
	c.selecting = false
}

// setFromHit stores a hit-test result. A trailing hit on a line break or at
// the end of the text snaps to the leading edge so the caret never lands
// past a line terminator or inside a CRLF pair.
func (c *Cursor) setFromHit(t Text, position int, trailing bool) {
	n := t.LenChars()
	position = max(0, min(position, n))
	if position == n {
		trailing = false
	}
	if trailing && boundary.Classify(mustChar(t, position)) == boundary.Linebreak {
		trailing = false
	}
	c.position = position
	c.trailing = trailing
}

func mustChar(t Text, i int) rune {
	r, _ := t.CharAt(i)
	return r
}

// SelectWord selects the word around position, as on a double click.
func (c *Cursor) SelectWord(t Text, position int) {
	start, end := boundary.WordBounds(t, position)
	c.Select(start, end)
}

// SelectAll selects the whole text.
func (c *Cursor) SelectAll(t Text) {
	c.Select(0, t.LenChars())
}

// Select sets anchor and caret directly.
func (c *Cursor) Select(anchor, head int) {
	c.columnMemory = 0
	c.anchor = anchor
	c.place(head, true)
}

// CollapseTo places the caret at offset with no selection.
func (c *Cursor) CollapseTo(offset int) {
	c.place(offset, false)
}

// Clamp pulls position and anchor back inside the text after it shrank.
func (c *Cursor) Clamp(t Text) {
	n := t.LenChars()
	c.position = max(0, min(c.position, n))
	c.anchor = max(0, min(c.anchor, n))
	if c.position == n {
		c.trailing = false
	}
}

// DeleteSpan returns the range a char or word deletion removes when no
// selection is active. CRLF pairs and runs of tabWidth spaces go as one
// unit. An empty range means there is nothing to delete.
func (c *Cursor) DeleteSpan(t Text, dir Direction, word bool, tabWidth int) (start, end int) {
	offset := c.Offset()
	indent := strings.Repeat(" ", max(tabWidth, 1))

	switch dir {
	case Left:
		if offset == 0 {
			return 0, 0
		}
		count := 1
		switch {
		case word:
			count = boundary.WordLengthBackward(t, offset)
		case boundary.IsCRLFBefore(t, offset):
			count = 2
		case tabWidth > 1 && boundary.MatchesBefore(t, offset, indent):
			count = tabWidth
		}
		return max(0, offset-count), offset
	case Right:
		n := t.LenChars()
		if offset >= n {
			return offset, offset
		}
		count := 1
		switch {
		case word:
			count = boundary.WordLengthForward(t, offset)
		case boundary.IsCRLFAt(t, offset):
			count = 2
		case tabWidth > 1 && boundary.MatchesAt(t, offset, indent):
			count = tabWidth
		}
		return offset, min(n, offset+count)
	}
	return offset, offset
}
