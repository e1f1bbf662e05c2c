package editor

import (
	"github.com/dshills/nimble/internal/engine/boundary"
	"github.com/dshills/nimble/internal/engine/cursor"
)

// Move moves the caret one step. Left and Right cross a CRLF pair at once;
// Up and Down keep the remembered column and scroll by a single line when
// the caret leaves the window.
func (d *Document) Move(dir cursor.Direction, extend bool) {
	if !d.cur.Move(d.buf, dir, extend) {
		return
	}
	switch dir {
	case cursor.Up, cursor.Down:
		d.view.Follow(d.buf, d.CaretLine())
		d.view.UpdateColumnOffset(d.caretColumn())
	default:
		d.followCaret()
	}
}

// MoveBy moves the caret count chars left or right.
func (d *Document) MoveBy(dir cursor.Direction, count int, extend bool) {
	d.cur.MoveBy(d.buf, dir, count, extend)
	d.followCaret()
}

// MoveByWord moves the caret across one word to the left or right.
func (d *Document) MoveByWord(dir cursor.Direction, extend bool) {
	d.cur.MoveByWord(d.buf, dir, extend)
	d.followCaret()
}

// MoveToLineStart moves the caret to the first non-blank char of its line,
// or to column 0 when it is already there.
func (d *Document) MoveToLineStart(extend bool) {
	line := d.CaretLine()
	start := d.buf.LineToChar(line)
	first := start + leadingBlanks(d.buf.LineText(line))
	target := first
	if d.cur.Offset() == first {
		target = start
	}
	d.cur.Select(d.anchorFor(target, extend), target)
	d.followCaret()
}

// MoveToLineEnd moves the caret before its line's terminator.
func (d *Document) MoveToLineEnd(extend bool) {
	line := d.CaretLine()
	target := d.buf.LineToChar(line) + d.buf.LineContentLen(line)
	d.cur.Select(d.anchorFor(target, extend), target)
	d.followCaret()
}

// anchorFor returns the anchor for a jump to target.
func (d *Document) anchorFor(target int, extend bool) int {
	if extend {
		return d.cur.Anchor()
	}
	return target
}

// PageUp moves the caret and the window up by one screen.
func (d *Document) PageUp(extend bool) {
	d.page(cursor.Up, extend)
}

// PageDown moves the caret and the window down by one screen.
func (d *Document) PageDown(extend bool) {
	d.page(cursor.Down, extend)
}

func (d *Document) page(dir cursor.Direction, extend bool) {
	rows := max(d.view.Rows()-1, 1)
	for i := 0; i < rows; i++ {
		if !d.cur.Move(d.buf, dir, extend) {
			break
		}
	}
	if dir == cursor.Up {
		d.view.ScrollUp(d.buf, rows)
	} else {
		d.view.ScrollDown(d.buf, rows)
	}
	d.followCaret()
}

// Click places the caret from a hit-test result and starts a drag
// selection. extend keeps the current anchor.
func (d *Document) Click(offset int, trailing, extend bool) {
	d.cur.Click(d.buf, offset, trailing, extend)
	d.view.UpdateColumnOffset(d.caretColumn())
}

// Drag extends the selection to a hit-test result while a drag is active.
// It reports whether the caret moved.
func (d *Document) Drag(offset int, trailing bool) bool {
	return d.cur.Drag(d.buf, offset, trailing)
}

// Release ends a drag selection.
func (d *Document) Release() {
	d.cur.Release()
}

// DoubleClick selects the word under a hit-test result.
func (d *Document) DoubleClick(offset int) {
	d.cur.SelectWord(d.buf, offset)
}

// SelectAll selects the whole document.
func (d *Document) SelectAll() {
	d.cur.SelectAll(d.buf)
}

// ScrollUp scrolls the window up by n lines without moving the caret.
func (d *Document) ScrollUp(n int) {
	d.view.ScrollUp(d.buf, n)
}

// ScrollDown scrolls the window down by n lines without moving the caret.
func (d *Document) ScrollDown(n int) {
	d.view.ScrollDown(d.buf, n)
}

// ScrollLeft scrolls the window left by n columns.
func (d *Document) ScrollLeft(n int) {
	d.view.ScrollLeft(n)
}

// ScrollRight scrolls the window right by n columns, stopping when the
// widest visible line ends at the right edge.
func (d *Document) ScrollRight(n int) {
	d.view.ScrollRight(n, d.widestVisibleLine())
}

// EnclosingBrackets returns the offsets of the nearest bracket pair around
// the caret.
func (d *Document) EnclosingBrackets() (openPos, closePos int, ok bool) {
	return boundary.EnclosingBrackets(d.buf, d.cur.Offset(), d.settings.Pairs)
}

// leadingBlanks returns the number of leading spaces and tabs in line.
func leadingBlanks(line string) int {
	n := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

// ClearSelection drops the selection, leaving the caret where it is.
func (d *Document) ClearSelection() {
	d.cur.CollapseTo(d.cur.Offset())
}
