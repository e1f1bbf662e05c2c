package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/nimble/internal/engine/boundary"
	"github.com/dshills/nimble/internal/engine/buffer"
	"github.com/dshills/nimble/internal/engine/cursor"
	"github.com/dshills/nimble/internal/lsp"
)

// insert records and applies the insertion of text at char offset at.
// Tokens below the insertion line shift down by the lines it adds.
func (d *Document) insert(at int, text string) bool {
	if text == "" {
		return false
	}
	if at < 0 || at > d.buf.LenChars() {
		d.log.Error("insert at %d of %d: %v", at, d.buf.LenChars(), buffer.ErrOutOfRange)
		return false
	}

	line := d.buf.CharToLine(at)
	d.recorder.Insert(d.buf, at, text)
	end, err := d.buf.Insert(at, text)
	if err != nil {
		d.log.Error("insert: %v", err)
		return false
	}
	d.touched(line, d.buf.CharToLine(end)-line)
	return true
}

// delete records and applies the removal of chars [start, end). Tokens
// below the start line shift up by the line breaks removed.
func (d *Document) delete(start, end int) bool {
	if start >= end {
		return false
	}
	if start < 0 || end > d.buf.LenChars() {
		d.log.Error("delete [%d, %d) of %d: %v", start, end, d.buf.LenChars(), buffer.ErrOutOfRange)
		return false
	}

	line := d.buf.CharToLine(start)
	removed := d.buf.CharToLine(end) - line
	d.recorder.Delete(d.buf, start, end)
	if err := d.buf.Delete(start, end); err != nil {
		d.log.Error("delete: %v", err)
		return false
	}
	d.touched(line, -removed)
	return true
}

// touched updates the derived state after an edit on line that added
// delta lines, or removed -delta lines.
func (d *Document) touched(line, delta int) {
	d.modified = true
	if delta != 0 {
		d.tokens.ShiftLines(line, line+delta)
	}
	if len(d.lexStates) > line+1 {
		d.lexStates = d.lexStates[:line+1]
	}
}

// DeleteSelection removes the selected text and collapses the caret to
// the start of the selection. Without a selection it does nothing.
func (d *Document) DeleteSelection() bool {
	sel := d.cur.Selection()
	if sel.IsEmpty() {
		return false
	}
	if !d.delete(sel.Start(), sel.End()) {
		return false
	}
	d.cur.CollapseTo(sel.Start())
	d.followCaret()
	return true
}

// DeleteChar removes the char after the caret, or the selection.
func (d *Document) DeleteChar() bool {
	return d.deleteSpan(cursor.Right, false)
}

// DeletePreviousChar removes the char before the caret, or the selection.
func (d *Document) DeletePreviousChar() bool {
	return d.deleteSpan(cursor.Left, false)
}

// DeleteWord removes the word after the caret, or the selection.
func (d *Document) DeleteWord() bool {
	return d.deleteSpan(cursor.Right, true)
}

// DeletePreviousWord removes the word before the caret, or the selection.
func (d *Document) DeletePreviousWord() bool {
	return d.deleteSpan(cursor.Left, true)
}

// deleteSpan removes one unit in dir. A CRLF pair and a run of tab-width
// spaces count as one char.
func (d *Document) deleteSpan(dir cursor.Direction, word bool) bool {
	if d.cur.HasSelection() {
		return d.DeleteSelection()
	}
	start, end := d.cur.DeleteSpan(d.buf, dir, word, d.settings.TabWidth)
	if !d.delete(start, end) {
		return false
	}
	d.cur.CollapseTo(start)
	d.followCaret()
	return true
}

// InsertText replaces the selection with s and places the caret after it.
func (d *Document) InsertText(s string) bool {
	deleted := d.DeleteSelection()
	at := d.cur.Offset()
	if !d.insert(at, s) {
		return deleted
	}
	d.cur.MoveBy(d.buf, cursor.Right, utf8.RuneCountInString(s), false)
	d.followCaret()
	return true
}

// InsertChar types r. An opening bracket also inserts its closer when the
// caret is not in front of a word, and typing a closer in front of the
// same closer steps over it.
func (d *Document) InsertChar(r rune) bool {
	deleted := d.DeleteSelection()
	at := d.cur.Offset()
	next, hasNext := d.buf.CharAt(at)

	if hasNext && next == r && boundary.IsClosing(d.settings.Pairs, r) {
		d.cur.MoveBy(d.buf, cursor.Right, 1, false)
		d.followCaret()
		return deleted
	}

	text := string(r)
	if closer, ok := boundary.ClosingFor(d.settings.Pairs, r); ok {
		if !hasNext || boundary.Classify(next) != boundary.Word {
			text += string(closer)
		}
	}

	column := d.serverColumn(at)
	line := d.buf.CharToLine(at)
	if !d.insert(at, text) {
		return deleted
	}
	if utf8.RuneCountInString(text) == 1 {
		d.tokens.GrowTokenAtInsert(line, column)
	}
	d.cur.MoveBy(d.buf, cursor.Right, 1, false)
	d.followCaret()
	return true
}

// InsertNewline breaks the line at the caret. With auto-indent the new line
// repeats the indentation before the caret. After an opening bracket the
// closer moves to a line of its own below an indented blank line that
// takes the caret.
func (d *Document) InsertNewline() bool {
	deleted := d.DeleteSelection()
	at := d.cur.Offset()
	line := d.buf.CharToLine(at)
	lineStart := d.buf.LineToChar(line)

	indent := ""
	if d.settings.AutoIndent {
		content := []rune(d.buf.LineText(line))
		before := content[:min(at-lineStart, len(content))]
		indent = string(before[:leadingBlanks(string(before))])
	}
	eol := d.buf.LineEnding().Sequence()

	text := eol + indent
	caret := utf8.RuneCountInString(text)
	if prev, ok := d.buf.CharAt(at - 1); at > 0 && ok {
		if closer, isOpen := boundary.ClosingFor(d.settings.Pairs, prev); isOpen {
			text += strings.Repeat(" ", d.settings.TabWidth)
			caret = utf8.RuneCountInString(text)
			text += eol + indent
			if next, ok := d.buf.CharAt(at); !ok || next != closer {
				text += string(closer)
			}
		}
	}

	if !d.insert(at, text) {
		return deleted
	}
	d.cur.MoveBy(d.buf, cursor.Right, caret, false)
	d.followCaret()
	return true
}

// InsertTab inserts tab-width spaces.
func (d *Document) InsertTab() bool {
	return d.InsertText(strings.Repeat(" ", d.settings.TabWidth))
}

// Cut removes the selection and returns its text.
func (d *Document) Cut() string {
	text := d.SelectedText()
	d.DeleteSelection()
	return text
}

// PendingChanges returns the number of recorded change events not yet
// sent.
func (d *Document) PendingChanges() int {
	return d.recorder.Len()
}

// DidOpen returns the didOpen notification for the current text and drops
// change events recorded before it.
func (d *Document) DidOpen() lsp.Message {
	d.recorder.Reset()
	return d.sync.DidOpen(d.buf.Text())
}

// DidChange returns the didChange notification for the changes recorded
// since the last call. It reports false when there is nothing to send or
// the document is not open on a server; the changes are dropped either way.
func (d *Document) DidChange() (lsp.Message, bool) {
	return d.sync.DidChange(d.recorder.Take(), d.buf.Text)
}

// serverColumn returns the column of offset in the server's encoding.
func (d *Document) serverColumn(offset int) int {
	if d.recorder.Encoding() == lsp.EncodingUTF16 {
		return d.buf.PointUTF16At(offset).Column
	}
	return d.buf.PointAt(offset).Column
}
