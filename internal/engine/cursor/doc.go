// Package cursor provides the caret and selection state machine.
//
// A Cursor holds:
//
//   - position: the char offset of the glyph the caret is attached to
//   - trailing: whether the caret sits on that glyph's trailing edge
//   - anchor: the fixed end of the selection
//   - column memory: the column vertical motion tries to return to
//   - a drag flag set between mouse press and release
//
// Selections use an anchor/head model where the head is the caret offset
// (position + trailing). When Anchor == Head there is no selection.
//
// Motion never fails. Moving past either end of the text or above the first
// or below the last line is a silent no-op, and all arithmetic saturates.
// CRLF pairs are crossed as a single unit so the caret never rests between
// CR and LF.
//
// The cursor reads text through the Text interface and never mutates it;
// edits are applied by the owner, which then repositions the cursor with
// CollapseTo or MoveBy.
//
// Basic usage:
//
//	var c cursor.Cursor
//	c.Move(text, cursor.Down, false)
//	c.MoveByWord(text, cursor.Right, true)  // extend selection by a word
//	sel := c.Selection()
package cursor
