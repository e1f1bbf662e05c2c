package cursor

import (
	"testing"

	"github.com/dshills/nimble/internal/engine/buffer"
)

func at(offset int) *Cursor {
	c := &Cursor{}
	c.CollapseTo(offset)
	return c
}

func TestMoveLeftRight(t *testing.T) {
	b := buffer.NewBufferFromString("hello")

	c := at(2)
	c.Move(b, Right, false)
	if c.Offset() != 3 {
		t.Errorf("Right: expected 3, got %d", c.Offset())
	}
	c.Move(b, Left, false)
	if c.Offset() != 2 {
		t.Errorf("Left: expected 2, got %d", c.Offset())
	}
	if c.HasSelection() {
		t.Error("plain motion should not select")
	}
}

func TestMoveSaturatesAtEnds(t *testing.T) {
	b := buffer.NewBufferFromString("ab")

	c := at(0)
	c.Move(b, Left, false)
	if c.Offset() != 0 {
		t.Errorf("Left at 0 moved to %d", c.Offset())
	}

	c = at(2)
	c.Move(b, Right, false)
	if c.Offset() != 2 {
		t.Errorf("Right at end moved to %d", c.Offset())
	}

	c = at(1)
	c.MoveBy(b, Right, 100, false)
	if c.Offset() != 2 {
		t.Errorf("MoveBy past end = %d, want 2", c.Offset())
	}
	c.MoveBy(b, Left, 100, false)
	if c.Offset() != 0 {
		t.Errorf("MoveBy before start = %d, want 0", c.Offset())
	}
}

func TestMoveCrossesCRLF(t *testing.T) {
	b := buffer.NewBufferFromString("a\r\nb")

	c := at(1)
	c.Move(b, Right, false)
	if c.Offset() != 3 {
		t.Errorf("Right over CRLF: expected 3, got %d", c.Offset())
	}
	c.Move(b, Left, false)
	if c.Offset() != 1 {
		t.Errorf("Left over CRLF: expected 1, got %d", c.Offset())
	}
}

func TestVerticalColumnMemory(t *testing.T) {
	b := buffer.NewBufferFromString("abcde\nxy\nabcde")

	c := at(4)
	if !c.Move(b, Down, false) {
		t.Fatal("Down should move")
	}
	if c.Offset() != 8 {
		t.Errorf("Down to short line: expected 8, got %d", c.Offset())
	}
	if c.ColumnMemory() != 4 {
		t.Errorf("column memory = %d, want 4", c.ColumnMemory())
	}
	c.Move(b, Down, false)
	if c.Offset() != 13 {
		t.Errorf("Down restores column: expected 13, got %d", c.Offset())
	}
	c.Move(b, Up, false)
	c.Move(b, Up, false)
	if c.Offset() != 4 {
		t.Errorf("Up twice: expected 4, got %d", c.Offset())
	}
}

func TestVerticalAtEdges(t *testing.T) {
	b := buffer.NewBufferFromString("one\ntwo")

	c := at(1)
	if c.Move(b, Up, false) {
		t.Error("Up on first line should report no move")
	}
	if c.Offset() != 1 {
		t.Errorf("Up on first line moved to %d", c.Offset())
	}

	c = at(5)
	if c.Move(b, Down, false) {
		t.Error("Down on last line should report no move")
	}
}

func TestVerticalStopsBeforeCRLF(t *testing.T) {
	b := buffer.NewBufferFromString("abcdef\r\nab\r\nabcdef")

	c := at(5)
	c.Move(b, Down, false)
	// line 1 starts at 8 and holds "ab"
	if c.Offset() != 10 {
		t.Errorf("Down: expected 10, got %d", c.Offset())
	}
	c.Move(b, Down, false)
	if c.Offset() != 17 {
		t.Errorf("Down: expected 17, got %d", c.Offset())
	}
}

func TestHorizontalMotionResetsColumnMemory(t *testing.T) {
	b := buffer.NewBufferFromString("abcde\nxy\nabcde")

	c := at(4)
	c.Move(b, Down, false)
	c.Move(b, Left, false)
	if c.ColumnMemory() != 0 {
		t.Errorf("column memory should reset, got %d", c.ColumnMemory())
	}
	c.Move(b, Down, false)
	if c.Offset() != 10 {
		t.Errorf("Down after Left: expected 10, got %d", c.Offset())
	}
}

func TestMoveByWord(t *testing.T) {
	b := buffer.NewBufferFromString("foo_bar baz")

	c := at(0)
	c.MoveByWord(b, Right, false)
	if c.Offset() != 7 {
		t.Errorf("word right: expected 7, got %d", c.Offset())
	}
	c.MoveByWord(b, Right, false)
	if c.Offset() != 11 {
		t.Errorf("word right: expected 11, got %d", c.Offset())
	}
	c.MoveByWord(b, Left, false)
	if c.Offset() != 8 {
		t.Errorf("word left: expected 8, got %d", c.Offset())
	}
}

func TestExtendSelection(t *testing.T) {
	b := buffer.NewBufferFromString("hello world")

	c := at(2)
	c.Move(b, Right, true)
	c.Move(b, Right, true)
	sel := c.Selection()
	if sel.Anchor != 2 || sel.Head != 4 {
		t.Errorf("selection = %v, want 2→4", sel)
	}
	if !c.HasSelection() {
		t.Error("expected selection")
	}

	c.Move(b, Right, false)
	if c.HasSelection() {
		t.Error("unextended motion should collapse selection")
	}
}

func TestClickTrailing(t *testing.T) {
	b := buffer.NewBufferFromString("ab\ncd")

	tests := []struct {
		name     string
		position int
		trailing bool
		want     int
		wantTr   bool
	}{
		{"leading edge", 1, false, 1, false},
		{"trailing edge", 1, true, 2, true},
		{"trailing on line break", 2, true, 2, false},
		{"past end", 99, true, 5, false},
		{"negative", -3, false, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cursor
			c.Click(b, tt.position, tt.trailing, false)
			if c.Offset() != tt.want {
				t.Errorf("Offset() = %d, want %d", c.Offset(), tt.want)
			}
			if c.Trailing() != tt.wantTr {
				t.Errorf("Trailing() = %v, want %v", c.Trailing(), tt.wantTr)
			}
			if c.HasSelection() {
				t.Error("click should not select")
			}
			if !c.Selecting() {
				t.Error("click should start a drag")
			}
		})
	}
}

func TestClickDragRelease(t *testing.T) {
	b := buffer.NewBufferFromString("hello world")

	var c Cursor
	c.Click(b, 2, false, false)
	if !c.Drag(b, 6, true) {
		t.Error("drag should report movement")
	}
	sel := c.Selection()
	if sel.Start() != 2 || sel.End() != 7 {
		t.Errorf("drag selection = %v, want [2, 7)", sel)
	}
	if c.Drag(b, 6, true) {
		t.Error("drag to same spot should report no movement")
	}

	c.Release()
	if c.Drag(b, 0, false) {
		t.Error("drag after release should be ignored")
	}
	if c.Offset() != 7 {
		t.Errorf("caret moved after release: %d", c.Offset())
	}
}

func TestShiftClickExtends(t *testing.T) {
	b := buffer.NewBufferFromString("hello world")

	c := at(3)
	c.Click(b, 8, false, true)
	sel := c.Selection()
	if sel.Anchor != 3 || sel.Head != 8 {
		t.Errorf("shift-click selection = %v, want 3→8", sel)
	}
}

func TestSelectWordAndAll(t *testing.T) {
	b := buffer.NewBufferFromString("say hello_there now")

	var c Cursor
	c.SelectWord(b, 6)
	sel := c.Selection()
	if sel.Start() != 4 || sel.End() != 15 {
		t.Errorf("SelectWord = %v, want [4, 15)", sel)
	}

	c.SelectAll(b)
	sel = c.Selection()
	if sel.Start() != 0 || sel.End() != b.LenChars() {
		t.Errorf("SelectAll = %v", sel)
	}
}

func TestClamp(t *testing.T) {
	b := buffer.NewBufferFromString("abc")

	var c Cursor
	c.Select(10, 8)
	c.Clamp(b)
	if c.Anchor() != 3 || c.Offset() != 3 {
		t.Errorf("Clamp gave anchor %d offset %d", c.Anchor(), c.Offset())
	}
}

func TestDeleteSpan(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		offset    int
		dir       Direction
		word      bool
		tabWidth  int
		wantStart int
		wantEnd   int
	}{
		{"backspace char", "abc", 2, Left, false, 4, 1, 2},
		{"backspace at start", "abc", 0, Left, false, 4, 0, 0},
		{"backspace CRLF", "a\r\nb", 3, Left, false, 4, 1, 3},
		{"backspace indent", "        x", 8, Left, false, 4, 4, 8},
		{"backspace partial indent", "  x", 2, Left, false, 4, 1, 2},
		{"backspace word", "foo bar", 7, Left, true, 4, 4, 7},
		{"delete char", "abc", 1, Right, false, 4, 1, 2},
		{"delete at end", "abc", 3, Right, false, 4, 3, 3},
		{"delete CRLF", "a\r\nb", 1, Right, false, 4, 1, 3},
		{"delete indent", "    x", 0, Right, false, 4, 0, 4},
		{"delete word", "foo bar", 0, Right, true, 4, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := buffer.NewBufferFromString(tt.text)
			c := at(tt.offset)
			start, end := c.DeleteSpan(b, tt.dir, tt.word, tt.tabWidth)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("DeleteSpan() = [%d, %d), want [%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSelection(t *testing.T) {
	s := NewSelection(7, 3)
	if s.Start() != 3 || s.End() != 7 || s.Len() != 4 {
		t.Errorf("Start/End/Len = %d/%d/%d", s.Start(), s.End(), s.Len())
	}
	if !s.IsBackward() {
		t.Error("expected backward selection")
	}
	if !s.Contains(3) || s.Contains(7) {
		t.Error("Contains should be half-open")
	}
	from, to, ok := s.Intersect(5, 10)
	if !ok || from != 0 || to != 2 {
		t.Errorf("Intersect(5, 10) = %d, %d, %v", from, to, ok)
	}
	if _, _, ok := s.Intersect(8, 10); ok {
		t.Error("disjoint ranges should not intersect")
	}
	if NewSelection(2, 2).String() != "Caret(2)" {
		t.Errorf("String() = %q", NewSelection(2, 2).String())
	}
}

func TestGettersOnCopies(t *testing.T) {
	b := buffer.NewBufferFromString("hello world")

	var c Cursor
	c.Click(b, 2, false, false)
	c.Drag(b, 4, false)
	snapshot := func() Cursor { return c }

	if !snapshot().Selecting() || !snapshot().HasSelection() {
		t.Errorf("copy lost drag state: %v", snapshot())
	}
	if got := snapshot().Selection(); got.Start() != 2 || got.End() != 4 {
		t.Errorf("copy selection = %v, want [2, 4)", got)
	}
	if snapshot().Offset() != 4 || snapshot().Anchor() != 2 {
		t.Errorf("copy offset %d anchor %d", snapshot().Offset(), snapshot().Anchor())
	}
}
