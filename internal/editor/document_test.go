package editor

import (
	"reflect"
	"slices"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/nimble/internal/engine/cursor"
	"github.com/dshills/nimble/internal/lsp"
	"github.com/dshills/nimble/internal/renderer/highlight"
)

// docAt creates a scratch document with the caret at offset.
func docAt(text string, offset int, opts ...Option) *Document {
	d := NewDocument("", text, opts...)
	d.MoveBy(cursor.Right, offset, false)
	return d
}

func encoded(t *testing.T, msg lsp.Message) gjson.Result {
	t.Helper()
	body, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return gjson.ParseBytes(body)
}

func TestNewDocument(t *testing.T) {
	d := NewDocument("", "hello")
	if !d.IsScratch() || d.Name() != "Untitled" || d.URI() != "" {
		t.Errorf("scratch: name %q uri %q", d.Name(), d.URI())
	}
	if d.IsModified() {
		t.Error("new document should not be modified")
	}

	d = NewDocument("/src/main.cpp", "int x;", WithLanguage("cpp", lsp.SyncFull, lsp.EncodingUTF16))
	if d.Name() != "main.cpp" || d.URI() != "file:///src/main.cpp" {
		t.Errorf("name %q uri %q", d.Name(), d.URI())
	}
	if d.LanguageID() != "cpp" || d.Sync().Mode() != lsp.SyncFull || d.Encoding() != lsp.EncodingUTF16 {
		t.Errorf("language %q mode %v encoding %v", d.LanguageID(), d.Sync().Mode(), d.Encoding())
	}
	if d.Sync().LanguageID() != "cpp" {
		t.Errorf("sync language = %q", d.Sync().LanguageID())
	}
}

func TestMoveCrossesCRLF(t *testing.T) {
	d := docAt("ab\r\ncd", 2)

	d.Move(cursor.Right, false)
	if d.CaretOffset() != 4 {
		t.Errorf("Right over CRLF: got %d, want 4", d.CaretOffset())
	}
	d.Move(cursor.Left, false)
	if d.CaretOffset() != 2 {
		t.Errorf("Left over CRLF: got %d, want 2", d.CaretOffset())
	}
}

func TestVerticalMoveKeepsColumn(t *testing.T) {
	d := docAt("abcdef\nab\nabcdef", 5)

	d.Move(cursor.Down, false)
	if d.CaretOffset() != 9 {
		t.Errorf("Down to short line: got %d, want 9", d.CaretOffset())
	}
	d.Move(cursor.Down, false)
	if d.CaretOffset() != 15 {
		t.Errorf("Down restores column: got %d, want 15", d.CaretOffset())
	}
	if p := d.CaretPoint(); p.Line != 2 || p.Column != 5 {
		t.Errorf("CaretPoint() = %+v", p)
	}
}

func TestMoveByWord(t *testing.T) {
	d := docAt("foo bar", 0)

	d.MoveByWord(cursor.Right, false)
	if d.CaretOffset() != 3 {
		t.Errorf("first word: got %d, want 3", d.CaretOffset())
	}
	d.MoveByWord(cursor.Right, false)
	if d.CaretOffset() != 7 {
		t.Errorf("second word: got %d, want 7", d.CaretOffset())
	}
	d.MoveByWord(cursor.Left, true)
	if got := d.SelectedText(); got != "bar" {
		t.Errorf("extended selection = %q", got)
	}
}

func TestLineStartToggles(t *testing.T) {
	d := docAt("  abc", 5)

	d.MoveToLineStart(false)
	if d.CaretOffset() != 2 {
		t.Errorf("first Home: got %d, want 2", d.CaretOffset())
	}
	d.MoveToLineStart(false)
	if d.CaretOffset() != 0 {
		t.Errorf("second Home: got %d, want 0", d.CaretOffset())
	}
	d.MoveToLineEnd(true)
	if got := d.SelectedText(); got != "  abc" {
		t.Errorf("shift End selected %q", got)
	}
}

func TestDeletes(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		caret  int
		op     func(*Document) bool
		want   string
		offset int
	}{
		{"backspace CRLF", "a\r\nb", 3, (*Document).DeletePreviousChar, "ab", 1},
		{"delete CRLF", "a\r\nb", 1, (*Document).DeleteChar, "ab", 1},
		{"backspace indent", "x    y", 5, (*Document).DeletePreviousChar, "xy", 1},
		{"backspace char", "abc", 2, (*Document).DeletePreviousChar, "ac", 1},
		{"delete at end", "abc", 3, (*Document).DeleteChar, "abc", 3},
		{"backspace at start", "abc", 0, (*Document).DeletePreviousChar, "abc", 0},
		{"delete word", "foo bar", 0, (*Document).DeleteWord, " bar", 0},
		{"backspace word", "foo bar", 7, (*Document).DeletePreviousWord, "foo ", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := docAt(tt.text, tt.caret)
			tt.op(d)
			if got := d.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if d.CaretOffset() != tt.offset {
				t.Errorf("caret = %d, want %d", d.CaretOffset(), tt.offset)
			}
		})
	}
}

func TestDeleteSelection(t *testing.T) {
	d := docAt("hello world", 0)
	d.MoveByWord(cursor.Right, true)

	if !d.DeletePreviousChar() {
		t.Fatal("delete with selection reported no change")
	}
	if d.Text() != " world" || d.CaretOffset() != 0 || d.Cursor().HasSelection() {
		t.Errorf("text %q caret %d", d.Text(), d.CaretOffset())
	}
	if !d.IsModified() {
		t.Error("document should be modified")
	}
}

func TestInsertCharPairs(t *testing.T) {
	d := docAt("", 0)

	d.InsertChar('(')
	if d.Text() != "()" || d.CaretOffset() != 1 {
		t.Fatalf("auto-pair: text %q caret %d", d.Text(), d.CaretOffset())
	}
	d.InsertChar(')')
	if d.Text() != "()" || d.CaretOffset() != 2 {
		t.Errorf("step over: text %q caret %d", d.Text(), d.CaretOffset())
	}

	d = docAt("x", 0)
	d.InsertChar('[')
	if d.Text() != "[x" || d.CaretOffset() != 1 {
		t.Errorf("before word: text %q caret %d", d.Text(), d.CaretOffset())
	}
}

func TestInsertTextReplacesSelection(t *testing.T) {
	d := docAt("héllo", 0)
	d.SelectAll()
	d.InsertText("añb")
	if d.Text() != "añb" || d.CaretOffset() != 3 {
		t.Errorf("text %q caret %d", d.Text(), d.CaretOffset())
	}
}

func TestInsertNewline(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		caret int
		want  string
		after int
	}{
		{"plain", "ab", 1, "a\nb", 2},
		{"auto indent", "  ab", 4, "  ab\n  ", 7},
		{"indent stops at caret", "    ab", 2, "  \n    ab", 5},
		{"bracket", "{}", 1, "{\n    \n}", 6},
		{"indented bracket", "  {}", 3, "  {\n      \n  }", 10},
		{"bracket without closer", "{", 1, "{\n    \n}", 6},
		{"crlf", "a\r\nb", 1, "a\r\n\r\nb", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := docAt(tt.text, tt.caret)
			d.InsertNewline()
			if got := d.Text(); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if d.CaretOffset() != tt.after {
				t.Errorf("caret = %d, want %d", d.CaretOffset(), tt.after)
			}
		})
	}
}

func TestInsertTabAndCut(t *testing.T) {
	d := docAt("ab", 1)
	d.InsertTab()
	if d.Text() != "a    b" || d.CaretOffset() != 5 {
		t.Errorf("tab: text %q caret %d", d.Text(), d.CaretOffset())
	}

	d.SelectAll()
	if got := d.Cut(); got != "a    b" {
		t.Errorf("Cut() = %q", got)
	}
	if d.Text() != "" {
		t.Errorf("text after cut = %q", d.Text())
	}
}

func TestChangesBeforeOpenAreDropped(t *testing.T) {
	d := NewDocument("/src/a.cpp", "ab", WithLanguage("cpp", lsp.SyncIncremental, lsp.EncodingUTF32))

	d.InsertChar('x')
	if _, ok := d.DidChange(); ok {
		t.Error("DidChange() before didOpen should send nothing")
	}
	if d.PendingChanges() != 0 {
		t.Errorf("pending = %d after DidChange", d.PendingChanges())
	}

	d.InsertChar('y')
	open := encoded(t, d.DidOpen())
	if open.Get("params.textDocument.text").String() != "xyab" {
		t.Errorf("didOpen text = %q", open.Get("params.textDocument.text").String())
	}
	if d.PendingChanges() != 0 {
		t.Error("didOpen should drop earlier changes")
	}
}

func TestDidChangeIncrementalEvents(t *testing.T) {
	d := NewDocument("/src/a.cpp", "ab\ncd", WithLanguage("cpp", lsp.SyncIncremental, lsp.EncodingUTF32))
	d.DidOpen()

	d.MoveBy(cursor.Right, 3, false)
	d.DeletePreviousChar()
	d.InsertChar('X')

	msg, ok := d.DidChange()
	if !ok {
		t.Fatal("DidChange() sent nothing")
	}
	m := encoded(t, msg)
	if m.Get("params.textDocument.version").Int() != 2 {
		t.Errorf("version = %d", m.Get("params.textDocument.version").Int())
	}
	changes := m.Get("params.contentChanges").Array()
	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	del := changes[0]
	if del.Get("range.start.line").Int() != 0 || del.Get("range.start.character").Int() != 2 ||
		del.Get("range.end.line").Int() != 1 || del.Get("range.end.character").Int() != 0 {
		t.Errorf("delete range = %s", del.Get("range").Raw)
	}
	ins := changes[1]
	if ins.Get("text").String() != "X" || ins.Get("range.start.character").Int() != 2 {
		t.Errorf("insert = %s", ins.Raw)
	}
	if d.Text() != "abXcd" {
		t.Errorf("text = %q", d.Text())
	}
}

func TestDidChangeFullSendsText(t *testing.T) {
	d := NewDocument("/src/a.rs", "fn", WithLanguage("rust", lsp.SyncFull, lsp.EncodingUTF32))
	d.DidOpen()
	d.MoveBy(cursor.Right, 2, false)
	d.InsertText(" main")

	msg, ok := d.DidChange()
	if !ok {
		t.Fatal("DidChange() sent nothing")
	}
	changes := encoded(t, msg).Get("params.contentChanges").Array()
	if len(changes) != 1 || changes[0].Get("text").String() != "fn main" || changes[0].Get("range").Exists() {
		t.Errorf("changes = %v", changes)
	}
	if _, ok := d.DidChange(); ok {
		t.Error("second DidChange() should have nothing to send")
	}
}

func TestTokensFollowEdits(t *testing.T) {
	t.Run("grow at insert", func(t *testing.T) {
		d := docAt("abc\nde", 3)
		d.SetTokens([]uint32{0, 0, 3, 0, 0, 1, 0, 2, 0, 0})
		d.InsertChar('x')
		if got := d.Tokens()[0].Length; got != 4 {
			t.Errorf("token length = %d, want 4", got)
		}
	})

	t.Run("auto-pair leaves token alone", func(t *testing.T) {
		d := docAt("abc\nde", 3)
		d.SetTokens([]uint32{0, 0, 3, 0, 0, 1, 0, 2, 0, 0})
		d.InsertChar('(')
		if d.Text() != "abc()\nde" {
			t.Fatalf("text = %q", d.Text())
		}
		if got := d.Tokens()[0].Length; got != 3 {
			t.Errorf("token length = %d, want 3", got)
		}
	})

	t.Run("non-ascii char grows", func(t *testing.T) {
		d := docAt("abc\nde", 3)
		d.SetTokens([]uint32{0, 0, 3, 0, 0, 1, 0, 2, 0, 0})
		d.InsertChar('é')
		if got := d.Tokens()[0].Length; got != 4 {
			t.Errorf("token length = %d, want 4", got)
		}
	})

	t.Run("newline shifts later lines", func(t *testing.T) {
		d := docAt("abc\nde", 3)
		d.SetTokens([]uint32{0, 0, 3, 0, 0, 1, 0, 2, 0, 0})
		d.InsertNewline()
		tokens := d.Tokens()
		if tokens[0].Line != 0 || tokens[1].Line != 2 {
			t.Errorf("token lines = %d, %d; want 0, 2", tokens[0].Line, tokens[1].Line)
		}
	})

	t.Run("joining lines shifts up", func(t *testing.T) {
		d := docAt("abc\nde\nf", 4)
		d.SetTokens([]uint32{0, 0, 3, 0, 0, 1, 0, 2, 0, 0, 1, 0, 1, 0, 0})
		d.DeletePreviousChar()
		tokens := d.Tokens()
		if tokens[1].Line != 0 || tokens[2].Line != 1 {
			t.Errorf("token lines = %d, %d; want 0, 1", tokens[1].Line, tokens[2].Line)
		}
	})

	t.Run("utf16 column", func(t *testing.T) {
		d := NewDocument("", "😀ab", WithLanguage("", lsp.SyncIncremental, lsp.EncodingUTF16))
		d.MoveBy(cursor.Right, 3, false)
		d.SetTokens([]uint32{0, 2, 2, 0, 0})
		d.InsertChar('c')
		if got := d.Tokens()[0].Length; got != 3 {
			t.Errorf("token length = %d, want 3", got)
		}
	})
}

func TestLineColumnToChar(t *testing.T) {
	d := NewDocument("", "a😀b\nxy")
	tests := []struct {
		line, column, want int
	}{
		{0, 2, 2},
		{0, 10, 3},
		{1, 1, 5},
		{-1, 3, 0},
		{5, 0, 6},
	}
	for _, tt := range tests {
		if got := d.LineColumnToChar(tt.line, tt.column); got != tt.want {
			t.Errorf("utf-32 (%d, %d) = %d, want %d", tt.line, tt.column, got, tt.want)
		}
	}

	d.SetLanguage(lsp.SyncIncremental, lsp.EncodingUTF16)
	if got := d.LineColumnToChar(0, 3); got != 2 {
		t.Errorf("utf-16 (0, 3) = %d, want 2", got)
	}
	if got := d.LineColumnToChar(0, 1); got != 1 {
		t.Errorf("utf-16 (0, 1) = %d, want 1", got)
	}
}

func TestHighlightSpansSemantic(t *testing.T) {
	d := NewDocument("", "int x\n")
	d.SetLegend(highlight.NewLegend([]string{"keyword", "variable"}))
	d.SetTokens([]uint32{0, 0, 3, 0, 0, 0, 4, 1, 1, 0})

	want := []highlight.Span{
		{Start: 0, End: 3, Type: highlight.TokenKeyword},
		{Start: 4, End: 5, Type: highlight.TokenVariable},
	}
	if got := d.HighlightSpans(); !reflect.DeepEqual(got, want) {
		t.Errorf("HighlightSpans() = %v, want %v", got, want)
	}
}

func TestHighlightSpansRelexAfterEdit(t *testing.T) {
	d := NewDocument("", "x\nb */ c", WithHighlighter(highlight.CppLexer()))

	comment := highlight.Span{Start: 4, End: 8, Type: highlight.TokenComment}
	for _, s := range d.HighlightSpans() {
		if s.Type == highlight.TokenComment {
			t.Fatalf("unexpected comment span %v", s)
		}
	}

	d.InsertText("/*")
	if got := d.HighlightSpans(); !slices.Contains(got, comment) {
		t.Errorf("HighlightSpans() = %v, want it to contain %v", got, comment)
	}
}

func TestMergeSpans(t *testing.T) {
	lexical := []highlight.Span{{Start: 2, End: 4, Type: highlight.TokenComment}}
	semantic := []highlight.Span{
		{Start: 0, End: 6, Type: highlight.TokenVariable},
		{Start: 8, End: 9, Type: highlight.TokenFunction},
	}

	want := []highlight.Span{
		{Start: 0, End: 2, Type: highlight.TokenVariable},
		{Start: 2, End: 4, Type: highlight.TokenComment},
		{Start: 4, End: 6, Type: highlight.TokenVariable},
		{Start: 8, End: 9, Type: highlight.TokenFunction},
	}
	if got := mergeSpans(lexical, semantic); !reflect.DeepEqual(got, want) {
		t.Errorf("mergeSpans() = %v, want %v", got, want)
	}
}

func TestFollowCaretScrolls(t *testing.T) {
	d := NewDocument("", "0\n1\n2\n3\n4\n5\n6\n7\n8\n9", WithSize(3, 10))

	for i := 0; i < 4; i++ {
		d.Move(cursor.Down, false)
	}
	v := d.Viewport()
	if v.TopLine() != 2 || v.BottomLine() != 4 {
		t.Errorf("window = [%d, %d], want [2, 4]", v.TopLine(), v.BottomLine())
	}

	d.PageUp(false)
	if d.CaretLine() != 2 {
		t.Errorf("caret line after PageUp = %d, want 2", d.CaretLine())
	}
	if d.CaretLine() < v.TopLine() || d.CaretLine() > v.BottomLine() {
		t.Errorf("caret line %d outside [%d, %d]", d.CaretLine(), v.TopLine(), v.BottomLine())
	}
}

func TestEnclosingBrackets(t *testing.T) {
	d := docAt("f(a[1])", 4)
	open, closing, ok := d.EnclosingBrackets()
	if !ok || open != 3 || closing != 5 {
		t.Errorf("EnclosingBrackets() = %d, %d, %v", open, closing, ok)
	}
}
