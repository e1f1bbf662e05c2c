// Package editor ties the text core together. A Document owns the buffer,
// caret, viewport, change recorder and highlight stream of one open file
// and implements every editing and navigation operation over them. The
// Editor routes input events to the active document and turns the results
// into effects: messages for language servers, clipboard requests and
// redraws.
//
// Nothing in this package blocks. Server traffic and clipboard access leave
// as Effects and come back as events.
package editor

import (
	"path/filepath"

	"github.com/dshills/nimble/internal/engine/buffer"
	"github.com/dshills/nimble/internal/engine/cursor"
	"github.com/dshills/nimble/internal/logging"
	"github.com/dshills/nimble/internal/lsp"
	"github.com/dshills/nimble/internal/renderer/cellgrid"
	"github.com/dshills/nimble/internal/renderer/highlight"
	"github.com/dshills/nimble/internal/renderer/viewport"
)

// Document represents an open file with its editing state.
//
// A Document is single-owner state: all methods must be called from the
// goroutine that owns it.
type Document struct {
	path       string
	name       string
	uri        string
	languageID string

	buf  *buffer.Buffer
	cur  cursor.Cursor
	view *viewport.Viewport

	recorder *lsp.Recorder
	sync     *lsp.DocumentSync

	tokens    *highlight.Stream
	legend    *highlight.Legend
	lexer     highlight.Highlighter
	lexStates []highlight.LexerState // state at the start of each line, valid up to len

	settings Settings
	modified bool
	log      *logging.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithLanguage sets the language id, the sync mode and the column encoding
// the language's server expects.
func WithLanguage(id string, mode lsp.SyncMode, enc lsp.Encoding) Option {
	return func(d *Document) {
		d.languageID = id
		d.sync.SetMode(mode)
		d.recorder.SetEncoding(enc)
	}
}

// WithHighlighter sets the lexical highlighter.
func WithHighlighter(h highlight.Highlighter) Option {
	return func(d *Document) {
		d.lexer = h
	}
}

// WithSettings sets the editing settings.
func WithSettings(s Settings) Option {
	return func(d *Document) {
		d.settings = s.normalize()
	}
}

// WithSize sets the viewport size in cells.
func WithSize(rows, columns int) Option {
	return func(d *Document) {
		d.view = viewport.New(rows, columns)
	}
}

// WithLogger sets the document's logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		d.log = l.WithComponent("document")
	}
}

// NewDocument creates a document for path holding text. An empty path makes
// a scratch document.
func NewDocument(path, text string, opts ...Option) *Document {
	name := filepath.Base(path)
	uri := ""
	if path == "" {
		name = "Untitled"
	} else {
		uri = lsp.URIFromPath(path)
	}

	d := &Document{
		path:     path,
		name:     name,
		uri:      uri,
		view:     viewport.New(24, 80),
		recorder: lsp.NewRecorder(lsp.EncodingUTF32),
		tokens:   highlight.NewStream(nil),
		legend:   highlight.NewLegend(nil),
		settings: DefaultSettings(),
		log:      logging.Null(),
	}
	d.sync = lsp.NewDocumentSync(uri, "", lsp.SyncIncremental)
	for _, opt := range opts {
		opt(d)
	}
	d.sync = lsp.NewDocumentSync(uri, d.languageID, d.sync.Mode())
	d.buf = buffer.NewBufferFromString(text,
		buffer.WithDetectedLineEnding(text),
		buffer.WithTabWidth(d.settings.TabWidth),
	)
	d.view.Update(d.buf)
	return d
}

// Path returns the file path, or "" for a scratch document.
func (d *Document) Path() string { return d.path }

// Name returns the display name.
func (d *Document) Name() string { return d.name }

// URI returns the document uri, or "" for a scratch document.
func (d *Document) URI() string { return d.uri }

// LanguageID returns the language id, or "" when the language is unknown.
func (d *Document) LanguageID() string { return d.languageID }

// IsScratch returns true if this is a scratch buffer (no file path).
func (d *Document) IsScratch() bool { return d.path == "" }

// IsModified returns true if the document changed since it was opened.
func (d *Document) IsModified() bool { return d.modified }

// Buffer returns the sequence store.
func (d *Document) Buffer() *buffer.Buffer { return d.buf }

// Viewport returns the visible window.
func (d *Document) Viewport() *viewport.Viewport { return d.view }

// Sync returns the document's server sync state.
func (d *Document) Sync() *lsp.DocumentSync { return d.sync }

// Encoding returns the column encoding used for server positions.
func (d *Document) Encoding() lsp.Encoding { return d.recorder.Encoding() }

// Settings returns the editing settings.
func (d *Document) Settings() Settings { return d.settings }

// Text returns the full document content.
func (d *Document) Text() string { return d.buf.Text() }

// Cursor returns a copy of the caret state.
func (d *Document) Cursor() cursor.Cursor { return d.cur }

// CaretOffset returns the caret's absolute char offset.
func (d *Document) CaretOffset() int { return d.cur.Offset() }

// CaretLine returns the line holding the caret.
func (d *Document) CaretLine() int { return d.buf.CharToLine(d.cur.Offset()) }

// CaretPoint returns the caret's line and char column.
func (d *Document) CaretPoint() buffer.Point { return d.buf.PointAt(d.cur.Offset()) }

// Selection returns the current selection.
func (d *Document) Selection() cursor.Selection { return d.cur.Selection() }

// SelectedText returns the selected text, or "" when nothing is selected.
func (d *Document) SelectedText() string {
	sel := d.cur.Selection()
	if sel.IsEmpty() {
		return ""
	}
	return d.buf.Slice(sel.Start(), sel.End())
}

// ApplySettings switches to new settings. Tab width changes take effect on
// the next layout.
func (d *Document) ApplySettings(s Settings) {
	d.settings = s.normalize()
	d.buf.SetTabWidth(d.settings.TabWidth)
	d.followCaret()
}

// SetLanguage changes the sync mode and column encoding, as after the
// server announced its own preferences.
func (d *Document) SetLanguage(mode lsp.SyncMode, enc lsp.Encoding) {
	d.sync.SetMode(mode)
	d.recorder.SetEncoding(enc)
}

// VisibleText returns the text of the visible lines.
func (d *Document) VisibleText() string {
	return d.buf.Slice(d.view.CharStart(), d.view.CharEnd())
}

// Layout lays the visible text out in region.
func (d *Document) Layout(region cellgrid.ScreenRect) *cellgrid.Layout {
	d.view.Update(d.buf)
	return cellgrid.New(d.VisibleText(), cellgrid.Options{
		Region:       region,
		FirstLine:    d.view.TopLine(),
		CharStart:    d.view.CharStart(),
		LineCount:    d.view.VisibleLines(),
		ColumnOffset: d.view.ColumnOffset(),
		TabWidth:     d.settings.TabWidth,
	})
}

// CaretRect returns the caret's screen rectangle in layout. ok is false
// when the caret is scrolled out of view.
func (d *Document) CaretRect(layout *cellgrid.Layout) (cellgrid.ScreenRect, bool) {
	return layout.OffsetToRect(d.cur.Position(), d.cur.Trailing())
}

// LineNumbers returns the numbers of the visible lines.
func (d *Document) LineNumbers() []int {
	return d.view.LineNumbers(d.buf.LenLines())
}

// GutterWidth returns the width of the line-number gutter.
func (d *Document) GutterWidth() int {
	return viewport.GutterWidth(d.buf.LenLines())
}

// Resize sets the text area size in cells.
func (d *Document) Resize(rows, columns int) {
	d.view.Resize(d.buf, rows, columns)
	d.view.UpdateColumnOffset(d.caretColumn())
}

// caretColumn returns the caret's display column within its line.
func (d *Document) caretColumn() int {
	offset := d.cur.Offset()
	line := d.buf.CharToLine(offset)
	chars := offset - d.buf.LineToChar(line)
	return viewport.DisplayColumn(d.buf.LineText(line), chars, d.settings.TabWidth)
}

// followCaret scrolls the viewport so the caret is visible, as after an
// edit or a jump.
func (d *Document) followCaret() {
	d.view.Reveal(d.buf, d.CaretLine())
	d.view.UpdateColumnOffset(d.caretColumn())
}

// widestVisibleLine returns the display width of the longest visible line.
func (d *Document) widestVisibleLine() int {
	width := 0
	last := min(d.view.BottomLine(), d.buf.LenLines()-1)
	for line := d.view.TopLine(); line <= last; line++ {
		width = max(width, viewport.DisplayWidth(d.buf.LineText(line), d.settings.TabWidth))
	}
	return width
}
