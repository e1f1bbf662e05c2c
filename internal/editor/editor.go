package editor

import (
	"path/filepath"
	"unicode"

	"github.com/dshills/nimble/internal/config"
	"github.com/dshills/nimble/internal/engine/cursor"
	"github.com/dshills/nimble/internal/logging"
	"github.com/dshills/nimble/internal/lsp"
	"github.com/dshills/nimble/internal/renderer/cellgrid"
	"github.com/dshills/nimble/internal/renderer/highlight"
)

// Options configures an Editor.
type Options struct {
	// Client identifies the editor to language servers.
	Client lsp.ClientInfo

	// Registry provides lexical highlighters. Defaults to the built-in ones.
	Registry *highlight.Registry

	// Logger receives editor logs. Defaults to a discarding logger.
	Logger *logging.Logger

	// Width and Height are the initial screen size in cells.
	Width, Height int
}

// Layout is the screen split: line numbers on the left, text to their
// right and a status line at the bottom.
type Layout struct {
	Gutter cellgrid.ScreenRect
	Text   cellgrid.ScreenRect
	Status cellgrid.ScreenRect
}

// Editor routes input events to the active document and collects the
// resulting effects.
//
// An Editor is single-owner state driven by one event loop; HandleEvent
// must not be called concurrently.
type Editor struct {
	cfg      *config.Config
	settings Settings
	docs     *DocumentManager
	servers  map[string]*server
	tokens   *lsp.TokenTracker
	registry *highlight.Registry
	client   lsp.ClientInfo

	width, height int

	caretVisible bool
	blinkHold    int

	log *logging.Logger
}

// New creates an editor with no open documents.
func New(cfg *config.Config, opts Options) *Editor {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Registry == nil {
		opts.Registry = highlight.DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Null()
	}
	return &Editor{
		cfg:          cfg,
		settings:     SettingsFromConfig(cfg).normalize(),
		docs:         NewDocumentManager(),
		servers:      make(map[string]*server),
		tokens:       lsp.NewTokenTracker(),
		registry:     opts.Registry,
		client:       opts.Client,
		width:        max(opts.Width, 1),
		height:       max(opts.Height, 1),
		caretVisible: true,
		log:          opts.Logger.WithComponent("editor"),
	}
}

// Documents returns the open documents.
func (e *Editor) Documents() *DocumentManager { return e.docs }

// Active returns the active document, or nil when none is open.
func (e *Editor) Active() *Document { return e.docs.Active() }

// Config returns the configuration in effect.
func (e *Editor) Config() *config.Config { return e.cfg }

// Settings returns the editing settings in effect.
func (e *Editor) Settings() Settings { return e.settings }

// CaretVisible reports whether the caret is in the visible blink phase.
func (e *Editor) CaretVisible() bool { return e.caretVisible }

// Size returns the screen size in cells.
func (e *Editor) Size() (width, height int) { return e.width, e.height }

// Layout returns the screen split for the active document.
func (e *Editor) Layout() Layout {
	rows := max(e.height-1, 1)
	gutter := 0
	if doc := e.docs.Active(); doc != nil {
		gutter = min(doc.GutterWidth(), e.width-1)
	}
	return Layout{
		Gutter: cellgrid.RectFromSize(0, 0, rows, gutter),
		Text:   cellgrid.RectFromSize(0, gutter, rows, max(e.width-gutter, 1)),
		Status: cellgrid.RectFromSize(rows, 0, max(e.height-rows, 0), e.width),
	}
}

// TextLayout lays out the active document's visible text. It returns nil
// when no document is open.
func (e *Editor) TextLayout() *cellgrid.Layout {
	doc := e.docs.Active()
	if doc == nil {
		return nil
	}
	e.fit(doc)
	return doc.Layout(e.Layout().Text)
}

// fit sizes doc's viewport to the text area.
func (e *Editor) fit(doc *Document) {
	text := e.Layout().Text
	v := doc.Viewport()
	if v.Rows() != text.Height() || v.Columns() != text.Width() {
		doc.Resize(text.Height(), text.Width())
	}
}

// Open opens path holding text and makes it the active document. The
// language is detected from the file extension. When the language has a
// server the returned effects start it or open the document on it.
func (e *Editor) Open(path, text string) (*Document, Effects) {
	var eff Effects
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if doc, ok := e.docs.Get(path); ok {
			_ = e.docs.SetActive(doc)
			eff.Redraw = true
			return doc, eff
		}
	}

	opts := []Option{WithSettings(e.settings), WithLogger(e.log)}
	lang, known := e.cfg.LanguageForPath(path)
	if known {
		mode, err := lsp.ParseSyncMode(lang.Sync)
		if err != nil {
			e.log.Warn("language %s: %v", lang.ID, err)
		}
		enc, err := lsp.ParseEncoding(lang.PositionEncoding)
		if err != nil {
			e.log.Warn("language %s: %v", lang.ID, err)
		}
		opts = append(opts, WithLanguage(lang.ID, mode, enc))
		if h, ok := e.registry.Get(lang.ID); ok {
			opts = append(opts, WithHighlighter(h))
		}
	}

	doc, _ := e.docs.Add(NewDocument(path, text, opts...))
	e.fit(doc)
	e.log.Info("opened %s (%s)", doc.Name(), doc.LanguageID())

	if known && lang.HasServer() && !doc.IsScratch() {
		e.attach(doc, lang, &eff)
	}
	eff.Redraw = true
	return doc, eff
}

// Close closes doc, telling its server when it was open there.
func (e *Editor) Close(doc *Document) (Effects, error) {
	var eff Effects
	if err := e.docs.Remove(doc); err != nil {
		return eff, err
	}
	if msg, ok := doc.Sync().DidClose(); ok {
		eff.send(doc.LanguageID(), msg)
	}
	e.tokens.Forget(doc.URI())
	eff.Redraw = true
	return eff, nil
}

// Shutdown closes every document on its server and asks the servers to
// exit.
func (e *Editor) Shutdown() Effects {
	var eff Effects
	for _, doc := range e.docs.All() {
		if msg, ok := doc.Sync().DidClose(); ok {
			eff.send(doc.LanguageID(), msg)
		}
	}
	for lang, s := range e.servers {
		if s.ready {
			eff.send(lang, lsp.ShutdownRequest())
			eff.send(lang, lsp.ExitNotification())
		}
	}
	return eff
}

// HandleEvent applies one event and returns the effects it produced.
func (e *Editor) HandleEvent(ev Event) Effects {
	var eff Effects
	switch ev.Type {
	case EventResize:
		e.width, e.height = max(ev.Width, 1), max(ev.Height, 1)
		if doc := e.docs.Active(); doc != nil {
			e.fit(doc)
		}
		eff.Redraw = true
	case EventKey:
		e.handleKey(ev, &eff)
	case EventChar:
		if doc := e.docs.Active(); doc != nil {
			doc.InsertChar(ev.Rune)
			e.edited(doc, &eff)
		}
	case EventPaste:
		if doc := e.docs.Active(); doc != nil && ev.Text != "" {
			doc.InsertText(ev.Text)
			e.edited(doc, &eff)
		}
	case EventMouse:
		e.handleMouse(ev, &eff)
	case EventServer:
		e.handleServer(ev.Language, ev.Body, &eff)
	case EventServerExit:
		e.serverExited(ev.Language, &eff)
	case EventBlink:
		e.blink()
		eff.Redraw = true
	case EventConfig:
		if ev.Config != nil {
			e.ApplyConfig(ev.Config)
			eff.Redraw = true
		}
	}
	return eff
}

// ApplyConfig switches to a reloaded configuration. Tab width, bracket
// pairs and scroll settings apply to open documents at once; language
// changes apply to documents opened later.
func (e *Editor) ApplyConfig(cfg *config.Config) {
	e.cfg = cfg
	e.settings = SettingsFromConfig(cfg).normalize()
	for _, doc := range e.docs.All() {
		doc.ApplySettings(e.settings)
	}
	e.log.Info("configuration applied")
}

// edited finishes an editing command: the caret blink restarts and the
// recorded changes go to the server followed by a token request.
func (e *Editor) edited(doc *Document, eff *Effects) {
	e.flush(doc, eff)
	e.resetBlink(eff)
	eff.Redraw = true
}

// flush sends doc's pending changes.
func (e *Editor) flush(doc *Document, eff *Effects) {
	msg, ok := doc.DidChange()
	if !ok {
		return
	}
	eff.send(doc.LanguageID(), msg)
	e.requestTokens(doc, eff)
}

// handleKey runs the command bound to a key.
func (e *Editor) handleKey(ev Event, eff *Effects) {
	doc := e.docs.Active()
	if doc == nil {
		if ev.Key == KeyRune && ev.Mod.Has(ModCtrl) && unicode.ToLower(ev.Rune) == 'q' {
			eff.Quit = true
		}
		return
	}
	shift := ev.Mod.Has(ModShift)
	ctrl := ev.Mod.Has(ModCtrl)

	switch ev.Key {
	case KeyLeft, KeyRight:
		dir := cursor.Left
		if ev.Key == KeyRight {
			dir = cursor.Right
		}
		if ctrl {
			doc.MoveByWord(dir, shift)
		} else {
			doc.Move(dir, shift)
		}
	case KeyUp:
		doc.Move(cursor.Up, shift)
	case KeyDown:
		doc.Move(cursor.Down, shift)
	case KeyHome:
		doc.MoveToLineStart(shift)
	case KeyEnd:
		doc.MoveToLineEnd(shift)
	case KeyPageUp:
		doc.PageUp(shift)
	case KeyPageDown:
		doc.PageDown(shift)
	case KeyTab:
		doc.InsertTab()
	case KeyEnter:
		doc.InsertNewline()
	case KeyDelete:
		if ctrl {
			doc.DeleteWord()
		} else {
			doc.DeleteChar()
		}
	case KeyBackspace:
		if ctrl {
			doc.DeletePreviousWord()
		} else {
			doc.DeletePreviousChar()
		}
	case KeyEscape:
		doc.ClearSelection()
	case KeyRune:
		if !ctrl {
			doc.InsertChar(ev.Rune)
			break
		}
		e.handleChord(doc, unicode.ToLower(ev.Rune), eff)
	default:
		return
	}

	e.flush(doc, eff)
	e.resetBlink(eff)
	eff.Redraw = true
}

// handleChord runs a Ctrl+letter command.
func (e *Editor) handleChord(doc *Document, r rune, eff *Effects) {
	switch r {
	case 'a':
		doc.SelectAll()
	case 'c':
		if text := doc.SelectedText(); text != "" {
			eff.copyText(text)
		}
	case 'x':
		if text := doc.Cut(); text != "" {
			eff.copyText(text)
		}
	case 'v':
		eff.ReadClipboard = true
	case 'n':
		e.switchTo(e.docs.Next())
	case 'p':
		e.switchTo(e.docs.Previous())
	case 'q':
		eff.Quit = true
	}
}

// switchTo resizes a newly activated document to the current text area.
func (e *Editor) switchTo(doc *Document) {
	if doc != nil {
		e.fit(doc)
	}
}

// handleMouse applies clicks, drags and wheel scrolling.
func (e *Editor) handleMouse(ev Event, eff *Effects) {
	doc := e.docs.Active()
	if doc == nil {
		return
	}

	switch ev.Mouse {
	case MouseWheelUp:
		doc.ScrollUp(e.settings.LinesPerRoll)
	case MouseWheelDown:
		doc.ScrollDown(e.settings.LinesPerRoll)
	case MouseWheelLeft:
		doc.ScrollLeft(e.settings.LinesPerRoll)
	case MouseWheelRight:
		doc.ScrollRight(e.settings.LinesPerRoll)
	case MousePress:
		hit := e.TextLayout().HitTest(ev.Pos)
		doc.Click(hit.Offset, hit.Trailing, ev.Mod.Has(ModShift))
		e.resetBlink(eff)
	case MouseDoublePress:
		hit := e.TextLayout().HitTest(ev.Pos)
		doc.DoubleClick(hit.Offset)
		e.resetBlink(eff)
	case MouseRelease:
		doc.Release()
	case MouseMove:
		if !doc.Cursor().Selecting() {
			return
		}
		e.dragScroll(doc, ev.Pos)
		hit := e.TextLayout().HitTest(ev.Pos)
		doc.Drag(hit.Offset, hit.Trailing)
	}
	eff.Redraw = true
}

// dragScroll scrolls when a selection drag leaves the text area.
func (e *Editor) dragScroll(doc *Document, pos cellgrid.ScreenPos) {
	text := e.Layout().Text
	switch {
	case pos.Row >= text.Bottom:
		doc.ScrollDown(e.settings.LinesPerMouseMove)
	case pos.Row < text.Top:
		doc.ScrollUp(e.settings.LinesPerMouseMove)
	}
	switch {
	case pos.Col >= text.Right:
		doc.ScrollRight(e.settings.ColumnsPerMouseMove)
	case pos.Col < text.Left:
		doc.ScrollLeft(e.settings.ColumnsPerMouseMove)
	}
}

// resetBlink forces the caret visible for a while after it moved.
func (e *Editor) resetBlink(eff *Effects) {
	if e.caretVisible {
		e.blinkHold = 1
	} else {
		e.caretVisible = true
		e.blinkHold = 2
	}
	eff.ResetBlink = true
}

// blink advances the caret blink phase. A held caret stays visible until
// the hold runs out.
func (e *Editor) blink() {
	if e.blinkHold > 0 {
		e.blinkHold--
		e.caretVisible = true
		return
	}
	e.caretVisible = !e.caretVisible
}
