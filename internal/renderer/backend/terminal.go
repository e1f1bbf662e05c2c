package backend

import (
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/nimble/internal/editor"
)

// DoubleClickInterval is the longest gap between two presses at the same
// cell that still counts as a double click.
const DoubleClickInterval = 400 * time.Millisecond

// Terminal implements Backend using tcell.
type Terminal struct {
	screen tcell.Screen
	theme  *Theme
	mu     sync.Mutex

	// Input state, touched only by the polling goroutine.
	buttons   tcell.ButtonMask
	lastClick time.Time
	lastPos   [2]int
	pasting   bool
	paste     strings.Builder
	now       func() time.Time
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal(theme *Theme) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, theme), nil
}

// NewTerminalWithScreen creates a backend on an existing screen, such as a
// simulation screen.
func NewTerminalWithScreen(screen tcell.Screen, theme *Theme) *Terminal {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Terminal{screen: screen, theme: theme, now: time.Now}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.EnablePaste()
	t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// SetTheme replaces the colors used by the next Draw.
func (t *Terminal) SetTheme(theme *Theme) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.theme = theme
}

// Draw paints the editor's current frame.
func (t *Terminal) Draw(e *editor.Editor) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	p := painter{screen: t.screen, theme: t.theme}
	p.paint(e)
	t.screen.Show()
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort; terminal may not support beep
}

// PollEvent blocks until the next input event. ok is false once the
// screen has been shut down.
func (t *Terminal) PollEvent() (ev editor.Event, ok bool) {
	for {
		raw := t.screen.PollEvent()
		if raw == nil {
			return editor.Event{}, false
		}
		if ev, ok := t.convertEvent(raw); ok {
			return ev, true
		}
	}
}

// convertEvent converts a tcell event. ok is false for events the editor
// does not take, and for keys that are part of a bracketed paste.
func (t *Terminal) convertEvent(ev tcell.Event) (editor.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if t.pasting {
			t.pasteKey(e)
			return editor.Event{}, false
		}
		return convertKey(e)

	case *tcell.EventMouse:
		return t.convertMouse(e)

	case *tcell.EventResize:
		w, h := e.Size()
		return editor.ResizeEvent(w, h), true

	case *tcell.EventPaste:
		// The pasted text arrives as key events between start and end.
		if e.Start() {
			t.pasting = true
			t.paste.Reset()
			return editor.Event{}, false
		}
		t.pasting = false
		return editor.PasteEvent(t.paste.String()), true

	default:
		return editor.Event{}, false
	}
}

// pasteKey accumulates one key of a bracketed paste.
func (t *Terminal) pasteKey(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyRune:
		t.paste.WriteRune(e.Rune())
	case tcell.KeyEnter:
		t.paste.WriteByte('\n')
	case tcell.KeyTab:
		t.paste.WriteByte('\t')
	}
}

// convertKey converts a key press. Control letters become chords.
func convertKey(e *tcell.EventKey) (editor.Event, bool) {
	mod := convertMod(e.Modifiers())
	switch e.Key() {
	case tcell.KeyRune:
		if mod.Has(editor.ModCtrl) {
			return editor.CtrlEvent(e.Rune()), true
		}
		return editor.CharEvent(e.Rune()), true
	case tcell.KeyEscape:
		return editor.KeyEvent(editor.KeyEscape, mod), true
	case tcell.KeyEnter:
		return editor.KeyEvent(editor.KeyEnter, mod), true
	case tcell.KeyTab:
		return editor.KeyEvent(editor.KeyTab, mod), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return editor.KeyEvent(editor.KeyBackspace, mod), true
	case tcell.KeyDelete:
		return editor.KeyEvent(editor.KeyDelete, mod), true
	case tcell.KeyHome:
		return editor.KeyEvent(editor.KeyHome, mod), true
	case tcell.KeyEnd:
		return editor.KeyEvent(editor.KeyEnd, mod), true
	case tcell.KeyPgUp:
		return editor.KeyEvent(editor.KeyPageUp, mod), true
	case tcell.KeyPgDn:
		return editor.KeyEvent(editor.KeyPageDown, mod), true
	case tcell.KeyUp:
		return editor.KeyEvent(editor.KeyUp, mod), true
	case tcell.KeyDown:
		return editor.KeyEvent(editor.KeyDown, mod), true
	case tcell.KeyLeft:
		return editor.KeyEvent(editor.KeyLeft, mod), true
	case tcell.KeyRight:
		return editor.KeyEvent(editor.KeyRight, mod), true
	}

	// Ctrl+H, Ctrl+I and Ctrl+M share codes with Backspace, Tab and Enter
	// and were handled above.
	if k := e.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return editor.CtrlEvent('a' + rune(k-tcell.KeyCtrlA)), true
	}
	return editor.Event{}, false
}

// convertMouse turns tcell's button state reports into press, release,
// move and wheel actions.
func (t *Terminal) convertMouse(e *tcell.EventMouse) (editor.Event, bool) {
	x, y := e.Position()
	mod := convertMod(e.Modifiers())
	buttons := e.Buttons()
	was := t.buttons&tcell.Button1 != 0
	down := buttons&tcell.Button1 != 0
	t.buttons = buttons

	var action editor.MouseAction
	switch {
	case buttons&tcell.WheelUp != 0:
		action = editor.MouseWheelUp
	case buttons&tcell.WheelDown != 0:
		action = editor.MouseWheelDown
	case buttons&tcell.WheelLeft != 0:
		action = editor.MouseWheelLeft
	case buttons&tcell.WheelRight != 0:
		action = editor.MouseWheelRight
	case down && !was:
		action = t.press(x, y)
	case !down && was:
		action = editor.MouseRelease
	case buttons != tcell.ButtonNone && !down:
		// Other buttons are not used.
		return editor.Event{}, false
	default:
		action = editor.MouseMove
	}
	return editor.MouseEvent(action, y, x, mod), true
}

// press classifies a button press as single or double.
func (t *Terminal) press(x, y int) editor.MouseAction {
	now := t.now()
	pos := [2]int{x, y}
	if pos == t.lastPos && !t.lastClick.IsZero() && now.Sub(t.lastClick) <= DoubleClickInterval {
		t.lastClick = time.Time{}
		return editor.MouseDoublePress
	}
	t.lastClick, t.lastPos = now, pos
	return editor.MousePress
}

// convertMod converts tcell modifier mask to our ModMask.
func convertMod(m tcell.ModMask) editor.ModMask {
	var result editor.ModMask
	if m&tcell.ModShift != 0 {
		result |= editor.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= editor.ModCtrl
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		result |= editor.ModAlt
	}
	return result
}
