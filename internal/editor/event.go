package editor

import (
	"github.com/dshills/nimble/internal/config"
	"github.com/dshills/nimble/internal/lsp"
	"github.com/dshills/nimble/internal/renderer/cellgrid"
)

// EventType identifies the kind of input event.
type EventType uint8

const (
	EventNone EventType = iota
	EventKey
	EventChar
	EventMouse
	EventResize
	EventPaste
	EventServer
	EventServerExit
	EventBlink
	EventConfig
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventChar:
		return "char"
	case EventMouse:
		return "mouse"
	case EventResize:
		return "resize"
	case EventPaste:
		return "paste"
	case EventServer:
		return "server"
	case EventServerExit:
		return "server exit"
	case EventBlink:
		return "blink"
	case EventConfig:
		return "config"
	default:
		return "none"
	}
}

// Key is a non-character key. Control chords arrive as KeyRune with
// ModCtrl set and the lower-case letter in Rune.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyTab
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyEscape
)

// ModMask represents modifier key state.
type ModMask uint8

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseAction is what the mouse did.
type MouseAction uint8

const (
	MousePress MouseAction = iota
	MouseDoublePress
	MouseRelease
	MouseMove
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
)

// Event is one input to Editor.HandleEvent.
type Event struct {
	Type EventType

	// Key and char events
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse events
	Mouse MouseAction
	Pos   cellgrid.ScreenPos

	// Resize events
	Width, Height int

	// Paste events, including clipboard reads
	Text string

	// Server events: the language whose server sent Body, or exited
	Language string
	Body     []byte

	// Config events
	Config *config.Config
}

// KeyEvent returns a key event.
func KeyEvent(key Key, mod ModMask) Event {
	return Event{Type: EventKey, Key: key, Mod: mod}
}

// CtrlEvent returns a control chord for the letter r.
func CtrlEvent(r rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r, Mod: ModCtrl}
}

// CharEvent returns a typed character event.
func CharEvent(r rune) Event {
	return Event{Type: EventChar, Rune: r}
}

// MouseEvent returns a mouse event at row, col.
func MouseEvent(action MouseAction, row, col int, mod ModMask) Event {
	return Event{Type: EventMouse, Mouse: action, Pos: cellgrid.NewScreenPos(row, col), Mod: mod}
}

// ResizeEvent returns a terminal resize event.
func ResizeEvent(width, height int) Event {
	return Event{Type: EventResize, Width: width, Height: height}
}

// PasteEvent returns a paste of text.
func PasteEvent(text string) Event {
	return Event{Type: EventPaste, Text: text}
}

// ServerEvent returns a message body received from a language's server.
func ServerEvent(language string, body []byte) Event {
	return Event{Type: EventServer, Language: language, Body: body}
}

// ServerExitEvent reports that a language's server stopped or could not
// be started.
func ServerExitEvent(language string) Event {
	return Event{Type: EventServerExit, Language: language}
}

// ConfigEvent delivers a reloaded configuration.
func ConfigEvent(cfg *config.Config) Event {
	return Event{Type: EventConfig, Config: cfg}
}

// BlinkEvent is a caret blink timer tick.
func BlinkEvent() Event {
	return Event{Type: EventBlink}
}

// Outbound is a message for a language's server.
type Outbound struct {
	Language string
	Message  lsp.Message
}

// Effects are the side effects an event asks the front end to perform,
// in order.
type Effects struct {
	// Start lists servers to launch before Outbound is sent.
	Start    []config.LanguageConfig
	Outbound []Outbound

	// WriteClipboard asks for Clipboard to be copied to the system clipboard.
	WriteClipboard bool
	Clipboard      string

	// ReadClipboard asks for the clipboard contents to be delivered back
	// as a paste event.
	ReadClipboard bool

	Redraw     bool
	ResetBlink bool
	Quit       bool
}

// send queues msg for language's server.
func (e *Effects) send(language string, msg lsp.Message) {
	e.Outbound = append(e.Outbound, Outbound{Language: language, Message: msg})
}

// copyText requests a clipboard write.
func (e *Effects) copyText(text string) {
	e.WriteClipboard = true
	e.Clipboard = text
}

// Methods returns the methods of the outbound messages, for logging and
// tests.
func (e Effects) Methods() []string {
	methods := make([]string, len(e.Outbound))
	for i, o := range e.Outbound {
		methods[i] = o.Message.Method
	}
	return methods
}
