// Package backend connects the editor to a terminal: it converts terminal
// input into editor events and paints editor frames.
package backend

import "github.com/dshills/nimble/internal/editor"

// Backend is the terminal abstraction the event loop drives.
type Backend interface {
	// Init initializes the terminal. Must be called before any other method.
	Init() error

	// Shutdown restores the terminal to its original state. PollEvent
	// returns false afterwards.
	Shutdown()

	// Size returns the terminal dimensions in cells.
	Size() (width, height int)

	// PollEvent blocks until an input event is available.
	PollEvent() (editor.Event, bool)

	// Draw paints the editor and flushes the frame.
	Draw(e *editor.Editor)

	// SetTheme replaces the colors used by the next Draw.
	SetTheme(theme *Theme)

	// Beep emits an audible or visual bell.
	Beep()
}

var _ Backend = (*Terminal)(nil)
