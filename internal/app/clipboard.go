package app

import "github.com/atotto/clipboard"

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// SystemClipboard uses the platform clipboard tools.
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// memoryClipboard is used when the platform has no clipboard, so copy and
// paste still work inside the editor.
type memoryClipboard struct {
	text string
}

func (m *memoryClipboard) ReadAll() (string, error) { return m.text, nil }

func (m *memoryClipboard) WriteAll(text string) error {
	m.text = text
	return nil
}

// defaultClipboard returns the system clipboard when one is available.
func defaultClipboard() Clipboard {
	if clipboard.Unsupported {
		return &memoryClipboard{}
	}
	return SystemClipboard{}
}
