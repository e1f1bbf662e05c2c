package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SyncMode selects how changes are sent to the server.
type SyncMode uint8

const (
	// SyncIncremental sends one ranged change per edit.
	SyncIncremental SyncMode = iota
	// SyncFull sends the whole document on every change batch.
	SyncFull
)

// String returns the configuration name of the mode.
func (m SyncMode) String() string {
	if m == SyncFull {
		return "full"
	}
	return "incremental"
}

// Kind returns the protocol sync kind.
func (m SyncMode) Kind() protocol.TextDocumentSyncKind {
	if m == SyncFull {
		return protocol.TextDocumentSyncKindFull
	}
	return protocol.TextDocumentSyncKindIncremental
}

// ParseSyncMode parses a configuration name. An empty name means
// incremental.
func ParseSyncMode(s string) (SyncMode, error) {
	switch strings.ToLower(s) {
	case "", "incremental":
		return SyncIncremental, nil
	case "full":
		return SyncFull, nil
	}
	return SyncIncremental, fmt.Errorf("unknown sync mode %q", s)
}

// URIFromPath returns the file URI of a path, made absolute first.
func URIFromPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// PathFromURI returns the file path of a file URI.
func PathFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse uri: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("not a file uri: %s", uri)
	}
	return filepath.FromSlash(u.Path), nil
}

// DocumentSync tracks the protocol state of one open document and builds
// its synchronization notifications.
type DocumentSync struct {
	uri        string
	languageID string
	version    int
	mode       SyncMode
	open       bool
}

// NewDocumentSync creates the sync state for a document that has not been
// opened yet.
func NewDocumentSync(uri, languageID string, mode SyncMode) *DocumentSync {
	return &DocumentSync{uri: uri, languageID: languageID, mode: mode}
}

// URI returns the document URI.
func (d *DocumentSync) URI() string { return d.uri }

// LanguageID returns the protocol language id.
func (d *DocumentSync) LanguageID() string { return d.languageID }

// Version returns the version of the last notification sent.
func (d *DocumentSync) Version() int { return d.version }

// Mode returns the sync mode.
func (d *DocumentSync) Mode() SyncMode { return d.mode }

// SetMode changes the sync mode, typically after the server announced its
// preferred kind.
func (d *DocumentSync) SetMode(m SyncMode) { d.mode = m }

// IsOpen reports whether didOpen has been sent.
func (d *DocumentSync) IsOpen() bool { return d.open }

// DidOpen returns the didOpen notification for text. The version restarts
// at 1.
func (d *DocumentSync) DidOpen(text string) Message {
	d.version = 1
	d.open = true
	return NewNotification(MethodDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        protocol.DocumentUri(d.uri),
			LanguageID: d.languageID,
			Version:    protocol.Integer(d.version),
			Text:       text,
		},
	})
}

// DidChange returns the didChange notification for a batch of events.
// An empty batch, or a document that is not open, sends nothing and
// leaves the version alone. fullText is only called in full mode.
func (d *DocumentSync) DidChange(events []ChangeEvent, fullText func() string) (Message, bool) {
	if len(events) == 0 || !d.open {
		return Message{}, false
	}

	var changes []any
	if d.mode == SyncFull {
		changes = []any{protocol.TextDocumentContentChangeEventWhole{Text: fullText()}}
	} else {
		changes = make([]any, 0, len(events))
		for _, ev := range events {
			changes = append(changes, ev.protocolEvent())
		}
	}

	d.version++
	return NewNotification(MethodDidChange, protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(d.uri)},
			Version:                protocol.Integer(d.version),
		},
		ContentChanges: changes,
	}), true
}

// DidClose returns the didClose notification. It reports false when the
// document was never opened.
func (d *DocumentSync) DidClose() (Message, bool) {
	if !d.open {
		return Message{}, false
	}
	d.open = false
	return NewNotification(MethodDidClose, protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(d.uri)},
	}), true
}
