package lsp

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dshills/nimble/internal/engine/buffer"
)

// Encoding is the unit columns are counted in.
type Encoding uint8

const (
	// EncodingUTF32 counts chars.
	EncodingUTF32 Encoding = iota
	// EncodingUTF16 counts UTF-16 code units.
	EncodingUTF16
)

// String returns the protocol name of the encoding.
func (e Encoding) String() string {
	if e == EncodingUTF16 {
		return "utf-16"
	}
	return "utf-32"
}

// ParseEncoding parses a protocol encoding name. An empty name means
// utf-32.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "", "utf-32", "utf32":
		return EncodingUTF32, nil
	case "utf-16", "utf16":
		return EncodingUTF16, nil
	}
	return EncodingUTF32, fmt.Errorf("unknown position encoding %q", s)
}

// ChangeKind distinguishes insertions from deletions.
type ChangeKind uint8

const (
	ChangeInsert ChangeKind = iota
	ChangeDelete
)

func (k ChangeKind) String() string {
	if k == ChangeDelete {
		return "delete"
	}
	return "insert"
}

// Position is a zero-based line and column in the recorder's encoding.
type Position struct {
	Line   int
	Column int
}

// ChangeEvent is one edit expressed against the document as it stood just
// before the edit. Insertions have Start == End.
type ChangeEvent struct {
	Kind  ChangeKind
	Start Position
	End   Position
	Text  string
}

// protocolEvent converts the event to its incremental wire form.
func (c ChangeEvent) protocolEvent() protocol.TextDocumentContentChangeEvent {
	return protocol.TextDocumentContentChangeEvent{
		Range: &protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(c.Start.Line), Character: protocol.UInteger(c.Start.Column)},
			End:   protocol.Position{Line: protocol.UInteger(c.End.Line), Character: protocol.UInteger(c.End.Column)},
		},
		Text: c.Text,
	}
}

// Text is the read access the recorder needs to turn char offsets into
// positions. *buffer.Buffer satisfies it.
type Text interface {
	PointAt(i int) buffer.Point
	PointUTF16At(i int) buffer.Point
}

// Recorder collects the ordered change events of one user action.
//
// Insert and Delete must be called before the matching buffer mutation so
// positions refer to the pre-edit document.
type Recorder struct {
	encoding Encoding
	events   []ChangeEvent
}

// NewRecorder creates a recorder that counts columns in enc.
func NewRecorder(enc Encoding) *Recorder {
	return &Recorder{encoding: enc}
}

// Encoding returns the column encoding.
func (r *Recorder) Encoding() Encoding {
	return r.encoding
}

// SetEncoding changes the column encoding for later events.
func (r *Recorder) SetEncoding(enc Encoding) {
	r.encoding = enc
}

// Insert records text inserted at char offset at. Empty text records
// nothing.
func (r *Recorder) Insert(t Text, at int, text string) {
	if text == "" {
		return
	}
	pos := r.position(t, at)
	r.events = append(r.events, ChangeEvent{Kind: ChangeInsert, Start: pos, End: pos, Text: text})
}

// Delete records the removal of chars [start, end). An empty range records
// nothing.
func (r *Recorder) Delete(t Text, start, end int) {
	if start >= end {
		return
	}
	r.events = append(r.events, ChangeEvent{
		Kind:  ChangeDelete,
		Start: r.position(t, start),
		End:   r.position(t, end),
	})
}

// Len returns the number of pending events.
func (r *Recorder) Len() int {
	return len(r.events)
}

// Events returns the pending events without clearing them.
func (r *Recorder) Events() []ChangeEvent {
	return r.events
}

// Take returns the pending events and starts a new batch.
func (r *Recorder) Take() []ChangeEvent {
	events := r.events
	r.events = nil
	return events
}

// Reset drops the pending events.
func (r *Recorder) Reset() {
	r.events = nil
}

func (r *Recorder) position(t Text, i int) Position {
	var p buffer.Point
	if r.encoding == EncodingUTF16 {
		p = t.PointUTF16At(i)
	} else {
		p = t.PointAt(i)
	}
	return Position{Line: p.Line, Column: p.Column}
}
