package lsp

import (
	"testing"

	"github.com/dshills/nimble/internal/engine/buffer"
)

func TestRecorderPositionsBeforeMutation(t *testing.T) {
	b := buffer.NewBufferFromString("ab\r\ncd")
	rec := NewRecorder(EncodingUTF32)

	// Delete "b\r\nc" then type "X" where it was.
	rec.Delete(b, 1, 5)
	if err := b.Delete(1, 5); err != nil {
		t.Fatal(err)
	}
	rec.Insert(b, 1, "X")
	if _, err := b.Insert(1, "X"); err != nil {
		t.Fatal(err)
	}

	events := rec.Take()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	del := events[0]
	if del.Kind != ChangeDelete || del.Start != (Position{0, 1}) || del.End != (Position{1, 1}) || del.Text != "" {
		t.Errorf("delete event = %+v", del)
	}
	ins := events[1]
	if ins.Kind != ChangeInsert || ins.Start != (Position{0, 1}) || ins.End != ins.Start || ins.Text != "X" {
		t.Errorf("insert event = %+v", ins)
	}
	if rec.Len() != 0 {
		t.Errorf("Take() should start a new batch, Len() = %d", rec.Len())
	}
	if b.Text() != "aXd" {
		t.Errorf("buffer = %q", b.Text())
	}
}

func TestRecorderSkipsEmptyEdits(t *testing.T) {
	b := buffer.NewBufferFromString("abc")
	rec := NewRecorder(EncodingUTF32)

	rec.Insert(b, 1, "")
	rec.Delete(b, 2, 2)
	rec.Delete(b, 2, 1)
	if rec.Len() != 0 {
		t.Errorf("empty edits recorded %d events", rec.Len())
	}
}

func TestRecorderUTF16Columns(t *testing.T) {
	b := buffer.NewBufferFromString("a\U0001F600b")

	tests := []struct {
		enc  Encoding
		want int
	}{
		{EncodingUTF32, 2},
		{EncodingUTF16, 3},
	}
	for _, tt := range tests {
		rec := NewRecorder(tt.enc)
		rec.Insert(b, 2, "x")
		if got := rec.Events()[0].Start.Column; got != tt.want {
			t.Errorf("%v column = %d, want %d", tt.enc, got, tt.want)
		}
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		input   string
		want    Encoding
		wantErr bool
	}{
		{"", EncodingUTF32, false},
		{"utf-32", EncodingUTF32, false},
		{"UTF-16", EncodingUTF16, false},
		{"utf-8", EncodingUTF32, true},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseEncoding(%q) = %v, %v", tt.input, got, err)
		}
	}
}
