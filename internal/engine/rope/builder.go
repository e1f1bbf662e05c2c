package rope

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// Builder assembles a rope from streamed writes. Writes may split runes or
// CRLF pairs arbitrarily; chunk boundaries never do.
type Builder struct {
	chunks  []Chunk
	pending strings.Builder
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{chunks: make([]Chunk, 0, 64)}
}

// WriteString appends s.
func (b *Builder) WriteString(s string) {
	b.pending.WriteString(s)
	if b.pending.Len() >= 2*MaxChunkSize {
		b.flush(false)
	}
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.WriteString(string(p))
	return len(p), nil
}

// ReadFrom implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 64*1024)
	var total int64
	for {
		n, err := r.Read(buf)
		b.WriteString(string(buf[:n]))
		total += int64(n)
		switch {
		case errors.Is(err, io.EOF):
			return total, nil
		case err != nil:
			return total, err
		}
	}
}

// Build returns the rope and leaves the builder empty.
func (b *Builder) Build() Rope {
	b.flush(true)
	chunks := b.chunks
	b.chunks = make([]Chunk, 0, 64)
	if len(chunks) == 0 {
		return New()
	}
	return buildFromChunks(chunks)
}

// flush moves pending text into chunks. Unless final is set, a trailing
// partial rune or a trailing CR waits for the next write.
func (b *Builder) flush(final bool) {
	s := b.pending.String()
	if s == "" {
		return
	}
	keep := 0
	if !final {
		keep = heldBack(s)
	}
	b.pending.Reset()
	b.pending.WriteString(s[len(s)-keep:])
	b.chunks = append(b.chunks, splitIntoChunks(s[:len(s)-keep])...)
}

// heldBack returns how many trailing bytes of s cannot be chunked yet.
func heldBack(s string) int {
	start := len(s) - 1
	for start > 0 && len(s)-start < utf8.UTFMax && !utf8.RuneStart(s[start]) {
		start--
	}
	if !utf8.FullRuneInString(s[start:]) {
		return len(s) - start
	}
	if s[len(s)-1] == '\r' {
		return 1
	}
	return 0
}
