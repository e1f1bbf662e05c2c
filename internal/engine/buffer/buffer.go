package buffer

import (
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/dshills/nimble/internal/engine/rope"
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer wraps a Rope with additional editor functionality.
// It provides the primary interface for text manipulation.
// All offsets are char offsets. All methods are thread-safe.
//
// Content is stored exactly as given: mixed line endings are preserved and
// the configured LineEnding only decides what a newline insertion writes.
type Buffer struct {
	mu         sync.RWMutex
	rope       rope.Rope
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		rope:       rope.New(),
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content. The line
// ending is detected from the content unless an option overrides it.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	opts = append([]Option{WithDetectedLineEnding(s)}, opts...)
	b := NewBuffer(opts...)
	b.rope = rope.FromString(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	content, err := rope.FromReader(r)
	if err != nil {
		return nil, fmt.Errorf("read buffer content: %w", err)
	}

	sample := content.Slice(0, detectSampleChars)
	opts = append([]Option{WithDetectedLineEnding(sample)}, opts...)
	b := NewBuffer(opts...)
	b.rope = content
	return b, nil
}

// detectSampleChars bounds how much text line ending detection reads.
const detectSampleChars = 64 * 1024

// Read Operations

// Text returns the full buffer content as a string.
// For large buffers, prefer Slice.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// Slice returns the text in the char range [start, end), clamped to the
// buffer.
func (b *Buffer) Slice(start, end int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Slice(start, end)
}

// LenChars returns the total char length of the buffer.
func (b *Buffer) LenChars() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Len()
}

// LenLines returns the number of lines (line breaks + 1).
func (b *Buffer) LenLines() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// CharAt returns the char at offset i.
func (b *Buffer) CharAt(i int) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.CharAt(i)
}

// LineToChar returns the char offset where line starts. Lines at or past
// LenLines map to LenChars.
func (b *Buffer) LineToChar(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineToChar(line)
}

// CharToLine returns the line containing char offset i.
func (b *Buffer) CharToLine(i int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.CharToLine(i)
}

// LineLenChars returns the char length of line including its terminator.
func (b *Buffer) LineLenChars(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineLen(line)
}

// LineContentLen returns the char length of line without its terminator.
func (b *Buffer) LineContentLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineLen(line) - terminatorWidth(b.rope, line)
}

// LineText returns the text of a specific line (without its terminator).
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start := b.rope.LineToChar(line)
	end := b.rope.LineToChar(line+1) - terminatorWidth(b.rope, line)
	return b.rope.Slice(start, end)
}

// PointAt converts a char offset to a line and char column.
func (b *Buffer) PointAt(i int) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i = max(0, min(i, b.rope.Len()))
	line := b.rope.CharToLine(i)
	return Point{Line: line, Column: i - b.rope.LineToChar(line)}
}

// PointUTF16At converts a char offset to a line and UTF-16 column.
func (b *Buffer) PointUTF16At(i int) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i = max(0, min(i, b.rope.Len()))
	line := b.rope.CharToLine(i)
	start := b.rope.LineToChar(line)
	return Point{Line: line, Column: b.rope.CharToUTF16(i) - b.rope.CharToUTF16(start)}
}

// terminatorWidth returns the char width of the break that ends line.
func terminatorWidth(r rope.Rope, line int) int {
	if line < 0 || line+1 >= r.LineCount() {
		return 0
	}
	end := r.LineToChar(line + 1)
	if end >= 2 {
		c1, _ := r.CharAt(end - 2)
		c2, _ := r.CharAt(end - 1)
		if c1 == '\r' && c2 == '\n' {
			return 2
		}
	}
	return 1
}

// Write Operations

// Insert inserts text at the given char offset.
// Returns the char offset just past the inserted text.
func (b *Buffer) Insert(at int, text string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if at < 0 || at > b.rope.Len() {
		return 0, fmt.Errorf("insert at %d of %d: %w", at, b.rope.Len(), ErrOutOfRange)
	}
	if text == "" {
		return at, nil
	}

	b.rope = b.rope.Insert(at, text)
	b.revisionID = NewRevisionID()

	return at + utf8.RuneCountInString(text), nil
}

// Delete removes the chars in [start, end).
func (b *Buffer) Delete(start, end int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(start, end); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if start == end {
		return nil
	}

	b.rope = b.rope.Delete(start, end)
	b.revisionID = NewRevisionID()
	return nil
}

// Replace replaces the chars in [start, end) with text.
// Returns the char offset just past the replacement.
func (b *Buffer) Replace(start, end int, text string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(start, end); err != nil {
		return 0, fmt.Errorf("replace: %w", err)
	}

	b.rope = b.rope.Replace(start, end, text)
	b.revisionID = NewRevisionID()
	return start + utf8.RuneCountInString(text), nil
}

func (b *Buffer) checkRange(start, end int) error {
	if start > end {
		return fmt.Errorf("range [%d, %d): %w", start, end, ErrInvalidRange)
	}
	if start < 0 || end > b.rope.Len() {
		return fmt.Errorf("range [%d, %d) of %d: %w", start, end, b.rope.Len(), ErrOutOfRange)
	}
	return nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.IsEmpty()
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetLineEnding sets the buffer's line ending style.
// This does not convert existing line endings.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// SetTabWidth sets the buffer's tab width.
func (b *Buffer) SetTabWidth(width int) {
	if width <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabWidth = width
}

// Snapshot returns the current immutable content. It is safe to read from
// other goroutines while the buffer keeps changing.
func (b *Buffer) Snapshot() rope.Rope {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope
}
