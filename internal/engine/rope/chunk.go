package rope

import "unicode/utf8"

// Chunk sizes in bytes. Only the last chunk of a rope may be smaller than
// MinChunkSize.
const (
	MinChunkSize = 128
	MaxChunkSize = 256
)

// Chunk is an immutable run of text stored in a leaf, together with its
// precomputed summary.
type Chunk struct {
	data    string
	summary TextSummary
}

// NewChunk creates a chunk from s.
func NewChunk(s string) Chunk {
	return Chunk{data: s, summary: ComputeSummary(s)}
}

// String returns the chunk's text.
func (c Chunk) String() string { return c.data }

// Summary returns the chunk's metrics.
func (c Chunk) Summary() TextSummary { return c.summary }

// Len returns the byte length of the chunk.
func (c Chunk) Len() int { return len(c.data) }

// Chars returns the number of chars in the chunk.
func (c Chunk) Chars() int { return c.summary.Chars }

// IsEmpty reports whether the chunk holds no text.
func (c Chunk) IsEmpty() bool { return len(c.data) == 0 }

// isASCII reports whether char and byte offsets coincide.
func (c Chunk) isASCII() bool {
	return c.summary.Flags&FlagASCII != 0
}

// Split splits the chunk at a byte offset on a rune boundary.
func (c Chunk) Split(offset int) (Chunk, Chunk) {
	switch {
	case offset <= 0:
		return Chunk{}, c
	case offset >= len(c.data):
		return c, Chunk{}
	}
	return NewChunk(c.data[:offset]), NewChunk(c.data[offset:])
}

// SplitAtChar splits the chunk at a char offset.
func (c Chunk) SplitAtChar(chars int) (Chunk, Chunk) {
	return c.Split(charToByte(c.data, chars, c.isASCII()))
}

// splitIntoChunks cuts s into chunks of at most MaxChunkSize bytes.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	chunks := make([]Chunk, 0, len(s)/MinChunkSize+1)
	for len(s) > MaxChunkSize {
		at := chunkBoundary(s, (MinChunkSize+MaxChunkSize)/2)
		chunks = append(chunks, NewChunk(s[:at]))
		s = s[at:]
	}
	return append(chunks, NewChunk(s))
}

// chunkBoundary picks a cut point near target. A cut just after a line
// break is preferred; otherwise the nearest rune start. A CRLF pair is
// never separated.
func chunkBoundary(s string, target int) int {
	const window = MinChunkSize / 4

	for d := 0; d < window; d++ {
		if i := target + d; i < len(s) && breakEndsAt(s, i) {
			return i + 1
		}
		if i := target - 1 - d; i > 0 && breakEndsAt(s, i) {
			return i + 1
		}
	}

	at := target
	for at > 0 && !utf8.RuneStart(s[at]) {
		at--
	}
	if at == 0 {
		at = target
		for at < len(s) && !utf8.RuneStart(s[at]) {
			at++
		}
	}
	if at > 0 && at < len(s) && s[at-1] == '\r' && s[at] == '\n' {
		at++
	}
	return at
}

// breakEndsAt reports whether the byte at i is the last byte of an ASCII
// line break.
func breakEndsAt(s string, i int) bool {
	switch s[i] {
	case '\n', '\v', '\f':
		return true
	case '\r':
		return i+1 >= len(s) || s[i+1] != '\n'
	}
	return false
}
