package rope

import (
	"io"
	"strings"
)

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// This enables cheap snapshots and thread-safe concurrent read access.
//
// All offsets are char offsets (Unicode scalar values), not bytes.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}

	chunks := splitIntoChunks(s)
	return buildFromChunks(chunks)
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	builder := NewBuilder()
	if _, err := builder.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return builder.Build(), nil
}

// buildFromChunks builds a rope from a slice of chunks.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var leaves []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leafChunks := make([]Chunk, end-i)
		copy(leafChunks, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(leafChunks))
	}

	// Build tree bottom-up
	nodes := leaves
	for len(nodes) > 1 {
		var parents []*Node
		for i := 0; i < len(nodes); i += MaxChildren {
			end := min(i+MaxChildren, len(nodes))
			children := make([]*Node, end-i)
			copy(children, nodes[i:end])
			parents = append(parents, newInternalNode(children))
		}
		nodes = parents
	}

	return Rope{root: nodes[0]}
}

// Len returns the total char length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.Len()
}

// LenBytes returns the UTF-8 byte length.
func (r Rope) LenBytes() int {
	return r.Summary().Bytes
}

// LineCount returns the number of lines (line breaks + 1).
func (r Rope) LineCount() int {
	return r.Summary().Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the full text as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}

	var sb strings.Builder
	sb.Grow(r.LenBytes())
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the char range [start, end).
// The range is clamped to the rope.
func (r Rope) Slice(start, end int) string {
	start = max(start, 0)
	end = min(end, r.Len())
	if r.root == nil || start >= end {
		return ""
	}

	var sb strings.Builder
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// CharAt returns the char at the given offset.
// Returns 0 and false if offset is out of range.
func (r Rope) CharAt(offset int) (rune, bool) {
	if r.root == nil || offset < 0 || offset >= r.Len() {
		return 0, false
	}

	node := r.root
	for !node.IsLeaf() {
		idx, childOffset := node.findChildByChar(offset)
		node = node.children[idx]
		offset = childOffset
	}

	for _, chunk := range node.chunks {
		if offset < chunk.Chars() {
			return runeAt(chunk.String(), offset, chunk.isASCII())
		}
		offset -= chunk.Chars()
	}

	return 0, false
}

// Insert inserts text at the given char offset.
// Returns a new rope; original is unchanged.
func (r Rope) Insert(offset int, text string) Rope {
	if len(text) == 0 {
		return r
	}

	if r.root == nil || r.Len() == 0 {
		return FromString(text)
	}

	if offset <= 0 {
		return FromString(text).Concat(r)
	}

	if offset >= r.Len() {
		return r.Concat(FromString(text))
	}

	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// Delete removes text in the char range [start, end).
// Returns a new rope; original is unchanged.
func (r Rope) Delete(start, end int) Rope {
	start = max(start, 0)
	if r.root == nil || start >= end {
		return r
	}

	ropeLen := r.Len()
	if start >= ropeLen {
		return r
	}
	end = min(end, ropeLen)

	if start == 0 && end == ropeLen {
		return New()
	}
	if start == 0 {
		_, right := r.Split(end)
		return right
	}
	if end == ropeLen {
		left, _ := r.Split(start)
		return left
	}

	left, temp := r.Split(start)
	_, right := temp.Split(end - start)

	return left.Concat(right)
}

// Replace replaces text in the char range [start, end) with new text.
// Returns a new rope; original is unchanged.
func (r Rope) Replace(start, end int, text string) Rope {
	if start >= end {
		return r.Insert(start, text)
	}
	if len(text) == 0 {
		return r.Delete(start, end)
	}

	return r.Delete(start, end).Insert(start, text)
}

// Split splits the rope at offset, returning two ropes.
// Left rope contains [0, offset), right contains [offset, end).
func (r Rope) Split(offset int) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}

	leftRoot, rightRoot := r.root.split(offset)
	return Rope{root: leftRoot}, Rope{root: rightRoot}
}

// Concat concatenates two ropes.
// Returns a new rope; originals are unchanged.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}

	return Rope{root: concat(r.root, other.root)}
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// LineToChar returns the char offset of the start of the given line.
// Lines at or past LineCount map to Len.
func (r Rope) LineToChar(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}
	return r.root.lineStart(line, false)
}

// CharToLine returns the line containing the given char offset. An offset
// between the CR and LF of a CRLF pair belongs to the earlier line.
// Offsets are clamped to [0, Len].
func (r Rope) CharToLine(offset int) int {
	if r.root == nil || offset <= 0 {
		return 0
	}
	offset = min(offset, r.Len())
	return r.root.breaksBefore(offset, false)
}

// LineLen returns the char length of the given line including its
// terminator. Out of range lines have length 0.
func (r Rope) LineLen(line int) int {
	if line < 0 || line >= r.LineCount() {
		return 0
	}
	return r.LineToChar(line+1) - r.LineToChar(line)
}

// LineText returns the text of the given line including its terminator.
func (r Rope) LineText(line int) string {
	if line < 0 || line >= r.LineCount() {
		return ""
	}
	return r.Slice(r.LineToChar(line), r.LineToChar(line+1))
}

// CharToUTF16 returns the number of UTF-16 code units before offset.
func (r Rope) CharToUTF16(offset int) int {
	if r.root == nil || offset <= 0 {
		return 0
	}
	if offset >= r.Len() {
		return r.Summary().UTF16Units
	}
	return r.root.utf16Before(offset)
}

// Height returns the height of the rope tree.
// Useful for debugging and testing balance.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the total number of chunks in the rope.
// Useful for debugging.
func (r Rope) ChunkCount() int {
	if r.root == nil {
		return 0
	}
	return countChunks(r.root)
}

func countChunks(n *Node) int {
	if n.IsLeaf() {
		return len(n.chunks)
	}
	count := 0
	for _, child := range n.children {
		count += countChunks(child)
	}
	return count
}

// Equals returns true if two ropes contain the same text.
// Note: This compares content, not structure.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() || r.LenBytes() != other.LenBytes() {
		return false
	}
	return r.String() == other.String()
}

// WriteTo writes the rope's text to w chunk by chunk.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Chunks()
	for it.Next() {
		n, err := io.WriteString(w, it.Chunk().String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
