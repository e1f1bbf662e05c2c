package cursor

import "fmt"

// Selection represents a range of selected text.
// Anchor is where the selection started; Head is the caret offset.
// When Anchor == Head, this represents a caret with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor int // Where selection started
	Head   int // Caret offset (where typing occurs)
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// IsEmpty returns true if the selection has no extent (just a caret).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Len returns the length of the selection in chars.
func (s Selection) Len() int {
	return s.End() - s.Start()
}

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	return min(s.Anchor, s.Head)
}

// End returns the upper bound of the selection.
func (s Selection) End() int {
	return max(s.Anchor, s.Head)
}

// IsBackward returns true if the selection extends backward (head < anchor).
func (s Selection) IsBackward() bool {
	return s.Head < s.Anchor
}

// Contains returns true if the given offset is within the selection.
// For empty selections (carets), this always returns false.
func (s Selection) Contains(offset int) bool {
	return offset >= s.Start() && offset < s.End()
}

// Intersect clips the selection to [start, end) and returns the overlap
// relative to start. ok is false when nothing overlaps.
func (s Selection) Intersect(start, end int) (from, to int, ok bool) {
	from = max(s.Start(), start)
	to = min(s.End(), end)
	if from >= to {
		return 0, 0, false
	}
	return from - start, to - start, true
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Caret(%d)", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}
