package buffer

import (
	"errors"
	"strconv"
	"sync/atomic"
)

// Errors returned by buffer operations.
var (
	// ErrOutOfRange indicates an offset past the end of the buffer.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrInvalidRange indicates a range whose end precedes its start.
	ErrInvalidRange = errors.New("invalid range")
)

// Point is a 0-based line and column. Whether Column counts chars or
// UTF-16 code units depends on the method that produced it.
type Point struct {
	Line   int
	Column int
}

func (p Point) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// RevisionID identifies a buffer state. Every successful edit gets a new
// one; ids are unique across all buffers in the process.
type RevisionID uint64

var lastRevision atomic.Uint64

// NewRevisionID returns an unused revision id.
func NewRevisionID() RevisionID {
	return RevisionID(lastRevision.Add(1))
}
