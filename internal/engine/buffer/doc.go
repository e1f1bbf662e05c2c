// Package buffer provides a thread-safe text buffer built on top of the rope
// data structure. It is the sequence store every document edits through.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Char-indexed insert, delete and slice
//   - Line/char conversion that understands every Unicode line break form
//   - UTF-16 columns for protocol positions
//   - Revision tracking for change management
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
// Out-of-range offsets fail with an error wrapping ErrOutOfRange. Callers
// that clamp their positions never see it.
package buffer
