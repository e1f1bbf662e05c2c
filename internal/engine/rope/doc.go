// Package rope provides an immutable rope data structure for efficient text storage and manipulation.
//
// A rope is a tree where leaf nodes contain text chunks and internal nodes
// store aggregated metrics (bytes, chars, UTF-16 units, line breaks). This
// implementation uses a B+ tree variant for better cache locality and
// worst-case performance.
//
// Offsets are char offsets: one char is one Unicode scalar value. Lines are
// separated by any of LF, CR, CRLF, VT, FF, NEL, LS and PS, with CRLF
// counted as a single break even when the CR and LF land in different chunks.
//
// Key features:
//   - O(log n) insertion, deletion, char access and line/char conversion
//   - Immutable operations return new ropes; originals are never modified
//   - Copy-on-write semantics enable cheap snapshots
//   - Thread-safe for concurrent read access
//
// Basic usage:
//
//	r := rope.FromString("hello world")
//	r = r.Insert(5, ",")           // "hello, world"
//	r = r.Delete(0, 7)             // "world"
//	line := r.CharToLine(3)        // 0
package rope
