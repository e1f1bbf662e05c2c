// Package lsp translates editor edits into Language Server Protocol
// traffic and reads the server's answers.
//
// The package never blocks on a server. Every operation returns the
// message to send, and server responses come back in through ParseMessage.
// The editor owns the conversation and the program's main loop owns the
// transport.
//
// # Architecture
//
//   - Recorder: turns char-offset edits into ordered ChangeEvents, with
//     positions computed against the document before each mutation
//   - DocumentSync: per-document didOpen/didChange/didClose with version
//     numbering and incremental or full synchronization
//   - TokenTracker: semantic-token requests keyed by uuid correlation ids,
//     accepting only the latest response per document
//   - Message / ParseMessage: JSON-RPC envelopes written with sjson and
//     read with gjson
//   - Conn: Content-Length framing over a server's stdio
//
// # Edit translation
//
// Each event of a batch is expressed in the coordinates of the document as
// it stood just before that event, so the server can apply the batch in
// order:
//
//	rec := lsp.NewRecorder(lsp.EncodingUTF32)
//	rec.Delete(buf, start, end)
//	buf.Delete(start, end)
//	rec.Insert(buf, start, "x")
//	buf.Insert(start, "x")
//
//	msg, ok := sync.DidChange(rec.Take(), buf.Text)
//
// # Column encodings
//
// Columns count chars (UTF-32 code units) unless the language is configured
// for UTF-16, in which case characters outside the Basic Multilingual Plane
// count twice.
package lsp
