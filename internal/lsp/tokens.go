package lsp

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// TokenTracker issues semantic-token requests and matches their responses.
//
// Each request carries a fresh uuid. Only the latest request per document is
// live: responses to older ones are reported as ErrStaleResponse so the
// caller never paints tokens computed for an outdated text.
type TokenTracker struct {
	latest map[string]string // uri -> live request id
	issued map[string]string // request id -> uri, until answered
}

// NewTokenTracker creates an empty tracker.
func NewTokenTracker() *TokenTracker {
	return &TokenTracker{
		latest: make(map[string]string),
		issued: make(map[string]string),
	}
}

// Request returns a full semantic-token request for uri, superseding any
// request still outstanding for it.
func (t *TokenTracker) Request(uri string) Message {
	msg := NewRequest(MethodSemanticTokensFull, protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
	})
	id := msg.IDString()
	t.latest[uri] = id
	t.issued[id] = uri
	return msg
}

// Owns reports whether id belongs to a request issued by the tracker and
// not yet answered.
func (t *TokenTracker) Owns(id string) bool {
	_, ok := t.issued[id]
	return ok
}

// Pending reports whether a live request is outstanding for uri.
func (t *TokenTracker) Pending(uri string) bool {
	_, ok := t.latest[uri]
	return ok
}

// Forget drops the live request for uri, so its eventual response is
// treated as stale.
func (t *TokenTracker) Forget(uri string) {
	delete(t.latest, uri)
}

// Accept matches a response to its request and returns the document it
// belongs to and the raw token data.
//
// Errors:
//   - ErrUnknownResponse when the id was never issued
//   - ErrStaleResponse when a newer request superseded this one
//   - a *ResponseError when the server failed the request; callers check
//     errors.Is(err, ErrContentModified) to reissue it
func (t *TokenTracker) Accept(in Incoming) (uri string, data []uint32, err error) {
	id := in.IDString()
	uri, ok := t.issued[id]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownResponse, id)
	}
	delete(t.issued, id)

	if t.latest[uri] != id {
		return uri, nil, fmt.Errorf("%w: %s", ErrStaleResponse, id)
	}
	delete(t.latest, uri)

	if in.Err != nil {
		return uri, nil, in.Err
	}
	return uri, decodeTokenData(in), nil
}

// decodeTokenData reads result.data. A null result means no tokens.
func decodeTokenData(in Incoming) []uint32 {
	values := in.Result.Get("data").Array()
	data := make([]uint32, len(values))
	for i, v := range values {
		data[i] = uint32(v.Uint())
	}
	return data
}
