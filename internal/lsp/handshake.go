package lsp

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ClientInfo identifies the editor to the server.
type ClientInfo struct {
	Name      string
	Version   string
	ProcessID int
	RootURI   string
}

// InitializeRequest returns the initialize request announcing support for
// full semantic tokens of the given types and both column encodings.
func InitializeRequest(info ClientInfo, tokenTypes []string) (Message, error) {
	params := []byte(`{}`)
	sets := []struct {
		path  string
		value any
	}{
		{"processId", info.ProcessID},
		{"clientInfo.name", info.Name},
		{"clientInfo.version", info.Version},
		{"rootUri", info.RootURI},
		{"capabilities.general.positionEncodings", []string{EncodingUTF32.String(), EncodingUTF16.String()}},
		{"capabilities.offsetEncoding", []string{EncodingUTF32.String(), EncodingUTF16.String()}},
		{"capabilities.textDocument.synchronization.dynamicRegistration", false},
		{"capabilities.textDocument.synchronization.didSave", false},
		{"capabilities.textDocument.semanticTokens.requests.full", true},
		{"capabilities.textDocument.semanticTokens.tokenTypes", tokenTypes},
		{"capabilities.textDocument.semanticTokens.tokenModifiers", []string{}},
		{"capabilities.textDocument.semanticTokens.formats", []string{"relative"}},
		{"capabilities.textDocument.semanticTokens.overlappingTokenSupport", false},
		{"capabilities.textDocument.semanticTokens.multilineTokenSupport", false},
	}
	var err error
	for _, s := range sets {
		if params, err = sjson.SetBytes(params, s.path, s.value); err != nil {
			return Message{}, fmt.Errorf("initialize params %s: %w", s.path, err)
		}
	}
	if info.RootURI == "" {
		if params, err = sjson.SetRawBytes(params, "rootUri", []byte("null")); err != nil {
			return Message{}, fmt.Errorf("initialize params rootUri: %w", err)
		}
	}
	return NewRequest(MethodInitialize, RawJSON(params)), nil
}

// InitializedNotification returns the notification that completes the
// handshake.
func InitializedNotification() Message {
	return NewNotification(MethodInitialized, RawJSON(`{}`))
}

// ShutdownRequest returns the shutdown request.
func ShutdownRequest() Message {
	return NewRequest(MethodShutdown, nil)
}

// ExitNotification returns the exit notification.
func ExitNotification() Message {
	return NewNotification(MethodExit, nil)
}

// ServerCapabilities is the part of an initialize result the editor uses.
type ServerCapabilities struct {
	Name           string
	TokenTypes     []string // semantic token legend, in index order
	SemanticTokens bool     // full document requests are supported
	Sync           SyncMode
	HasSync        bool // the server announced a sync kind
	Encoding       Encoding
	HasEncoding    bool // the server announced a position encoding
}

// ParseInitializeResult extracts capabilities from an initialize result.
func ParseInitializeResult(result gjson.Result) ServerCapabilities {
	caps := result.Get("capabilities")
	sc := ServerCapabilities{
		Name: result.Get("serverInfo.name").String(),
	}

	tokens := caps.Get("semanticTokensProvider")
	if tokens.Exists() {
		for _, name := range tokens.Get("legend.tokenTypes").Array() {
			sc.TokenTypes = append(sc.TokenTypes, name.String())
		}
		full := tokens.Get("full")
		sc.SemanticTokens = full.IsObject() || full.Bool()
	}

	// textDocumentSync is either a kind or an options object.
	sync := caps.Get("textDocumentSync")
	if sync.IsObject() {
		sync = sync.Get("change")
	}
	if sync.Type == gjson.Number && sync.Int() > 0 {
		sc.HasSync = true
		if sync.Int() == 1 {
			sc.Sync = SyncFull
		}
	}

	enc := caps.Get("positionEncoding")
	if !enc.Exists() {
		enc = result.Get("offsetEncoding")
	}
	if e, err := ParseEncoding(enc.String()); err == nil && enc.Exists() {
		sc.Encoding = e
		sc.HasEncoding = true
	}
	return sc
}
