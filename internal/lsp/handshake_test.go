package lsp

import (
	"testing"

	"github.com/tidwall/gjson"
)

func TestInitializeRequest(t *testing.T) {
	m, err := InitializeRequest(ClientInfo{Name: "nimble", Version: "dev", ProcessID: 42, RootURI: "file:///proj"},
		[]string{"keyword", "type"})
	if err != nil {
		t.Fatalf("InitializeRequest() error = %v", err)
	}
	if !m.IsRequest() {
		t.Fatal("initialize must be a request")
	}

	msg := encode(t, m)
	params := msg.Get("params")
	if params.Get("processId").Int() != 42 || params.Get("rootUri").String() != "file:///proj" {
		t.Errorf("params = %s", params.Raw)
	}
	if params.Get("clientInfo.name").String() != "nimble" {
		t.Errorf("clientInfo = %s", params.Get("clientInfo").Raw)
	}
	st := params.Get("capabilities.textDocument.semanticTokens")
	if !st.Get("requests.full").Bool() {
		t.Error("full requests not announced")
	}
	types := st.Get("tokenTypes").Array()
	if len(types) != 2 || types[0].String() != "keyword" {
		t.Errorf("tokenTypes = %s", st.Get("tokenTypes").Raw)
	}
	if st.Get("formats.0").String() != "relative" {
		t.Errorf("formats = %s", st.Get("formats").Raw)
	}
	if params.Get("capabilities.general.positionEncodings.1").String() != "utf-16" {
		t.Errorf("positionEncodings = %s", params.Get("capabilities.general.positionEncodings").Raw)
	}
}

func TestInitializeRequestNullRoot(t *testing.T) {
	m, err := InitializeRequest(ClientInfo{Name: "nimble"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	root := encode(t, m).Get("params.rootUri")
	if !root.Exists() || root.Type != gjson.Null {
		t.Errorf("rootUri = %s, want null", root.Raw)
	}
}

func TestParseInitializeResult(t *testing.T) {
	tests := []struct {
		name      string
		result    string
		legend    int
		tokens    bool
		sync      SyncMode
		hasSync   bool
		encoding  Encoding
		firstType string
	}{
		{
			name: "clangd",
			result: `{"capabilities":{"textDocumentSync":{"openClose":true,"change":2},
				"semanticTokensProvider":{"full":{"delta":true},"legend":{"tokenTypes":["variable","function"],"tokenModifiers":[]}}},
				"offsetEncoding":"utf-16","serverInfo":{"name":"clangd"}}`,
			legend: 2, tokens: true, sync: SyncIncremental, hasSync: true, encoding: EncodingUTF16, firstType: "variable",
		},
		{
			name: "numeric sync full",
			result: `{"capabilities":{"textDocumentSync":1,"positionEncoding":"utf-32",
				"semanticTokensProvider":{"full":true,"legend":{"tokenTypes":["keyword"]}}}}`,
			legend: 1, tokens: true, sync: SyncFull, hasSync: true, encoding: EncodingUTF32, firstType: "keyword",
		},
		{
			name:   "no tokens",
			result: `{"capabilities":{}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := ParseInitializeResult(gjson.Parse(tt.result))
			if len(sc.TokenTypes) != tt.legend || sc.SemanticTokens != tt.tokens {
				t.Errorf("legend %v tokens %v", sc.TokenTypes, sc.SemanticTokens)
			}
			if tt.legend > 0 && sc.TokenTypes[0] != tt.firstType {
				t.Errorf("first type = %q", sc.TokenTypes[0])
			}
			if sc.Sync != tt.sync || sc.HasSync != tt.hasSync || sc.Encoding != tt.encoding {
				t.Errorf("sync %v (%v) encoding %v", sc.Sync, sc.HasSync, sc.Encoding)
			}
		})
	}
}

func TestHandshakeNotifications(t *testing.T) {
	init := encode(t, InitializedNotification())
	if init.Get("method").String() != MethodInitialized || !init.Get("params").IsObject() {
		t.Errorf("initialized = %s", init.Raw)
	}
	if encode(t, ExitNotification()).Get("id").Exists() {
		t.Error("exit must be a notification")
	}
}
