package editor

import (
	"fmt"
	"slices"
	"testing"

	"github.com/dshills/nimble/internal/config"
	"github.com/dshills/nimble/internal/lsp"
)

const initResult = `{"capabilities":{
	"semanticTokensProvider":{"legend":{"tokenTypes":["keyword","variable"]},"full":true},
	"textDocumentSync":2,"positionEncoding":"utf-16"},
	"serverInfo":{"name":"clangd"}}`

func response(id, result string) []byte {
	return fmt.Appendf(nil, `{"jsonrpc":"2.0","id":%q,"result":%s}`, id, result)
}

// request returns the last outbound request with method.
func request(t *testing.T, eff Effects, method string) lsp.Message {
	t.Helper()
	for i := len(eff.Outbound) - 1; i >= 0; i-- {
		if msg := eff.Outbound[i].Message; msg.Method == method {
			return msg
		}
	}
	t.Fatalf("no %s in %v", method, eff.Methods())
	return lsp.Message{}
}

// connected returns an editor with main.cpp open on a ready server.
func connected(t *testing.T) (*Editor, *Document, Effects) {
	t.Helper()
	e := newEditor(t)
	doc, eff := e.Open("/src/main.cpp", "int x;")

	init := request(t, eff, lsp.MethodInitialize)
	eff = e.HandleEvent(ServerEvent("cpp", response(init.IDString(), initResult)))
	if e.ServerState("cpp") != ServerReady {
		t.Fatalf("server state = %v", e.ServerState("cpp"))
	}
	return e, doc, eff
}

func TestServerHandshake(t *testing.T) {
	e := newEditor(t)
	doc, eff := e.Open("/src/main.cpp", "int x;")
	init := request(t, eff, lsp.MethodInitialize)

	if len(eff.Start) != 1 || eff.Start[0].ID != "cpp" {
		t.Fatalf("Start = %+v", eff.Start)
	}
	if !slices.Equal(eff.Methods(), []string{lsp.MethodInitialize}) {
		t.Errorf("open methods = %v", eff.Methods())
	}
	if e.ServerState("cpp") != ServerStarting {
		t.Errorf("state = %v", e.ServerState("cpp"))
	}

	other, eff := e.Open("/src/util.h", "void f();")
	if len(eff.Start) != 0 || len(eff.Outbound) != 0 {
		t.Errorf("second open while starting = %+v", eff)
	}

	// Typing before the server answered sends nothing.
	other.InsertText("x")
	if eff := e.HandleEvent(CharEvent('y')); len(eff.Outbound) != 0 {
		t.Errorf("edit before didOpen sent %v", eff.Methods())
	}

	eff = e.HandleEvent(ServerEvent("cpp", response(init.IDString(), initResult)))
	want := []string{
		lsp.MethodInitialized,
		lsp.MethodDidOpen, lsp.MethodSemanticTokensFull,
		lsp.MethodDidOpen, lsp.MethodSemanticTokensFull,
	}
	if !slices.Equal(eff.Methods(), want) {
		t.Errorf("handshake methods = %v, want %v", eff.Methods(), want)
	}
	for _, d := range []*Document{doc, other} {
		if !d.Sync().IsOpen() || d.Encoding() != lsp.EncodingUTF16 {
			t.Errorf("%s: open %v encoding %v", d.Name(), d.Sync().IsOpen(), d.Encoding())
		}
	}
	opened := encoded(t, request(t, eff, lsp.MethodDidOpen))
	if got := opened.Get("params.textDocument.text").String(); got != "xyvoid f();" {
		t.Errorf("didOpen text = %q, want the edited text", got)
	}
}

func TestServerFullSyncOverride(t *testing.T) {
	e := newEditor(t)
	doc, eff := e.Open("/src/main.cpp", "int x;")
	init := request(t, eff, lsp.MethodInitialize)
	e.HandleEvent(ServerEvent("cpp", response(init.IDString(), `{"capabilities":{"textDocumentSync":1}}`)))

	if doc.Sync().Mode() != lsp.SyncFull {
		t.Errorf("mode = %v, want full", doc.Sync().Mode())
	}
	if doc.Encoding() != lsp.EncodingUTF32 {
		t.Errorf("encoding = %v, want the configured utf-32", doc.Encoding())
	}
}

func TestServerTokens(t *testing.T) {
	e, doc, eff := connected(t)

	req := request(t, eff, lsp.MethodSemanticTokensFull)
	eff = e.HandleEvent(ServerEvent("cpp", response(req.IDString(), `{"data":[0,0,3,0,0,0,4,1,1,0]}`)))
	if !eff.Redraw {
		t.Error("accepted tokens should redraw")
	}
	if got := len(doc.Tokens()); got != 2 {
		t.Fatalf("tokens = %d, want 2", got)
	}
	if spans := doc.HighlightSpans(); len(spans) == 0 {
		t.Error("tokens should produce highlight spans")
	}

	eff = e.HandleEvent(CharEvent('z'))
	if !slices.Equal(eff.Methods(), []string{lsp.MethodDidChange, lsp.MethodSemanticTokensFull}) {
		t.Errorf("edit methods = %v", eff.Methods())
	}
}

func TestServerStaleTokens(t *testing.T) {
	e, doc, _ := connected(t)

	first := request(t, e.HandleEvent(CharEvent('a')), lsp.MethodSemanticTokensFull)
	second := request(t, e.HandleEvent(CharEvent('b')), lsp.MethodSemanticTokensFull)

	e.HandleEvent(ServerEvent("cpp", response(first.IDString(), `{"data":[0,0,1,0,0]}`)))
	if len(doc.Tokens()) != 0 {
		t.Error("a superseded response should be dropped")
	}
	e.HandleEvent(ServerEvent("cpp", response(second.IDString(), `{"data":[0,0,1,0,0]}`)))
	if len(doc.Tokens()) != 1 {
		t.Error("the latest response should be applied")
	}
}

func TestServerContentModified(t *testing.T) {
	e, _, eff := connected(t)
	req := request(t, eff, lsp.MethodSemanticTokensFull)

	body := fmt.Appendf(nil, `{"jsonrpc":"2.0","id":%q,"error":{"code":%d,"message":"modified"}}`,
		req.IDString(), lsp.CodeContentModified)
	eff = e.HandleEvent(ServerEvent("cpp", body))
	if !slices.Equal(eff.Methods(), []string{lsp.MethodSemanticTokensFull}) {
		t.Errorf("content modified should re-request tokens, got %v", eff.Methods())
	}
}

func TestServerRequests(t *testing.T) {
	e, _, _ := connected(t)

	eff := e.HandleEvent(ServerEvent("cpp",
		[]byte(`{"jsonrpc":"2.0","id":7,"method":"workspace/configuration","params":{"items":[{},{}]}}`)))
	if len(eff.Outbound) != 1 {
		t.Fatalf("outbound = %d, want 1", len(eff.Outbound))
	}
	m := encoded(t, eff.Outbound[0].Message)
	if m.Get("id").Int() != 7 || m.Get("result").Raw != "[null,null]" {
		t.Errorf("configuration reply = %s", m.Raw)
	}

	eff = e.HandleEvent(ServerEvent("cpp",
		[]byte(`{"jsonrpc":"2.0","id":"p1","method":"window/workDoneProgress/create","params":{"token":"t"}}`)))
	m = encoded(t, eff.Outbound[0].Message)
	if m.Get("id").String() != "p1" || m.Get("result").Type.String() != "Null" {
		t.Errorf("progress reply = %s", m.Raw)
	}

	eff = e.HandleEvent(ServerEvent("cpp",
		[]byte(`{"jsonrpc":"2.0","id":8,"method":"workspace/semanticTokens/refresh"}`)))
	if !slices.Equal(eff.Methods(), []string{lsp.MethodSemanticTokensFull, ""}) {
		t.Errorf("refresh methods = %v", eff.Methods())
	}

	eff = e.HandleEvent(ServerEvent("cpp",
		[]byte(`{"jsonrpc":"2.0","method":"window/logMessage","params":{"type":3,"message":"indexing"}}`)))
	if len(eff.Outbound) != 0 {
		t.Error("notifications need no reply")
	}
	if eff = e.HandleEvent(ServerEvent("cpp", []byte(`not json`))); len(eff.Outbound) != 0 {
		t.Error("malformed messages should be ignored")
	}
}

func TestServerExit(t *testing.T) {
	e, doc, _ := connected(t)

	eff := e.HandleEvent(ServerExitEvent("cpp"))
	if !eff.Redraw || e.ServerState("cpp") != ServerNone || doc.Sync().IsOpen() {
		t.Errorf("after exit: state %v open %v", e.ServerState("cpp"), doc.Sync().IsOpen())
	}
	if eff := e.HandleEvent(CharEvent('x')); len(eff.Outbound) != 0 {
		t.Errorf("edits after exit sent %v", eff.Methods())
	}

	_, eff = e.Open("/src/other.cpp", "")
	if len(eff.Start) != 1 {
		t.Error("opening a file after the server exited should restart it")
	}
}

func TestShutdownAndClose(t *testing.T) {
	e, doc, _ := connected(t)

	eff, err := e.Close(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(eff.Methods(), []string{lsp.MethodDidClose}) {
		t.Errorf("close methods = %v", eff.Methods())
	}

	e.Open("/src/b.cpp", "")
	want := []string{lsp.MethodDidClose, lsp.MethodShutdown, lsp.MethodExit}
	if got := e.Shutdown().Methods(); !slices.Equal(got, want) {
		t.Errorf("shutdown methods = %v, want %v", got, want)
	}
}

func TestUnknownLanguageHasNoServer(t *testing.T) {
	cfg := config.Default()
	e := New(cfg, Options{Width: 40, Height: 10})
	doc, eff := e.Open("/notes/todo.txt", "buy milk")
	if len(eff.Start) != 0 || doc.LanguageID() != "" {
		t.Errorf("plain text: start %v language %q", eff.Start, doc.LanguageID())
	}
}
