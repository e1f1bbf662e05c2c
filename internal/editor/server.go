package editor

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/dshills/nimble/internal/config"
	"github.com/dshills/nimble/internal/lsp"
	"github.com/dshills/nimble/internal/renderer/highlight"
)

// ServerState is the handshake progress of a language's server.
type ServerState uint8

const (
	ServerNone ServerState = iota
	ServerStarting
	ServerReady
)

// String returns the state name.
func (s ServerState) String() string {
	switch s {
	case ServerStarting:
		return "starting"
	case ServerReady:
		return "ready"
	default:
		return "none"
	}
}

// server tracks one language server.
type server struct {
	language string
	initID   string
	ready    bool
	caps     lsp.ServerCapabilities
	legend   *highlight.Legend
}

// ServerState returns the state of the server for a language.
func (e *Editor) ServerState(language string) ServerState {
	s, ok := e.servers[language]
	switch {
	case !ok:
		return ServerNone
	case s.ready:
		return ServerReady
	default:
		return ServerStarting
	}
}

// attach opens doc on its language's server, starting the server first
// when it is not running. Documents opened during the handshake are sent
// once it completes.
func (e *Editor) attach(doc *Document, lang config.LanguageConfig, eff *Effects) {
	s, ok := e.servers[lang.ID]
	if !ok {
		msg, err := lsp.InitializeRequest(e.client, highlight.StandardTokenTypes())
		if err != nil {
			e.log.Error("initialize %s: %v", lang.ID, err)
			return
		}
		e.servers[lang.ID] = &server{language: lang.ID, initID: msg.IDString()}
		eff.Start = append(eff.Start, lang)
		eff.send(lang.ID, msg)
		e.log.Info("starting %s for %s", lang.Server, lang.ID)
		return
	}
	if s.ready {
		e.openOn(s, doc, eff)
	}
}

// openOn sends didOpen for doc and asks for its tokens. A server that only
// takes full text, or that chose a column encoding, overrides the
// configured preference.
func (e *Editor) openOn(s *server, doc *Document, eff *Effects) {
	mode, enc := doc.Sync().Mode(), doc.Encoding()
	if s.caps.HasSync && s.caps.Sync == lsp.SyncFull {
		mode = lsp.SyncFull
	}
	if s.caps.HasEncoding {
		enc = s.caps.Encoding
	}
	doc.SetLanguage(mode, enc)
	doc.SetLegend(s.legend)
	eff.send(s.language, doc.DidOpen())
	e.requestTokens(doc, eff)
}

// requestTokens asks doc's server for fresh semantic tokens, superseding
// any request still in flight.
func (e *Editor) requestTokens(doc *Document, eff *Effects) {
	s, ok := e.servers[doc.LanguageID()]
	if !ok || !s.ready || !s.caps.SemanticTokens || !doc.Sync().IsOpen() {
		return
	}
	eff.send(s.language, e.tokens.Request(doc.URI()))
}

// handleServer dispatches one message from a language's server.
func (e *Editor) handleServer(language string, body []byte, eff *Effects) {
	in, err := lsp.ParseMessage(body)
	if err != nil {
		e.log.Warn("%s: %v", language, err)
		return
	}

	switch in.Kind {
	case lsp.KindResponse:
		e.handleResponse(language, in, eff)
	case lsp.KindRequest:
		e.handleRequest(language, in, eff)
	case lsp.KindNotification:
		e.handleNotification(language, in)
	}
}

func (e *Editor) handleResponse(language string, in lsp.Incoming, eff *Effects) {
	s, ok := e.servers[language]
	if ok && !s.ready && in.IDString() == s.initID {
		e.initialized(s, in, eff)
		return
	}
	if !e.tokens.Owns(in.IDString()) {
		e.log.Debug("%s: response %s ignored", language, in.IDString())
		return
	}

	uri, data, err := e.tokens.Accept(in)
	doc, found := e.docs.ByURI(uri)
	switch {
	case errors.Is(err, lsp.ErrContentModified):
		if found {
			e.log.Debug("tokens for %s outdated, requesting again", uri)
			e.requestTokens(doc, eff)
		}
	case errors.Is(err, lsp.ErrStaleResponse):
		e.log.Debug("dropped stale tokens for %s", uri)
	case err != nil:
		e.log.Warn("semantic tokens for %s: %v", uri, err)
	case found:
		doc.SetTokens(data)
		eff.Redraw = true
	}
}

// initialized completes the handshake and opens the documents waiting for
// the server.
func (e *Editor) initialized(s *server, in lsp.Incoming, eff *Effects) {
	if in.Err != nil {
		e.log.Error("%s initialize failed: %v", s.language, in.Err)
		delete(e.servers, s.language)
		return
	}
	s.caps = lsp.ParseInitializeResult(in.Result)
	s.legend = highlight.NewLegend(s.caps.TokenTypes)
	s.ready = true
	e.log.Info("%s ready (%s, %d token types)", s.language, s.caps.Name, len(s.caps.TokenTypes))

	eff.send(s.language, lsp.InitializedNotification())
	for _, doc := range e.docs.Language(s.language) {
		if !doc.IsScratch() && !doc.Sync().IsOpen() {
			e.openOn(s, doc, eff)
		}
	}
}

// handleRequest answers server requests. The editor registers nothing and
// has no settings to share, so every answer is null.
func (e *Editor) handleRequest(language string, in lsp.Incoming, eff *Effects) {
	var result any
	switch in.Method {
	case lsp.MethodWorkspaceConfig:
		items := in.Params.Get("items").Array()
		nulls := make([]any, len(items))
		result = nulls
	case lsp.MethodSemanticTokensRefresh:
		for _, doc := range e.docs.Language(language) {
			e.requestTokens(doc, eff)
		}
	case lsp.MethodWorkDoneProgress, lsp.MethodRegisterCapability:
	default:
		e.log.Debug("%s: unhandled request %s", language, in.Method)
	}
	eff.send(language, lsp.NewResponse(in.IDValue(), result))
}

func (e *Editor) handleNotification(language string, in lsp.Incoming) {
	switch in.Method {
	case lsp.MethodLogMessage, lsp.MethodShowMessage:
		e.serverLog(language, in.Params)
	default:
		e.log.Debug("%s: notification %s", language, in.Method)
	}
}

// serverLog forwards a window/logMessage or window/showMessage at the
// matching level.
func (e *Editor) serverLog(language string, params gjson.Result) {
	msg := params.Get("message").String()
	switch params.Get("type").Int() {
	case 1:
		e.log.Error("%s: %s", language, msg)
	case 2:
		e.log.Warn("%s: %s", language, msg)
	case 3:
		e.log.Info("%s: %s", language, msg)
	default:
		e.log.Debug("%s: %s", language, msg)
	}
}

// serverExited forgets a server. Its documents keep working without
// semantic tokens.
func (e *Editor) serverExited(language string, eff *Effects) {
	if _, ok := e.servers[language]; !ok {
		return
	}
	delete(e.servers, language)
	for _, doc := range e.docs.Language(language) {
		doc.Sync().DidClose()
		e.tokens.Forget(doc.URI())
		doc.SetTokens(nil)
	}
	e.log.Warn("%s server exited", language)
	eff.Redraw = true
}
