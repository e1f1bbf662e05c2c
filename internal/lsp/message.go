package lsp

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Method names used by the editor.
const (
	MethodInitialize            = "initialize"
	MethodInitialized           = "initialized"
	MethodShutdown              = "shutdown"
	MethodExit                  = "exit"
	MethodDidOpen               = "textDocument/didOpen"
	MethodDidChange             = "textDocument/didChange"
	MethodDidClose              = "textDocument/didClose"
	MethodSemanticTokensFull    = "textDocument/semanticTokens/full"
	MethodSemanticTokensRefresh = "workspace/semanticTokens/refresh"
	MethodPublishDiagnostics    = "textDocument/publishDiagnostics"
	MethodLogMessage            = "window/logMessage"
	MethodShowMessage           = "window/showMessage"
	MethodWorkDoneProgress      = "window/workDoneProgress/create"
	MethodWorkspaceConfig       = "workspace/configuration"
	MethodRegisterCapability    = "client/registerCapability"
)

const emptyEnvelope = `{"jsonrpc":"2.0"}`

// Message is an outbound JSON-RPC message.
//
// A request has both ID and Method, a notification only Method, and a
// response only ID.
type Message struct {
	ID     any
	Method string
	Params any
	Result any
}

// NewRequest creates a request with a fresh uuid id.
func NewRequest(method string, params any) Message {
	return Message{ID: uuid.NewString(), Method: method, Params: params}
}

// NewNotification creates a notification.
func NewNotification(method string, params any) Message {
	return Message{Method: method, Params: params}
}

// NewResponse creates a response to a server request. A nil result is sent
// as null.
func NewResponse(id any, result any) Message {
	return Message{ID: id, Result: result}
}

// IsRequest reports whether the message expects a response.
func (m Message) IsRequest() bool {
	return m.ID != nil && m.Method != ""
}

// IsNotification reports whether the message is a notification.
func (m Message) IsNotification() bool {
	return m.ID == nil && m.Method != ""
}

// IDString returns the request id as text, or "" for notifications.
func (m Message) IDString() string {
	if m.ID == nil {
		return ""
	}
	return fmt.Sprint(m.ID)
}

// Encode returns the JSON body of the message.
func (m Message) Encode() ([]byte, error) {
	data := []byte(emptyEnvelope)
	var err error

	if m.ID != nil {
		if data, err = sjson.SetBytes(data, "id", m.ID); err != nil {
			return nil, fmt.Errorf("encode id: %w", err)
		}
	}
	if m.Method != "" {
		if data, err = sjson.SetBytes(data, "method", m.Method); err != nil {
			return nil, fmt.Errorf("encode method: %w", err)
		}
		if m.Params != nil {
			if data, err = setValue(data, "params", m.Params); err != nil {
				return nil, fmt.Errorf("encode params: %w", err)
			}
		}
		return data, nil
	}

	if m.Result == nil {
		data, err = sjson.SetRawBytes(data, "result", []byte("null"))
	} else {
		data, err = setValue(data, "result", m.Result)
	}
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return data, nil
}

// setValue sets path to v. Pre-encoded JSON is inserted raw.
func setValue(data []byte, path string, v any) ([]byte, error) {
	switch raw := v.(type) {
	case RawJSON:
		return sjson.SetRawBytes(data, path, raw)
	default:
		return sjson.SetBytes(data, path, v)
	}
}

// RawJSON is a params or result value that is already encoded.
type RawJSON []byte

// Kind classifies inbound messages.
type Kind uint8

const (
	KindResponse Kind = iota
	KindNotification
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindNotification:
		return "notification"
	case KindRequest:
		return "request"
	default:
		return "response"
	}
}

// Incoming is a parsed inbound message.
type Incoming struct {
	Kind   Kind
	ID     gjson.Result
	Method string
	Params gjson.Result
	Result gjson.Result
	Err    *ResponseError
}

// IDString returns the id as text, or "" when absent.
func (in Incoming) IDString() string {
	if !in.ID.Exists() {
		return ""
	}
	return in.ID.String()
}

// IDValue returns the id in a form that Encode writes back unchanged.
func (in Incoming) IDValue() any {
	if in.ID.Type == gjson.Number {
		return in.ID.Int()
	}
	return in.ID.String()
}

// ParseMessage parses one JSON-RPC body.
func ParseMessage(data []byte) (Incoming, error) {
	if !gjson.ValidBytes(data) {
		return Incoming{}, fmt.Errorf("%w: invalid json", ErrMalformedMessage)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Incoming{}, fmt.Errorf("%w: not an object", ErrMalformedMessage)
	}

	in := Incoming{
		ID:     root.Get("id"),
		Method: root.Get("method").String(),
		Params: root.Get("params"),
		Result: root.Get("result"),
	}
	switch {
	case in.Method != "" && in.ID.Exists():
		in.Kind = KindRequest
	case in.Method != "":
		in.Kind = KindNotification
	case in.ID.Exists():
		in.Kind = KindResponse
		if e := root.Get("error"); e.Exists() {
			in.Err = &ResponseError{
				Code:    int(e.Get("code").Int()),
				Message: e.Get("message").String(),
			}
		}
	default:
		return Incoming{}, fmt.Errorf("%w: neither method nor id", ErrMalformedMessage)
	}
	return in, nil
}
