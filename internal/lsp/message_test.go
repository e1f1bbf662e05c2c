package lsp

import (
	"errors"
	"testing"
)

func TestMessageEncode(t *testing.T) {
	req := NewRequest(MethodShutdown, nil)
	if !req.IsRequest() || req.IsNotification() {
		t.Errorf("NewRequest kind: request %v notification %v", req.IsRequest(), req.IsNotification())
	}
	msg := encode(t, req)
	if msg.Get("jsonrpc").String() != "2.0" || msg.Get("id").String() != req.IDString() {
		t.Errorf("request = %s", msg.Raw)
	}
	if msg.Get("params").Exists() {
		t.Errorf("nil params should be omitted: %s", msg.Raw)
	}

	other := NewRequest(MethodShutdown, nil)
	if other.IDString() == req.IDString() {
		t.Error("request ids should be unique")
	}

	resp := encode(t, NewResponse(int64(7), nil))
	if resp.Get("id").Int() != 7 || resp.Get("result").Type.String() != "Null" || !resp.Get("result").Exists() {
		t.Errorf("response = %s", resp.Raw)
	}
	if resp.Get("method").Exists() {
		t.Errorf("response should not carry a method: %s", resp.Raw)
	}

	raw := encode(t, NewNotification("x", RawJSON(`{"a":[1,2]}`)))
	if raw.Get("params.a.1").Int() != 2 {
		t.Errorf("raw params = %s", raw.Raw)
	}
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   Kind
		method string
		id     string
	}{
		{"notification", `{"jsonrpc":"2.0","method":"window/logMessage","params":{}}`, KindNotification, MethodLogMessage, ""},
		{"request", `{"jsonrpc":"2.0","id":3,"method":"workspace/configuration"}`, KindRequest, MethodWorkspaceConfig, "3"},
		{"response", `{"jsonrpc":"2.0","id":"abc","result":{"data":[]}}`, KindResponse, "", "abc"},
		{"null result", `{"jsonrpc":"2.0","id":"abc","result":null}`, KindResponse, "", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseMessage([]byte(tt.input))
			if err != nil {
				t.Fatalf("ParseMessage() error = %v", err)
			}
			if in.Kind != tt.kind || in.Method != tt.method || in.IDString() != tt.id {
				t.Errorf("got %v %q id %q", in.Kind, in.Method, in.IDString())
			}
		})
	}
}

func TestParseMessageError(t *testing.T) {
	in, err := ParseMessage([]byte(`{"jsonrpc":"2.0","id":"x","error":{"code":-32801,"message":"content modified"}}`))
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}
	if in.Err == nil || in.Err.Code != CodeContentModified {
		t.Fatalf("Err = %+v", in.Err)
	}
	if !errors.Is(in.Err, ErrContentModified) {
		t.Error("errors.Is(ContentModified) = false")
	}
	if errors.Is(in.Err, ErrRequestCancelled) {
		t.Error("content modified should not match cancelled")
	}
}

func TestParseMessageMalformed(t *testing.T) {
	for _, input := range []string{`not json`, `[1,2]`, `{"jsonrpc":"2.0"}`} {
		if _, err := ParseMessage([]byte(input)); !errors.Is(err, ErrMalformedMessage) {
			t.Errorf("ParseMessage(%s) error = %v, want ErrMalformedMessage", input, err)
		}
	}
}

func TestIncomingIDValueRoundTrip(t *testing.T) {
	in, err := ParseMessage([]byte(`{"jsonrpc":"2.0","id":12,"method":"window/workDoneProgress/create"}`))
	if err != nil {
		t.Fatal(err)
	}
	reply := encode(t, NewResponse(in.IDValue(), nil))
	if reply.Get("id").Raw != "12" {
		t.Errorf("reply id = %s, want 12", reply.Get("id").Raw)
	}
}
