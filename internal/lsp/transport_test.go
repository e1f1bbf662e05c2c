package lsp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// mockPipe creates a bidirectional pipe for testing.
type mockPipe struct {
	reader *io.PipeReader
	writer *io.PipeWriter
}

func newMockPipe() *mockPipe {
	r, w := io.Pipe()
	return &mockPipe{reader: r, writer: w}
}

func (p *mockPipe) Close() error {
	p.reader.Close()
	p.writer.Close()
	return nil
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	if got := buf.String(); got != "Content-Length: 7\r\n\r\n{\"a\":1}" {
		t.Errorf("WriteFrame() wrote %q", got)
	}
}

func TestReadFrame(t *testing.T) {
	input := "Content-Length: 2\r\nContent-Type: application/vscode-jsonrpc; charset=utf-8\r\n\r\n{}" +
		"content-length: 7\r\n\r\n{\"b\":2}"
	r := bufio.NewReader(strings.NewReader(input))

	first, err := ReadFrame(r)
	if err != nil || string(first) != "{}" {
		t.Fatalf("first frame = %q, %v", first, err)
	}
	second, err := ReadFrame(r)
	if err != nil || string(second) != `{"b":2}` {
		t.Fatalf("second frame = %q, %v", second, err)
	}
	if _, err := ReadFrame(r); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReadFrameMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing length", "Content-Type: x\r\n\r\n{}"},
		{"bad length", "Content-Length: abc\r\n\r\n{}"},
		{"negative length", "Content-Length: -1\r\n\r\n{}"},
		{"no colon", "garbage\r\n\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrame(bufio.NewReader(strings.NewReader(tt.input)))
			if !errors.Is(err, ErrMalformedMessage) {
				t.Errorf("ReadFrame() error = %v, want ErrMalformedMessage", err)
			}
		})
	}
}

func TestConnSend(t *testing.T) {
	clientToServer := newMockPipe()
	conn := NewConn(strings.NewReader(""), clientToServer.writer, nil)
	defer conn.Close()

	done := make(chan []byte, 1)
	go func() {
		body, err := ReadFrame(bufio.NewReader(clientToServer.reader))
		if err != nil {
			done <- nil
			return
		}
		done <- body
	}()

	if err := conn.Send(NewNotification("test/notification", map[string]string{"message": "hello"})); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case body := <-done:
		in, err := ParseMessage(body)
		if err != nil {
			t.Fatalf("ParseMessage() error = %v", err)
		}
		if in.Kind != KindNotification || in.Method != "test/notification" {
			t.Errorf("received %v %q", in.Kind, in.Method)
		}
		if got := in.Params.Get("message").String(); got != "hello" {
			t.Errorf("params.message = %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for frame")
	}
}

func TestConnListen(t *testing.T) {
	serverToClient := newMockPipe()
	conn := NewConn(serverToClient.reader, io.Discard, serverToClient)

	out := make(chan []byte, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- conn.Listen(context.Background(), out)
	}()

	go func() {
		_ = WriteFrame(serverToClient.writer, []byte(`{"jsonrpc":"2.0","method":"a"}`))
		_, _ = io.WriteString(serverToClient.writer, "Content-Length: x\r\n\r\n")
		_ = WriteFrame(serverToClient.writer, []byte(`{"jsonrpc":"2.0","method":"b"}`))
		serverToClient.writer.Close()
	}()

	var methods []string
	for i := 0; i < 2; i++ {
		select {
		case body := <-out:
			in, err := ParseMessage(body)
			if err != nil {
				t.Fatalf("ParseMessage() error = %v", err)
			}
			methods = append(methods, in.Method)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for message")
		}
	}
	if strings.Join(methods, ",") != "a,b" {
		t.Errorf("methods = %v, want [a b]", methods)
	}

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Listen() error = %v, want nil at end of stream", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Listen did not return at end of stream")
	}
}

func TestConnClosed(t *testing.T) {
	conn := NewConn(strings.NewReader(""), io.Discard, nil)
	if err := conn.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !conn.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := conn.Send(NewNotification("x", nil)); !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after close error = %v, want ErrClosed", err)
	}
	if err := conn.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
