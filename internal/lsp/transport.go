package lsp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dshills/nimble/internal/logging"
)

// Conn frames JSON-RPC messages over a server's stdio using the LSP base
// protocol's Content-Length headers.
//
// Send is safe for concurrent use. Reading is done by a single Listen loop.
type Conn struct {
	reader *bufio.Reader
	writer io.Writer
	closer io.Closer
	log    *logging.Logger

	mu     sync.Mutex
	closed atomic.Bool
}

// NewConn creates a connection reading server output from r and writing
// client messages to w. c, if non-nil, is closed by Close.
func NewConn(r io.Reader, w io.Writer, c io.Closer) *Conn {
	return &Conn{
		reader: bufio.NewReaderSize(r, 64*1024),
		writer: w,
		closer: c,
		log:    logging.Null(),
	}
}

// SetLogger sets the logger for framing errors.
func (c *Conn) SetLogger(l *logging.Logger) {
	c.log = l.WithComponent("lsp.conn")
}

// Send encodes and writes one message.
func (c *Conn) Send(msg Message) error {
	if c.closed.Load() {
		return ErrClosed
	}
	body, err := msg.Encode()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return WriteFrame(c.writer, body)
}

// Listen reads messages until the stream ends, the context is cancelled or
// the connection is closed, delivering each body on out. Malformed frames
// are logged and skipped. It returns nil on a clean end of stream.
func (c *Conn) Listen(ctx context.Context, out chan<- []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		body, err := ReadFrame(c.reader)
		if err != nil {
			if c.closed.Load() || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			if errors.Is(err, ErrMalformedMessage) {
				c.log.Warn("skipping frame: %v", err)
				continue
			}
			return err
		}

		select {
		case out <- body:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close closes the connection and releases resources.
func (c *Conn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// IsClosed returns true if the connection has been closed.
func (c *Conn) IsClosed() bool {
	return c.closed.Load()
}

// WriteFrame writes body with its Content-Length header.
func WriteFrame(w io.Writer, body []byte) error {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// ReadFrame reads one framed message body.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break // End of headers
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: bad header %q", ErrMalformedMessage, line)
		}
		// Content-Type and other headers are ignored.
		if strings.EqualFold(strings.TrimSpace(name), "content-length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad content length %q", ErrMalformedMessage, value)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("%w: missing Content-Length header", ErrMalformedMessage)
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
