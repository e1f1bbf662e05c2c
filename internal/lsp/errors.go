package lsp

import (
	"errors"
	"fmt"
)

// Standard errors returned by the LSP layer.
var (
	// ErrStaleResponse indicates a response to a request that has been
	// superseded by a newer one.
	ErrStaleResponse = errors.New("stale response")

	// ErrContentModified indicates the server dropped a request because the
	// document changed underneath it.
	ErrContentModified = errors.New("content modified")

	// ErrRequestCancelled indicates the request was cancelled.
	ErrRequestCancelled = errors.New("request cancelled")

	// ErrMalformedMessage indicates an inbound message that is not valid
	// JSON-RPC.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrUnknownResponse indicates a response whose id was never issued.
	ErrUnknownResponse = errors.New("unknown response id")

	// ErrDocumentNotOpen indicates a change for a document not yet opened.
	ErrDocumentNotOpen = errors.New("document not open")

	// ErrClosed indicates use of a closed connection.
	ErrClosed = errors.New("connection closed")
)

// Standard JSON-RPC error codes.
const (
	// JSON-RPC standard errors
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// LSP-specific errors
	CodeServerNotInitialized = -32002
	CodeUnknownErrorCode     = -32001
	CodeRequestCancelled     = -32800
	CodeContentModified      = -32801
	CodeServerCancelled      = -32802
	CodeRequestFailed        = -32803
)

// ResponseError is a JSON-RPC error returned by the server.
type ResponseError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Is matches the sentinel errors that correspond to protocol error codes.
func (e *ResponseError) Is(target error) bool {
	switch target {
	case ErrContentModified:
		return e.Code == CodeContentModified
	case ErrRequestCancelled:
		return e.Code == CodeRequestCancelled || e.Code == CodeServerCancelled
	}
	return false
}

// Unwrap returns the sentinel for the error code, if any.
func (e *ResponseError) Unwrap() error {
	switch e.Code {
	case CodeContentModified:
		return ErrContentModified
	case CodeRequestCancelled, CodeServerCancelled:
		return ErrRequestCancelled
	}
	return nil
}
