package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Errors returned by configuration operations.
var (
	// ErrValidation indicates a value outside its allowed range or set.
	ErrValidation = errors.New("validation failed")

	// ErrUnknownLanguage indicates no language is configured for an id.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrUnsupportedFormat indicates a config file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// ParseError is a decode failure in a config file. Line and Column are
// 1-based and zero when the decoder did not report them.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	where := e.Path
	if e.Line > 0 {
		where += ":" + strconv.Itoa(e.Line)
		if e.Column > 0 {
			where += ":" + strconv.Itoa(e.Column)
		}
	}
	return "config " + where + ": " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError names the setting that failed validation. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	// Path is the dotted key, e.g. "scroll.lines_per_roll".
	Path    string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %v: %s", e.Path, e.Value, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
