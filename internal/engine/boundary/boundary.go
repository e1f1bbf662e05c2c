// Package boundary classifies characters and finds the edges of words,
// line breaks and bracket pairs in a character sequence.
//
// Every function is pure: it reads the sequence through the Text interface
// and never mutates it. Positions are char offsets.
package boundary

import (
	"unicode"

	"github.com/dshills/nimble/internal/engine/rope"
)

// Class is the boundary class of a single character.
type Class uint8

const (
	// Word is letters, digits and underscore.
	Word Class = iota
	// Punctuation is everything that is neither Word nor Linebreak.
	Punctuation
	// Linebreak is LF, CR, VT, FF, NEL, LS and PS.
	Linebreak
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case Word:
		return "word"
	case Punctuation:
		return "punctuation"
	case Linebreak:
		return "linebreak"
	default:
		return "unknown"
	}
}

// Text is the read access the classifier needs from a character sequence.
type Text interface {
	LenChars() int
	CharAt(i int) (rune, bool)
	LineToChar(line int) int
}

// Classify returns the boundary class of r.
func Classify(r rune) Class {
	switch {
	case rope.IsLineBreak(r):
		return Linebreak
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return Word
	default:
		return Punctuation
	}
}

// IsBlank reports whether r is horizontal whitespace.
func IsBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// MatchesAt reports whether the chars starting at pos spell s.
func MatchesAt(t Text, pos int, s string) bool {
	if pos < 0 {
		return false
	}
	i := pos
	for _, want := range s {
		got, ok := t.CharAt(i)
		if !ok || got != want {
			return false
		}
		i++
	}
	return true
}

// MatchesBefore reports whether the chars ending just before pos spell s.
func MatchesBefore(t Text, pos int, s string) bool {
	n := 0
	for range s {
		n++
	}
	if pos-n < 0 {
		return false
	}
	return MatchesAt(t, pos-n, s)
}

// IsCRLFAt reports whether a CRLF pair starts at pos.
func IsCRLFAt(t Text, pos int) bool {
	return MatchesAt(t, pos, "\r\n")
}

// IsCRLFBefore reports whether a CRLF pair ends just before pos.
func IsCRLFBefore(t Text, pos int) bool {
	return MatchesBefore(t, pos, "\r\n")
}

// LinebreakWidthBefore returns the char width of the break that ends the
// line preceding line: 2 for CRLF, 1 for any single char break, and 0 for
// the first line or a line not preceded by a break.
func LinebreakWidthBefore(t Text, line int) int {
	if line <= 0 {
		return 0
	}
	start := t.LineToChar(line)
	if IsCRLFBefore(t, start) {
		return 2
	}
	if r, ok := t.CharAt(start - 1); ok && rope.IsLineBreak(r) {
		return 1
	}
	return 0
}

// BreakWidthAt returns the char width of the line break starting at pos, or
// 0 if pos does not start a break.
func BreakWidthAt(t Text, pos int) int {
	if IsCRLFAt(t, pos) {
		return 2
	}
	if r, ok := t.CharAt(pos); ok && rope.IsLineBreak(r) {
		return 1
	}
	return 0
}

// BreakWidthBefore returns the char width of the line break ending just
// before pos, or 0 if none does.
func BreakWidthBefore(t Text, pos int) int {
	if IsCRLFBefore(t, pos) {
		return 2
	}
	if r, ok := t.CharAt(pos - 1); ok && rope.IsLineBreak(r) {
		return 1
	}
	return 0
}
