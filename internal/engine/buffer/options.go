package buffer

import "strings"

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets what a newline insertion writes.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithLF is WithLineEnding(LineEndingLF).
func WithLF() Option {
	return WithLineEnding(LineEndingLF)
}

// WithTabWidth sets the buffer's tab width. Non-positive widths are ignored.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// WithDetectedLineEnding sets the line ending to the one text uses most.
func WithDetectedLineEnding(text string) Option {
	return WithLineEnding(DetectLineEnding(text))
}

// DetectLineEnding returns the most frequent of CRLF, CR and LF in text.
// Ties go to CRLF, then CR. Text without breaks yields LineEndingLF.
// The other Unicode separators count as breaks but are never written, so
// they do not take part.
func DetectLineEnding(text string) LineEnding {
	crlf := strings.Count(text, "\r\n")
	cr := strings.Count(text, "\r") - crlf
	lf := strings.Count(text, "\n") - crlf

	switch {
	case crlf > 0 && crlf >= cr && crlf >= lf:
		return LineEndingCRLF
	case cr > 0 && cr >= lf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}
