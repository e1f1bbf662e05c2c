package rope

import "unicode/utf8"

// Line break code points recognized by the rope.
const (
	LF  = '\n'
	CR  = '\r'
	VT  = '\v'
	FF  = '\f'
	NEL = '\u0085'
	LS  = '\u2028'
	PS  = '\u2029'
)

// IsLineBreak reports whether r terminates a line on its own.
// CR followed by LF is a single break; callers that walk text rune by rune
// must treat the CR of such a pair as part of the following LF.
func IsLineBreak(r rune) bool {
	switch r {
	case LF, CR, VT, FF, NEL, LS, PS:
		return true
	}
	return false
}

// TextSummary holds aggregated metrics for a text span.
// This is the "summary" type for our SumTree, implementing monoid operations.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Chars is the number of Unicode scalar values.
	Chars int

	// UTF16Units is the UTF-16 code unit count (for LSP compatibility).
	UTF16Units int

	// Lines is the number of line breaks. A trailing CR counts as a break;
	// Add removes it again when the next span starts with LF.
	Lines int

	// Flags indicate text properties for fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates all characters are ASCII (< 128).
	FlagASCII TextFlags = 1 << iota

	// FlagHasLineBreaks indicates the text contains line breaks.
	FlagHasLineBreaks

	// FlagHasTabs indicates the text contains tab characters.
	FlagHasTabs

	// FlagStartsWithLF is set when the first byte is '\n'.
	FlagStartsWithLF

	// FlagEndsWithCR is set when the last byte is '\r'.
	FlagEndsWithCR
)

// StartsWithLF reports whether the span begins with a line feed.
func (s TextSummary) StartsWithLF() bool {
	return s.Flags&FlagStartsWithLF != 0
}

// EndsWithCR reports whether the span ends with a carriage return.
func (s TextSummary) EndsWithCR() bool {
	return s.Flags&FlagEndsWithCR != 0
}

// linesBefore returns the number of breaks in the span when it is
// followed by text that starts with LF (followedByLF) or not.
func (s TextSummary) linesBefore(followedByLF bool) int {
	if followedByLF && s.EndsWithCR() {
		return s.Lines - 1
	}
	return s.Lines
}

// Add combines two summaries (monoid operation).
// This is called when concatenating rope sections.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	result := TextSummary{
		Bytes:      s.Bytes + other.Bytes,
		Chars:      s.Chars + other.Chars,
		UTF16Units: s.UTF16Units + other.UTF16Units,
		Lines:      s.linesBefore(other.StartsWithLF()) + other.Lines,
		Flags:      s.Flags & other.Flags & FlagASCII,
	}

	result.Flags |= (s.Flags | other.Flags) & (FlagHasLineBreaks | FlagHasTabs)
	result.Flags |= s.Flags & FlagStartsWithLF
	result.Flags |= other.Flags & FlagEndsWithCR

	return result
}

// Zero returns the identity element for the summary monoid.
func (TextSummary) Zero() TextSummary {
	return TextSummary{Flags: FlagASCII}
}

// IsZero returns true if this is the zero/identity summary.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	if len(s) == 0 {
		return TextSummary{Flags: FlagASCII}
	}

	var sum TextSummary
	sum.Bytes = len(s)
	sum.Flags = FlagASCII

	prevCR := false
	for _, r := range s {
		sum.Chars++
		if r <= 0xFFFF {
			sum.UTF16Units++
		} else {
			sum.UTF16Units += 2 // Surrogate pair
		}

		if r > 127 {
			sum.Flags &^= FlagASCII
		}

		switch {
		case r == LF && prevCR:
			// CR already counted the break
		case IsLineBreak(r):
			sum.Lines++
			sum.Flags |= FlagHasLineBreaks
		case r == '\t':
			sum.Flags |= FlagHasTabs
		}
		prevCR = r == CR
	}

	if s[0] == LF {
		sum.Flags |= FlagStartsWithLF
	}
	if s[len(s)-1] == CR {
		sum.Flags |= FlagEndsWithCR
	}

	return sum
}

// lineStartInString returns the char offset just after the line-th break
// in s. followedByLF describes the text following s. If s holds fewer
// breaks, the char length of s is returned.
func lineStartInString(s string, line int, followedByLF bool) int {
	if line <= 0 {
		return 0
	}
	chars := 0
	for i, r := range s {
		chars++
		if !isBreakEnd(s, i, r, followedByLF) {
			continue
		}
		line--
		if line == 0 {
			return chars
		}
	}
	return chars
}

// breaksBeforeInString counts the breaks in s whose last char lies before
// the char offset idx.
func breaksBeforeInString(s string, idx int, followedByLF bool) int {
	count := 0
	chars := 0
	for i, r := range s {
		if chars >= idx {
			break
		}
		chars++
		if isBreakEnd(s, i, r, followedByLF) {
			count++
		}
	}
	return count
}

// isBreakEnd reports whether r at byte index i of s is the final char of a
// line break.
func isBreakEnd(s string, i int, r rune, followedByLF bool) bool {
	if r != CR {
		return IsLineBreak(r)
	}
	next := i + 1
	if next < len(s) {
		return s[next] != LF
	}
	return !followedByLF
}

// charToByte converts a char offset within s to a byte offset.
func charToByte(s string, chars int, ascii bool) int {
	if chars <= 0 {
		return 0
	}
	if ascii {
		return min(chars, len(s))
	}
	for i := range s {
		if chars == 0 {
			return i
		}
		chars--
	}
	return len(s)
}

// runeAt returns the rune at char offset idx within s.
func runeAt(s string, idx int, ascii bool) (rune, bool) {
	if ascii {
		if idx < 0 || idx >= len(s) {
			return 0, false
		}
		return rune(s[idx]), true
	}
	b := charToByte(s, idx, false)
	if b >= len(s) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s[b:])
	return r, true
}
