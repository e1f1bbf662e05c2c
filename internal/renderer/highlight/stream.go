package highlight

// fieldsPerToken is the width of one entry in a semantic token stream:
// delta line, delta start, length, type index and modifier bits.
const fieldsPerToken = 5

// Token is one decoded semantic token in absolute coordinates.
type Token struct {
	Line      int
	Start     int
	Length    int
	Type      uint32 // index into the server's legend
	Modifiers uint32
}

// End returns the column just past the token.
func (t Token) End() int {
	return t.Start + t.Length
}

// Span is a highlighted char range.
type Span struct {
	Start int
	End   int
	Type  TokenType
}

// Text is the read access needed to map token positions to char offsets.
type Text interface {
	LenChars() int
	// LineColumnToChar converts a token position to a char offset using
	// the column encoding negotiated with the server.
	LineColumnToChar(line, column int) int
}

// Stream holds the delta-encoded semantic tokens of one document.
//
// Between server responses the stream is patched in place by ShiftLines and
// GrowTokenAtInsert so highlighting stays roughly aligned with local edits.
// Every fresh response replaces it wholesale. A Stream is owned by a single
// document and is not safe for concurrent use.
type Stream struct {
	data []uint32
}

// NewStream creates a stream over data. A length that is not a multiple of
// five is malformed and yields an empty stream.
func NewStream(data []uint32) *Stream {
	s := &Stream{}
	s.Replace(data)
	return s
}

// Replace swaps in a fresh server response.
func (s *Stream) Replace(data []uint32) {
	if len(data)%fieldsPerToken != 0 {
		s.data = nil
		return
	}
	s.data = append(s.data[:0], data...)
}

// Clear drops all tokens.
func (s *Stream) Clear() {
	s.data = s.data[:0]
}

// Len returns the number of tokens in the stream.
func (s *Stream) Len() int {
	return len(s.data) / fieldsPerToken
}

// Data returns the raw encoded stream.
func (s *Stream) Data() []uint32 {
	return s.data
}

// Decode returns the tokens in absolute coordinates.
func (s *Stream) Decode() []Token {
	tokens := make([]Token, 0, s.Len())
	s.walk(func(_ int, tok Token) bool {
		tokens = append(tokens, tok)
		return true
	})
	return tokens
}

// walk decodes tokens in order and calls fn with each token's index until
// fn returns false.
func (s *Stream) walk(fn func(i int, tok Token) bool) {
	line, start := 0, 0
	for i := 0; i+fieldsPerToken <= len(s.data); i += fieldsPerToken {
		deltaLine := int(s.data[i])
		deltaStart := int(s.data[i+1])
		line += deltaLine
		if deltaLine != 0 {
			start = deltaStart
		} else {
			start += deltaStart
		}
		tok := Token{
			Line:      line,
			Start:     start,
			Length:    int(s.data[i+2]),
			Type:      s.data[i+3],
			Modifiers: s.data[i+4],
		}
		if !fn(i/fieldsPerToken, tok) {
			return
		}
	}
}

// ShiftLines moves the tokens after lineBefore by the line delta of an
// edit that moved the caret from lineBefore to lineAfter. Only the first
// token past lineBefore is patched; the relative encoding carries the shift
// to every later token. A shrinking delta saturates at zero. It reports
// whether a token was patched.
func (s *Stream) ShiftLines(lineBefore, lineAfter int) bool {
	delta := lineAfter - lineBefore
	if delta == 0 {
		return false
	}

	patched := false
	s.walk(func(i int, tok Token) bool {
		if tok.Line <= lineBefore {
			return true
		}
		field := &s.data[i*fieldsPerToken]
		if delta > 0 {
			*field += uint32(delta)
		} else {
			*field = uint32(max(0, int(*field)+delta))
		}
		patched = true
		return false
	})
	return patched
}

// GrowTokenAtInsert extends by one the first token on line that ends
// exactly at column, so a char typed at the end of a token takes its type
// until the server answers. It reports whether a token grew.
func (s *Stream) GrowTokenAtInsert(line, column int) bool {
	grown := false
	s.walk(func(i int, tok Token) bool {
		if tok.Line > line {
			return false
		}
		if tok.Line == line && tok.End() == column {
			s.data[i*fieldsPerToken+2]++
			grown = true
			return false
		}
		return true
	})
	return grown
}

// Visible returns the char spans of the tokens on lines [top, bot].
// Tokens whose type the legend does not know are skipped.
func (s *Stream) Visible(t Text, top, bot int, legend *Legend) []Span {
	var spans []Span
	n := t.LenChars()
	s.walk(func(_ int, tok Token) bool {
		if tok.Line > bot {
			return false
		}
		if tok.Line < top {
			return true
		}
		typ := legend.Type(tok.Type)
		if typ == TokenNone {
			return true
		}
		start := min(t.LineColumnToChar(tok.Line, tok.Start), n)
		end := min(t.LineColumnToChar(tok.Line, tok.End()), n)
		if end > start {
			spans = append(spans, Span{Start: start, End: end, Type: typ})
		}
		return true
	})
	return spans
}
