package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// LexerState represents the lexer's state for continuation across lines.
type LexerState uint32

// Lexer states.
const (
	LexerStateNormal LexerState = iota
	LexerStateBlockComment
	LexerStateRawString
)

// Highlighter tokenizes lines lexically.
type Highlighter interface {
	// HighlightLine tokenizes a single line without its terminator.
	// prevState is the lexer state at the end of the previous line.
	// Span columns are chars relative to the line start.
	HighlightLine(line string, prevState LexerState) ([]Span, LexerState)

	// Language returns the language ID this highlighter supports.
	Language() string
}

// Rule defines a highlighting rule.
type Rule struct {
	// Pattern is the regex pattern to match.
	Pattern *regexp.Regexp

	// TokenType is the type to assign to matches.
	TokenType TokenType

	// anchored rules match only at the line start.
	anchored bool
}

// multiLineRule defines rules for multi-line constructs.
type multiLineRule struct {
	start     string
	end       string
	tokenType TokenType
	state     LexerState
}

// Lexer is a regex-based highlighter for comments, literals, preprocessor
// lines and keywords. Identifiers are left to the semantic stream.
type Lexer struct {
	language  string
	rules     []Rule
	keywords  map[string]TokenType
	multiLine []multiLineRule
}

// NewLexer creates a lexer with no rules.
func NewLexer(language string) *Lexer {
	return &Lexer{
		language: language,
		keywords: make(map[string]TokenType),
	}
}

// AddRule adds a highlighting rule. Rules added first win on overlap.
func (h *Lexer) AddRule(pattern string, tokenType TokenType) *Lexer {
	h.rules = append(h.rules, Rule{
		Pattern:   regexp.MustCompile(pattern),
		TokenType: tokenType,
		anchored:  strings.HasPrefix(pattern, "^"),
	})
	return h
}

// AddKeywords adds keywords with a specific token type.
func (h *Lexer) AddKeywords(tokenType TokenType, keywords ...string) *Lexer {
	for _, kw := range keywords {
		h.keywords[kw] = tokenType
	}
	return h
}

// AddMultiLine adds a construct that may span lines.
func (h *Lexer) AddMultiLine(start, end string, tokenType TokenType, state LexerState) *Lexer {
	h.multiLine = append(h.multiLine, multiLineRule{
		start:     start,
		end:       end,
		tokenType: tokenType,
		state:     state,
	})
	return h
}

// Language returns the language ID.
func (h *Lexer) Language() string {
	return h.language
}

// HighlightLine tokenizes a single line.
func (h *Lexer) HighlightLine(line string, prevState LexerState) ([]Span, LexerState) {
	var spans []byteSpan
	state := prevState
	offset := 0

	if state != LexerStateNormal {
		rule, ok := h.ruleForState(state)
		if !ok {
			state = LexerStateNormal
		} else {
			idx := strings.Index(line, rule.end)
			if idx < 0 {
				return toChars(line, []byteSpan{{0, len(line), rule.tokenType}}), state
			}
			offset = idx + len(rule.end)
			spans = append(spans, byteSpan{0, offset, rule.tokenType})
			state = LexerStateNormal
		}
	}

	rest, state := h.highlightNormal(line[offset:])
	for _, sp := range rest {
		spans = append(spans, byteSpan{sp.start + offset, sp.end + offset, sp.typ})
	}
	return toChars(line, spans), state
}

// byteSpan is a span in byte columns, converted to chars before returning.
type byteSpan struct {
	start, end int
	typ        TokenType
}

// highlightNormal highlights a line that starts in normal state.
func (h *Lexer) highlightNormal(line string) ([]byteSpan, LexerState) {
	var spans []byteSpan
	covered := make([]bool, len(line))
	state := LexerStateNormal

	for _, rule := range h.rules {
		from := 0
		for from <= len(line) {
			match := rule.Pattern.FindStringIndex(line[from:])
			if match == nil {
				break
			}
			start, end := match[0]+from, match[1]+from
			if end == start || isCovered(covered, start, end) {
				if rule.anchored {
					break
				}
				// Retry past the start so a match hidden by an earlier
				// token (a comment marker inside a string) is found.
				_, size := utf8.DecodeRuneInString(line[start:])
				from = start + max(size, 1)
				continue
			}
			spans = append(spans, byteSpan{start, end, rule.TokenType})
			markCovered(covered, start, end)
			if rule.anchored {
				break
			}
			from = end
		}
	}

	// An unterminated multi-line construct runs to the end of the line.
	for _, rule := range h.multiLine {
		from := 0
		for {
			idx := strings.Index(line[from:], rule.start)
			if idx < 0 {
				break
			}
			idx += from
			if isCovered(covered, idx, idx+len(rule.start)) {
				from = idx + len(rule.start)
				continue
			}
			endPos := len(line)
			endIdx := strings.Index(line[idx+len(rule.start):], rule.end)
			if endIdx >= 0 {
				endPos = idx + len(rule.start) + endIdx + len(rule.end)
			}
			spans = append(clip(spans, idx, endPos), byteSpan{idx, endPos, rule.tokenType})
			markCovered(covered, idx, endPos)
			if endIdx < 0 {
				state = rule.state
				break
			}
			from = endPos
		}
	}

	spans = append(spans, h.findKeywords(line, covered)...)

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].start < spans[j].start
	})
	return spans, state
}

// ruleForState returns the multi-line rule that produced state.
func (h *Lexer) ruleForState(state LexerState) (multiLineRule, bool) {
	for _, rule := range h.multiLine {
		if rule.state == state {
			return rule, true
		}
	}
	return multiLineRule{}, false
}

// findKeywords finds identifiers in uncovered text that are keywords.
func (h *Lexer) findKeywords(line string, covered []bool) []byteSpan {
	var spans []byteSpan

	i := 0
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		if covered[i] || !(unicode.IsLetter(r) || r == '_') {
			i += size
			continue
		}

		start := i
		for i < len(line) {
			r, size = utf8.DecodeRuneInString(line[i:])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			i += size
		}
		if isCovered(covered, start, i) {
			continue
		}
		if typ, ok := h.keywords[line[start:i]]; ok {
			spans = append(spans, byteSpan{start, i, typ})
		}
	}

	return spans
}

// clip removes the parts of spans that fall inside [start, end).
func clip(spans []byteSpan, start, end int) []byteSpan {
	out := spans[:0]
	for _, sp := range spans {
		switch {
		case sp.end <= start || sp.start >= end:
		case sp.start >= start && sp.end <= end:
			continue
		case sp.start < start:
			sp.end = start
		default:
			sp.start = end
		}
		out = append(out, sp)
	}
	return out
}

// isCovered checks if a range is already covered.
func isCovered(covered []bool, start, end int) bool {
	for i := max(start, 0); i < end && i < len(covered); i++ {
		if covered[i] {
			return true
		}
	}
	return false
}

// markCovered marks a range as covered.
func markCovered(covered []bool, start, end int) {
	for i := max(start, 0); i < end && i < len(covered); i++ {
		covered[i] = true
	}
}

// toChars converts byte spans to char spans.
func toChars(line string, spans []byteSpan) []Span {
	if len(spans) == 0 {
		return nil
	}
	out := make([]Span, len(spans))
	for i, sp := range spans {
		out[i] = Span{
			Start: utf8.RuneCountInString(line[:sp.start]),
			End:   utf8.RuneCountInString(line[:sp.end]),
			Type:  sp.typ,
		}
	}
	return out
}
