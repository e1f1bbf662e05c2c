package editor

import (
	"cmp"
	"slices"

	"github.com/dshills/nimble/internal/lsp"
	"github.com/dshills/nimble/internal/renderer/highlight"
)

// SetLegend sets the legend that maps the server's token type indices.
func (d *Document) SetLegend(legend *highlight.Legend) {
	if legend == nil {
		legend = highlight.NewLegend(nil)
	}
	d.legend = legend
}

// SetTokens replaces the semantic tokens with a fresh server response.
func (d *Document) SetTokens(data []uint32) {
	d.tokens.Replace(data)
}

// Tokens returns the decoded semantic tokens.
func (d *Document) Tokens() []highlight.Token {
	return d.tokens.Decode()
}

// LenChars returns the document length in chars.
func (d *Document) LenChars() int {
	return d.buf.LenChars()
}

// LineColumnToChar converts a server position to a char offset. Columns
// count chars or UTF-16 units depending on the negotiated encoding and are
// clamped to the line's content.
func (d *Document) LineColumnToChar(line, column int) int {
	if line < 0 {
		return 0
	}
	if line >= d.buf.LenLines() {
		return d.buf.LenChars()
	}
	start := d.buf.LineToChar(line)
	column = max(column, 0)
	if d.recorder.Encoding() != lsp.EncodingUTF16 {
		return start + min(column, d.buf.LineContentLen(line))
	}

	chars, units := 0, 0
	for _, r := range d.buf.LineText(line) {
		if units >= column {
			break
		}
		units++
		if r >= 0x10000 {
			units++
		}
		chars++
	}
	return start + chars
}

// HighlightSpans returns the highlighted char ranges of the visible lines,
// sorted by start. Lexical spans win where they overlap semantic ones.
func (d *Document) HighlightSpans() []highlight.Span {
	d.view.Update(d.buf)
	top, bot := d.view.TopLine(), d.view.BottomLine()
	semantic := d.tokens.Visible(d, top, bot, d.legend)
	lexical := d.lexicalSpans(top, bot)
	return mergeSpans(lexical, semantic)
}

// lexicalSpans runs the lexer over lines [top, bot]. The lexer state at
// the start of each line is cached and scanned forward from the last
// valid line.
func (d *Document) lexicalSpans(top, bot int) []highlight.Span {
	if d.lexer == nil {
		return nil
	}
	if len(d.lexStates) == 0 {
		d.lexStates = append(d.lexStates, highlight.LexerStateNormal)
	}

	var out []highlight.Span
	last := min(bot, d.buf.LenLines()-1)
	for line := min(len(d.lexStates)-1, top); line <= last; line++ {
		spans, next := d.lexer.HighlightLine(d.buf.LineText(line), d.lexStates[line])
		if line+1 == len(d.lexStates) {
			d.lexStates = append(d.lexStates, next)
		}
		if line < top {
			continue
		}
		start := d.buf.LineToChar(line)
		for _, s := range spans {
			out = append(out, highlight.Span{Start: start + s.Start, End: start + s.End, Type: s.Type})
		}
	}
	return out
}

func byStart(a, b highlight.Span) int {
	return cmp.Compare(a.Start, b.Start)
}

// mergeSpans combines lexical spans with the parts of semantic spans they
// do not cover.
func mergeSpans(lexical, semantic []highlight.Span) []highlight.Span {
	slices.SortFunc(lexical, byStart)
	out := slices.Clone(lexical)
	for _, s := range semantic {
		out = append(out, uncovered(s, lexical)...)
	}
	slices.SortStableFunc(out, byStart)
	return out
}

// uncovered returns the pieces of s outside every span of covered, which
// must be sorted by start.
func uncovered(s highlight.Span, covered []highlight.Span) []highlight.Span {
	var out []highlight.Span
	pos := s.Start
	for _, c := range covered {
		if c.End <= pos {
			continue
		}
		if c.Start >= s.End {
			break
		}
		if c.Start > pos {
			out = append(out, highlight.Span{Start: pos, End: c.Start, Type: s.Type})
		}
		pos = max(pos, c.End)
		if pos >= s.End {
			return out
		}
	}
	if pos < s.End {
		out = append(out, highlight.Span{Start: pos, End: s.End, Type: s.Type})
	}
	return out
}
