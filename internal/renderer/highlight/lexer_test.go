package highlight

import (
	"reflect"
	"testing"
)

func TestCppLexer(t *testing.T) {
	h := CppLexer()

	tests := []struct {
		name string
		line string
		want []Span
	}{
		{
			"keyword number comment",
			"int x = 42; // hi",
			[]Span{{0, 3, TokenKeyword}, {8, 10, TokenNumber}, {12, 17, TokenComment}},
		},
		{
			"comment marker inside string",
			`s = "a//b"; // c`,
			[]Span{{4, 10, TokenString}, {12, 16, TokenComment}},
		},
		{
			"preprocessor",
			"#include <vector>",
			[]Span{{0, 8, TokenPreprocessor}},
		},
		{
			"closed block comment",
			"a /* x */ return",
			[]Span{{2, 9, TokenComment}, {10, 16, TokenKeyword}},
		},
		{
			"char columns",
			`"é" int`,
			[]Span{{0, 3, TokenString}, {4, 7, TokenKeyword}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, state := h.HighlightLine(tt.line, LexerStateNormal)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("HighlightLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
			if state != LexerStateNormal {
				t.Errorf("state = %v, want normal", state)
			}
		})
	}
}

func TestBlockCommentAcrossLines(t *testing.T) {
	h := CppLexer()

	spans, state := h.HighlightLine("a /* b", LexerStateNormal)
	if state != LexerStateBlockComment {
		t.Fatalf("state = %v, want block comment", state)
	}
	if !reflect.DeepEqual(spans, []Span{{2, 6, TokenComment}}) {
		t.Errorf("first line spans = %v", spans)
	}

	spans, state = h.HighlightLine("still inside", state)
	if state != LexerStateBlockComment || !reflect.DeepEqual(spans, []Span{{0, 12, TokenComment}}) {
		t.Errorf("middle line = %v, %v", spans, state)
	}

	spans, state = h.HighlightLine("c */ int", state)
	if state != LexerStateNormal {
		t.Errorf("state = %v, want normal", state)
	}
	want := []Span{{0, 4, TokenComment}, {5, 8, TokenKeyword}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("last line spans = %v, want %v", spans, want)
	}
}

func TestLineCommentHidesBlockStart(t *testing.T) {
	h := CppLexer()
	_, state := h.HighlightLine("x // not /* a block", LexerStateNormal)
	if state != LexerStateNormal {
		t.Error("block start inside a line comment should not open a block")
	}
}

func TestRustLexer(t *testing.T) {
	h := RustLexer()
	spans, _ := h.HighlightLine(`#[derive(Debug)] fn main() { let s = "x"; }`, LexerStateNormal)

	var types []TokenType
	for _, sp := range spans {
		types = append(types, sp.Type)
	}
	want := []TokenType{TokenPreprocessor, TokenKeyword, TokenKeyword, TokenString}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("types = %v, want %v", types, want)
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	for _, lang := range []string{"cpp", "rust", "go"} {
		h, ok := r.Get(lang)
		if !ok || h.Language() != lang {
			t.Errorf("Get(%q) = %v, %v", lang, h, ok)
		}
	}
	if _, ok := r.Get("cobol"); ok {
		t.Error("unknown language should not resolve")
	}
}
