package highlight

import "sync"

// Registry manages available highlighters by language ID.
type Registry struct {
	mu         sync.RWMutex
	byLanguage map[string]Highlighter
}

// NewRegistry creates a new highlighter registry.
func NewRegistry() *Registry {
	return &Registry{
		byLanguage: make(map[string]Highlighter),
	}
}

// Register adds a highlighter to the registry.
func (r *Registry) Register(h Highlighter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byLanguage[h.Language()] = h
}

// Get returns the highlighter for a language ID.
func (r *Registry) Get(language string) (Highlighter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byLanguage[language]
	return h, ok
}

// DefaultRegistry returns a registry with the built-in highlighters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CppLexer())
	r.Register(RustLexer())
	r.Register(GoLexer())
	return r
}

// CppLexer returns a lexer for C and C++.
func CppLexer() *Lexer {
	h := NewLexer("cpp")

	h.AddMultiLine("/*", "*/", TokenComment, LexerStateBlockComment)

	h.AddRule(`"(?:[^"\\]|\\.)*"`, TokenString)
	h.AddRule(`'(?:[^'\\]|\\.)*'`, TokenString)
	h.AddRule(`//.*$`, TokenComment)
	h.AddRule(`^\s*#\s*\w+`, TokenPreprocessor)
	h.AddRule(`\b0[xX][0-9a-fA-F']+[uUlL]*\b`, TokenNumber)
	h.AddRule(`\b\d[\d']*\.?[\d']*(?:[eE][+-]?\d+)?[fFuUlL]*\b`, TokenNumber)

	h.AddKeywords(TokenKeyword,
		"if", "else", "for", "while", "do", "switch", "case", "default",
		"break", "continue", "return", "goto", "try", "catch", "throw",
		"class", "struct", "union", "enum", "namespace", "template",
		"typename", "using", "typedef", "public", "private", "protected",
		"virtual", "override", "final", "static", "const", "constexpr",
		"inline", "extern", "volatile", "mutable", "explicit", "friend",
		"new", "delete", "this", "operator", "sizeof", "auto", "void",
		"bool", "char", "short", "int", "long", "float", "double",
		"signed", "unsigned", "true", "false", "nullptr", "noexcept",
		"static_cast", "dynamic_cast", "const_cast", "reinterpret_cast")

	return h
}

// RustLexer returns a lexer for Rust.
func RustLexer() *Lexer {
	h := NewLexer("rust")

	h.AddMultiLine("/*", "*/", TokenComment, LexerStateBlockComment)

	h.AddRule(`r#*"[^"]*"#*`, TokenString)
	h.AddRule(`b?"(?:[^"\\]|\\.)*"`, TokenString)
	h.AddRule(`'(?:[^'\\]|\\.)'`, TokenString)
	h.AddRule(`//.*$`, TokenComment)
	h.AddRule(`#!?\[.*?\]`, TokenPreprocessor)
	h.AddRule(`\b0[xX][0-9a-fA-F_]+\b`, TokenNumber)
	h.AddRule(`\b0[oO][0-7_]+\b`, TokenNumber)
	h.AddRule(`\b0[bB][01_]+\b`, TokenNumber)
	h.AddRule(`\b\d[\d_]*\.?[\d_]*(?:[eE][+-]?[\d_]+)?(?:f32|f64|i\d+|u\d+|isize|usize)?\b`, TokenNumber)

	h.AddKeywords(TokenKeyword,
		"if", "else", "match", "for", "while", "loop", "break", "continue",
		"return", "yield", "fn", "let", "mut", "const", "static", "struct",
		"enum", "trait", "impl", "type", "mod", "use", "crate", "super",
		"self", "Self", "pub", "where", "as", "in", "async", "await",
		"dyn", "move", "ref", "unsafe", "extern", "true", "false")

	return h
}

// GoLexer returns a lexer for Go.
func GoLexer() *Lexer {
	h := NewLexer("go")

	h.AddMultiLine("/*", "*/", TokenComment, LexerStateBlockComment)
	h.AddMultiLine("`", "`", TokenString, LexerStateRawString)

	h.AddRule(`"(?:[^"\\]|\\.)*"`, TokenString)
	h.AddRule(`'(?:[^'\\]|\\.)'`, TokenString)
	h.AddRule(`//.*$`, TokenComment)
	h.AddRule(`\b0[xX][0-9a-fA-F_]+\b`, TokenNumber)
	h.AddRule(`\b\d[\d_]*\.?[\d_]*(?:[eE][+-]?\d+)?\b`, TokenNumber)

	h.AddKeywords(TokenKeyword,
		"break", "case", "chan", "const", "continue", "default", "defer",
		"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
		"interface", "map", "package", "range", "return", "select",
		"struct", "switch", "type", "var", "true", "false", "nil", "iota")

	return h
}
