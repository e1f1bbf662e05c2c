// Package highlight provides syntax highlighting for the renderer: the
// delta-encoded semantic token stream received from a language server, the
// local corrections that keep it usable between responses, and a lexical
// highlighter for comments, literals and keywords.
package highlight

// TokenType represents the semantic type of a highlighted span.
type TokenType uint16

// Token types. The names follow the language server's standard semantic
// token types; TokenPreprocessor covers lexical preprocessor lines.
const (
	TokenNone TokenType = iota

	TokenComment
	TokenKeyword
	TokenString
	TokenNumber
	TokenRegexp
	TokenOperator
	TokenPreprocessor

	TokenNamespace
	TokenTypeName
	TokenClass
	TokenEnum
	TokenInterface
	TokenStruct
	TokenTypeParameter

	TokenParameter
	TokenVariable
	TokenProperty
	TokenEnumMember
	TokenEvent

	TokenFunction
	TokenMethod
	TokenMacro
	TokenModifier
	TokenLabel

	// Sentinel for iteration
	tokenTypeCount
)

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// IsLiteral returns true for string, number and regexp tokens.
func (t TokenType) IsLiteral() bool {
	return t >= TokenString && t <= TokenRegexp
}

// IsType returns true if this is a type-related token.
func (t TokenType) IsType() bool {
	return t >= TokenTypeName && t <= TokenTypeParameter
}

// IsFunction returns true if this is a function-related token.
func (t TokenType) IsFunction() bool {
	return t >= TokenFunction && t <= TokenMacro
}

// TokenTypeFromString converts a server token type name to a TokenType.
// Unknown names map to TokenNone.
func TokenTypeFromString(name string) TokenType {
	if t, ok := nameToToken[name]; ok {
		return t
	}
	return TokenNone
}

// tokenTypeNames maps token types to their string names.
var tokenTypeNames = []string{
	TokenNone: "none",

	TokenComment:      "comment",
	TokenKeyword:      "keyword",
	TokenString:       "string",
	TokenNumber:       "number",
	TokenRegexp:       "regexp",
	TokenOperator:     "operator",
	TokenPreprocessor: "preprocessor",

	TokenNamespace:     "namespace",
	TokenTypeName:      "type",
	TokenClass:         "class",
	TokenEnum:          "enum",
	TokenInterface:     "interface",
	TokenStruct:        "struct",
	TokenTypeParameter: "typeParameter",

	TokenParameter:  "parameter",
	TokenVariable:   "variable",
	TokenProperty:   "property",
	TokenEnumMember: "enumMember",
	TokenEvent:      "event",

	TokenFunction: "function",
	TokenMethod:   "method",
	TokenMacro:    "macro",
	TokenModifier: "modifier",
	TokenLabel:    "label",
}

// nameToToken maps server token type names to token types.
var nameToToken = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenTypeNames))
	for i, name := range tokenTypeNames {
		if name != "" {
			m[name] = TokenType(i)
		}
	}
	return m
}()

// StandardTokenTypes returns the token type names a client advertises in
// its semantic tokens capability.
func StandardTokenTypes() []string {
	names := make([]string, 0, len(tokenTypeNames)-1)
	for t := TokenComment; t < tokenTypeCount; t++ {
		if t == TokenPreprocessor {
			continue
		}
		names = append(names, t.String())
	}
	return names
}

// Legend maps the token type indices of one server to token types.
type Legend struct {
	types []TokenType
}

// NewLegend builds a legend from the server's tokenTypes list.
func NewLegend(names []string) *Legend {
	types := make([]TokenType, len(names))
	for i, name := range names {
		types[i] = TokenTypeFromString(name)
	}
	return &Legend{types: types}
}

// Type returns the token type for a server type index. Indices the legend
// does not cover map to TokenNone.
func (l *Legend) Type(index uint32) TokenType {
	if l == nil || int(index) >= len(l.types) {
		return TokenNone
	}
	return l.types[index]
}

// Len returns the number of types in the legend.
func (l *Legend) Len() int {
	if l == nil {
		return 0
	}
	return len(l.types)
}
