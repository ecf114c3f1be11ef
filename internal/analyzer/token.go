package analyzer

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL
	NEWLINE

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	LBRACE   // "{"
	RBRACE   // "}"
	COMMA    // ","
	DOT      // "."
	DOTDOT   // ".."
	ELLIPSIS // "..."
	COLON    // ":"
	PIPE     // "|"
	QUESTION // "?"

	// Operators
	PLUS    // "+"
	MINUS   // "-"
	STAR    // "*"
	SLASH   // "/"
	PERCENT // "%"
	ASSIGN  // "="
	EQ      // "=="
	NEQ     // "!="
	LT      // "<"
	GT      // ">"
	LTEQ    // "<="
	GTEQ    // ">="
	LTLT    // "<<"
	GTGT    // ">>"
	AMP     // "&"
	AMPAMP  // "&&"
	CARET   // "^"
	TILDE   // "~"
	BANG    // "!"
	PIPEPIPE

	// Literals & identifiers
	IDENT
	FIELD       // "_name"
	STATICFIELD // "__name"
	NUMBER
	STRING

	// Keywords
	KwBreak
	KwClass
	KwConstruct
	KwContinue
	KwElse
	KwFalse
	KwFor
	KwForeign
	KwIf
	KwImport
	KwIn
	KwIs
	KwNull
	KwReturn
	KwStatic
	KwSuper
	KwThis
	KwTrue
	KwVar
	KwWhile
)

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Start   int         // byte offset of the first character
	Line    int         // 1-based
	Col     int         // 0-based column within line
}

// End returns the byte offset one past the token.
func (t Token) End() int {
	return t.Start + len(t.Lexeme)
}

// keywords map
var keywords = map[string]TokenType{
	"break":     KwBreak,
	"class":     KwClass,
	"construct": KwConstruct,
	"continue":  KwContinue,
	"else":      KwElse,
	"false":     KwFalse,
	"for":       KwFor,
	"foreign":   KwForeign,
	"if":        KwIf,
	"import":    KwImport,
	"in":        KwIn,
	"is":        KwIs,
	"null":      KwNull,
	"return":    KwReturn,
	"static":    KwStatic,
	"super":     KwSuper,
	"this":      KwThis,
	"true":      KwTrue,
	"var":       KwVar,
	"while":     KwWhile,
}
