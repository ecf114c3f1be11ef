package analyzer

import (
	"strconv"
	"strings"

	"github.com/standardbeagle/wrensense/internal/types"
)

// Lexer scans Wren source text into tokens. It is deliberately forgiving:
// malformed input produces ILLEGAL tokens and diagnostics, never a failure,
// so downstream symbol extraction can keep going on partially typed code.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int // 1-based
	col   int // 0-based column within line

	// precise token start position
	tokStartLine int
	tokStartCol  int

	tokens []Token
	diags  []types.Diagnostic
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
	}
}

// Scan tokenizes the whole source and returns the token stream, always
// terminated by an EOF token, together with any lexical diagnostics.
func (l *Lexer) Scan() ([]Token, []types.Diagnostic) {
	for !l.isAtEnd() {
		l.start = l.cur
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.scanToken()
	}
	l.start = l.cur
	l.tokStartLine = l.line
	l.tokStartCol = l.col
	l.add(EOF, nil)
	return l.tokens, l.diags
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekN(n int) byte {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0
	}
	return l.src[idx]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.src[l.cur] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) add(tt TokenType, lit interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Start:   l.start,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	})
}

func (l *Lexer) errorf(span types.Span, msg string) {
	l.diags = append(l.diags, types.Diagnostic{
		Severity: types.SeverityError,
		Code:     "lex-error",
		Message:  msg,
		Span:     span,
	})
}

func (l *Lexer) scanToken() {
	ch := l.advance()
	switch ch {
	case ' ', '\t', '\r':
		// skip
	case '\n':
		l.add(NEWLINE, nil)
	case '(':
		l.add(LPAREN, nil)
	case ')':
		l.add(RPAREN, nil)
	case '[':
		l.add(LBRACKET, nil)
	case ']':
		l.add(RBRACKET, nil)
	case '{':
		l.add(LBRACE, nil)
	case '}':
		l.add(RBRACE, nil)
	case ',':
		l.add(COMMA, nil)
	case ':':
		l.add(COLON, nil)
	case '?':
		l.add(QUESTION, nil)
	case '+':
		l.add(PLUS, nil)
	case '-':
		l.add(MINUS, nil)
	case '*':
		l.add(STAR, nil)
	case '%':
		l.add(PERCENT, nil)
	case '^':
		l.add(CARET, nil)
	case '~':
		l.add(TILDE, nil)
	case '.':
		if l.match('.') {
			if l.match('.') {
				l.add(ELLIPSIS, nil)
			} else {
				l.add(DOTDOT, nil)
			}
		} else {
			l.add(DOT, nil)
		}
	case '=':
		if l.match('=') {
			l.add(EQ, nil)
		} else {
			l.add(ASSIGN, nil)
		}
	case '!':
		if l.match('=') {
			l.add(NEQ, nil)
		} else {
			l.add(BANG, nil)
		}
	case '<':
		if l.match('=') {
			l.add(LTEQ, nil)
		} else if l.match('<') {
			l.add(LTLT, nil)
		} else {
			l.add(LT, nil)
		}
	case '>':
		if l.match('=') {
			l.add(GTEQ, nil)
		} else if l.match('>') {
			l.add(GTGT, nil)
		} else {
			l.add(GT, nil)
		}
	case '&':
		if l.match('&') {
			l.add(AMPAMP, nil)
		} else {
			l.add(AMP, nil)
		}
	case '|':
		if l.match('|') {
			l.add(PIPEPIPE, nil)
		} else {
			l.add(PIPE, nil)
		}
	case '/':
		if l.match('/') {
			l.skipLine()
		} else if l.match('*') {
			l.skipBlockComment()
		} else {
			l.add(SLASH, nil)
		}
	case '#':
		// Attribute line. Attributes carry metadata the index does not
		// consume; skip to end of line.
		l.skipLine()
	case '"':
		l.scanString()
	default:
		switch {
		case isDigit(ch):
			l.scanNumber()
		case isIdentStart(ch):
			l.scanIdent()
		default:
			l.add(ILLEGAL, nil)
			l.errorf(types.NewSpan(l.start, l.cur-l.start), "unexpected character "+strconv.QuoteRune(rune(ch)))
		}
	}
}

func (l *Lexer) skipLine() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) skipBlockComment() {
	depth := 1
	for !l.isAtEnd() && depth > 0 {
		if l.peek() == '/' && l.peekN(1) == '*' {
			l.advance()
			l.advance()
			depth++
			continue
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advance()
			l.advance()
			depth--
			continue
		}
		l.advance()
	}
	if depth > 0 {
		l.errorf(types.NewSpan(l.start, l.cur-l.start), "unterminated block comment")
	}
}

// scanString handles double-quoted strings including %( ... ) interpolation,
// whose contents are skipped as opaque text here. The index only needs the
// literal's span and a best-effort decoded value.
func (l *Lexer) scanString() {
	var sb strings.Builder
	for !l.isAtEnd() {
		ch := l.advance()
		switch ch {
		case '"':
			l.add(STRING, sb.String())
			return
		case '\\':
			if l.isAtEnd() {
				break
			}
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"', '\\', '%':
				sb.WriteByte(esc)
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte(esc)
			}
		case '%':
			if l.peek() == '(' {
				// Interpolated expression: skip to the matching ')'.
				l.advance()
				depth := 1
				for !l.isAtEnd() && depth > 0 {
					c := l.advance()
					if c == '(' {
						depth++
					} else if c == ')' {
						depth--
					}
				}
				sb.WriteString("%()")
			} else {
				sb.WriteByte('%')
			}
		case '\n':
			l.errorf(types.NewSpan(l.start, l.cur-l.start), "unterminated string")
			l.add(STRING, sb.String())
			return
		default:
			sb.WriteByte(ch)
		}
	}
	l.errorf(types.NewSpan(l.start, l.cur-l.start), "unterminated string")
	l.add(STRING, sb.String())
}

func (l *Lexer) scanNumber() {
	// Hex literal
	if l.src[l.start] == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		v, err := strconv.ParseUint(l.src[l.start+2:l.cur], 16, 64)
		if err != nil {
			l.errorf(types.NewSpan(l.start, l.cur-l.start), "invalid hex literal")
		}
		l.add(NUMBER, float64(v))
		return
	}

	for isDigit(l.peek()) {
		l.advance()
	}
	// A fractional part only when followed by a digit; "1..2" is a range.
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	v, err := strconv.ParseFloat(l.src[l.start:l.cur], 64)
	if err != nil {
		l.errorf(types.NewSpan(l.start, l.cur-l.start), "invalid number literal")
	}
	l.add(NUMBER, v)
}

func (l *Lexer) scanIdent() {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	name := l.src[l.start:l.cur]
	if tt, ok := keywords[name]; ok {
		l.add(tt, nil)
		return
	}
	if strings.HasPrefix(name, "__") {
		l.add(STATICFIELD, nil)
		return
	}
	if strings.HasPrefix(name, "_") {
		l.add(FIELD, nil)
		return
	}
	l.add(IDENT, nil)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }
