package analyzer

import (
	"fmt"

	"github.com/standardbeagle/wrensense/internal/types"
)

// Parser builds a Module from a token stream. It never fails outright: on a
// malformed construct it records a diagnostic, resynchronizes at the next
// statement boundary, and keeps going, so a file mid-edit still yields a
// usable symbol table.
type Parser struct {
	tokens []Token
	pos    int
	diags  []types.Diagnostic
}

// NewParser creates a parser over a scanned token stream.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseModule parses the whole token stream into a Module.
func (p *Parser) ParseModule(path string) (*Module, []types.Diagnostic) {
	mod := &Module{Path: path}
	for {
		p.skipNewlines()
		if p.at(EOF) {
			break
		}
		before := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			mod.Statements = append(mod.Statements, stmt)
		}
		if p.pos == before {
			// No progress; skip the offending token.
			p.advance()
		}
	}
	return mod, p.diags
}

// ---------------------------------------------------------------------------
// token stream helpers

func (p *Parser) cur() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekNext() Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) at(tt TokenType) bool { return p.cur().Type == tt }

func (p *Parser) advance() Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) accept(tt TokenType) (Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	return Token{}, false
}

func (p *Parser) expect(tt TokenType, what string) (Token, bool) {
	if p.at(tt) {
		return p.advance(), true
	}
	p.errorf(p.cur(), "expected %s", what)
	return p.cur(), false
}

func (p *Parser) skipNewlines() {
	for p.at(NEWLINE) {
		p.advance()
	}
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) {
	length := len(tok.Lexeme)
	if length == 0 {
		length = 1
	}
	p.diags = append(p.diags, types.Diagnostic{
		Severity: types.SeverityError,
		Code:     "parse-error",
		Message:  fmt.Sprintf(format, args...),
		Span:     types.NewSpan(tok.Start, length),
	})
}

// resync advances to the next statement boundary.
func (p *Parser) resync() {
	for !p.at(EOF) && !p.at(NEWLINE) && !p.at(RBRACE) {
		p.advance()
	}
}

// ---------------------------------------------------------------------------
// statements

func (p *Parser) parseStatement() Stmt {
	switch p.cur().Type {
	case KwClass:
		return p.parseClass(false, p.cur())
	case KwForeign:
		kw := p.advance()
		if p.at(KwClass) {
			return p.parseClass(true, kw)
		}
		p.errorf(p.cur(), "expected 'class' after 'foreign'")
		p.resync()
		return nil
	case KwImport:
		return p.parseImport()
	case KwVar:
		return p.parseVar()
	case KwIf:
		return p.parseIf()
	case KwWhile:
		return p.parseWhile()
	case KwFor:
		return p.parseFor()
	case KwReturn:
		kw := p.advance()
		stmt := &ReturnStmt{DeclSpan: types.NewSpan(kw.Start, len(kw.Lexeme))}
		if !p.at(NEWLINE) && !p.at(EOF) && !p.at(RBRACE) {
			stmt.Value = p.parseExpr()
			stmt.DeclSpan = types.SpanBetween(kw.Start, stmt.Value.Span().End())
		}
		return stmt
	case KwBreak:
		kw := p.advance()
		return &BreakStmt{DeclSpan: types.NewSpan(kw.Start, len(kw.Lexeme))}
	case KwContinue:
		kw := p.advance()
		return &ContinueStmt{DeclSpan: types.NewSpan(kw.Start, len(kw.Lexeme))}
	case LBRACE:
		return p.parseBlock()
	default:
		expr := p.parseExpr()
		return &ExprStmt{X: expr}
	}
}

func (p *Parser) parseClass(foreign bool, startTok Token) Stmt {
	p.advance() // 'class'
	decl := &ClassDecl{Foreign: foreign}

	name, ok := p.expect(IDENT, "class name")
	if !ok {
		p.resync()
		return nil
	}
	decl.Name = name

	if _, isClause := p.accept(KwIs); isClause {
		if sup, ok := p.accept(IDENT); ok {
			decl.Superclass = &sup
		} else {
			p.errorf(p.cur(), "expected superclass name after 'is'")
		}
	}

	p.skipNewlines()
	lbrace, ok := p.expect(LBRACE, "'{' to open class body")
	if !ok {
		// Degrade to an empty class covering what we saw so far.
		decl.DeclSpan = types.SpanBetween(startTok.Start, name.End())
		decl.BodySpan = types.NewSpan(name.End(), 0)
		p.resync()
		return decl
	}

	for {
		p.skipNewlines()
		if p.at(RBRACE) || p.at(EOF) {
			break
		}
		before := p.pos
		if m := p.parseMethod(); m != nil {
			decl.Methods = append(decl.Methods, m)
		}
		if p.pos == before {
			p.advance()
		}
	}

	endTok := p.cur()
	if rbrace, ok := p.accept(RBRACE); ok {
		endTok = rbrace
	} else {
		p.errorf(p.cur(), "expected '}' to close class %s", name.Lexeme)
	}
	decl.BodySpan = types.SpanBetween(lbrace.Start, endTok.End())
	decl.DeclSpan = types.SpanBetween(startTok.Start, endTok.End())
	return decl
}

// operatorMember maps operator token types usable as method names.
var operatorMember = map[TokenType]struct{}{
	PLUS: {}, MINUS: {}, STAR: {}, SLASH: {}, PERCENT: {},
	EQ: {}, NEQ: {}, LT: {}, GT: {}, LTEQ: {}, GTEQ: {},
	LTLT: {}, GTGT: {}, AMP: {}, CARET: {}, PIPE: {}, TILDE: {},
	BANG: {}, DOTDOT: {}, ELLIPSIS: {}, KwIs: {},
}

func (p *Parser) parseMethod() *MethodDecl {
	start := p.cur()
	m := &MethodDecl{}

	if _, ok := p.accept(KwForeign); ok {
		m.IsForeign = true
	}
	if _, ok := p.accept(KwStatic); ok {
		m.IsStatic = true
	}
	if _, ok := p.accept(KwConstruct); ok {
		m.IsConstructor = true
		m.IsStatic = true
	}

	switch {
	case p.at(IDENT):
		name := p.advance()
		m.Name = name.Lexeme
		m.NameSpan = types.NewSpan(name.Start, len(name.Lexeme))
		if _, ok := p.accept(ASSIGN); ok {
			// Setter: name=(value)
			m.Name += "="
			m.Params = p.parseParamList()
		} else if p.at(LPAREN) {
			m.Params = p.parseParamList()
		}
	case p.at(LBRACKET):
		// Subscript getter or setter: [params] or [params]=(value)
		lb := p.advance()
		m.SubscriptParams = p.parseParamsUntil(RBRACKET)
		m.Name = "[" + joinParamNames(m.SubscriptParams) + "]"
		m.NameSpan = types.SpanBetween(lb.Start, p.cur().Start)
		if _, ok := p.accept(ASSIGN); ok {
			m.Name += "="
			m.Params = p.parseParamList()
		}
	default:
		if _, ok := operatorMember[p.cur().Type]; ok {
			op := p.advance()
			m.Name = op.Lexeme
			m.NameSpan = types.NewSpan(op.Start, len(op.Lexeme))
			if p.at(LPAREN) {
				m.Params = p.parseParamList()
			}
		} else {
			p.errorf(p.cur(), "expected method declaration")
			p.resync()
			return nil
		}
	}

	p.skipNewlines()
	endOffset := m.NameSpan.End()
	if p.at(LBRACE) {
		m.Body = p.parseBlock()
		endOffset = m.Body.BodySpan.End()
	} else if !m.IsForeign {
		// A method without a body is malformed but still indexable; keep
		// best-effort spans per the degradation policy.
		p.errorf(p.cur(), "expected method body")
	}
	m.DeclSpan = types.SpanBetween(start.Start, endOffset)
	return m
}

func joinParamNames(params []Param) string {
	out := ""
	for i, prm := range params {
		if i > 0 {
			out += ", "
		}
		out += prm.Name.Lexeme
	}
	return out
}

// parseParamList parses "(a, b: Type, c)"; returns nil when no paren follows.
func (p *Parser) parseParamList() []Param {
	if _, ok := p.accept(LPAREN); !ok {
		p.errorf(p.cur(), "expected parameter list")
		return nil
	}
	return p.parseParamsUntil(RPAREN)
}

func (p *Parser) parseParamsUntil(closer TokenType) []Param {
	var params []Param
	p.skipNewlines()
	for !p.at(closer) && !p.at(EOF) {
		name, ok := p.accept(IDENT)
		if !ok {
			p.errorf(p.cur(), "expected parameter name")
			break
		}
		prm := Param{Name: name}
		if _, ok := p.accept(COLON); ok {
			if tn, ok := p.accept(IDENT); ok {
				prm.TypeName = tn.Lexeme
			} else {
				p.errorf(p.cur(), "expected type name after ':'")
			}
		}
		params = append(params, prm)
		p.skipNewlines()
		if _, ok := p.accept(COMMA); !ok {
			break
		}
		p.skipNewlines()
	}
	p.accept(closer)
	return params
}

func (p *Parser) parseImport() Stmt {
	kw := p.advance()
	decl := &ImportDecl{}

	path, ok := p.accept(STRING)
	if !ok {
		p.errorf(p.cur(), "expected module path string after 'import'")
		p.resync()
		return nil
	}
	decl.PathToken = path
	end := path.End()

	if _, ok := p.accept(KwFor); ok {
		decl.ForNames = []Token{}
		for {
			name, ok := p.accept(IDENT)
			if !ok {
				p.errorf(p.cur(), "expected class name in 'for' clause")
				break
			}
			decl.ForNames = append(decl.ForNames, name)
			end = name.End()
			if _, ok := p.accept(COMMA); !ok {
				break
			}
			p.skipNewlines()
		}
	}
	decl.DeclSpan = types.SpanBetween(kw.Start, end)
	return decl
}

func (p *Parser) parseVar() Stmt {
	kw := p.advance()
	decl := &VarDecl{}

	name, ok := p.expect(IDENT, "variable name")
	if !ok {
		p.resync()
		return nil
	}
	decl.Name = name
	end := name.End()

	if _, ok := p.accept(COLON); ok {
		if tn, ok := p.accept(IDENT); ok {
			decl.TypeName = tn.Lexeme
			end = tn.End()
		} else {
			p.errorf(p.cur(), "expected type name after ':'")
		}
	}
	if _, ok := p.accept(ASSIGN); ok {
		decl.Init = p.parseExpr()
		end = decl.Init.Span().End()
	}
	decl.DeclSpan = types.SpanBetween(kw.Start, end)
	return decl
}

func (p *Parser) parseBlock() *BlockStmt {
	lbrace := p.advance()
	block := &BlockStmt{}
	for {
		p.skipNewlines()
		if p.at(RBRACE) || p.at(EOF) {
			break
		}
		before := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}
	endTok := p.cur()
	if rbrace, ok := p.accept(RBRACE); ok {
		endTok = rbrace
	} else {
		p.errorf(p.cur(), "expected '}'")
	}
	block.BodySpan = types.SpanBetween(lbrace.Start, endTok.End())
	return block
}

func (p *Parser) parseIf() Stmt {
	kw := p.advance()
	stmt := &IfStmt{}
	p.expect(LPAREN, "'(' after 'if'")
	stmt.Cond = p.parseExpr()
	p.expect(RPAREN, "')' after condition")
	p.skipNewlines()
	stmt.Then = p.parseStatement()
	end := kw.End()
	if stmt.Then != nil {
		end = stmt.Then.Span().End()
	}
	save := p.pos
	p.skipNewlines()
	if _, ok := p.accept(KwElse); ok {
		p.skipNewlines()
		stmt.Else = p.parseStatement()
		if stmt.Else != nil {
			end = stmt.Else.Span().End()
		}
	} else {
		p.pos = save
	}
	stmt.DeclSpan = types.SpanBetween(kw.Start, end)
	return stmt
}

func (p *Parser) parseWhile() Stmt {
	kw := p.advance()
	stmt := &WhileStmt{}
	p.expect(LPAREN, "'(' after 'while'")
	stmt.Cond = p.parseExpr()
	p.expect(RPAREN, "')' after condition")
	p.skipNewlines()
	stmt.Body = p.parseStatement()
	end := kw.End()
	if stmt.Body != nil {
		end = stmt.Body.Span().End()
	}
	stmt.DeclSpan = types.SpanBetween(kw.Start, end)
	return stmt
}

func (p *Parser) parseFor() Stmt {
	kw := p.advance()
	stmt := &ForStmt{}
	p.expect(LPAREN, "'(' after 'for'")
	if name, ok := p.expect(IDENT, "loop variable name"); ok {
		stmt.Var = name
	}
	p.expect(KwIn, "'in'")
	stmt.Sequence = p.parseExpr()
	p.expect(RPAREN, "')' after sequence")
	p.skipNewlines()
	stmt.Body = p.parseStatement()
	end := kw.End()
	if stmt.Body != nil {
		end = stmt.Body.Span().End()
	}
	stmt.DeclSpan = types.SpanBetween(kw.Start, end)
	return stmt
}

// ---------------------------------------------------------------------------
// expressions, precedence climbing

func (p *Parser) parseExpr() Expr {
	return p.parseAssign()
}

func (p *Parser) parseAssign() Expr {
	lhs := p.parseConditional()
	if _, ok := p.accept(ASSIGN); ok {
		p.skipNewlines()
		value := p.parseAssign()
		return &AssignExpr{Target: lhs, Value: value}
	}
	return lhs
}

func (p *Parser) parseConditional() Expr {
	cond := p.parseLogicalOr()
	if _, ok := p.accept(QUESTION); ok {
		p.skipNewlines()
		then := p.parseLogicalOr()
		p.expect(COLON, "':' in conditional expression")
		p.skipNewlines()
		els := p.parseConditional()
		return &ConditionalExpr{Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *Parser) parseLogicalOr() Expr {
	lhs := p.parseLogicalAnd()
	for p.at(PIPEPIPE) {
		op := p.advance()
		p.skipNewlines()
		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: p.parseLogicalAnd()}
	}
	return lhs
}

func (p *Parser) parseLogicalAnd() Expr {
	lhs := p.parseEquality()
	for p.at(AMPAMP) {
		op := p.advance()
		p.skipNewlines()
		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: p.parseEquality()}
	}
	return lhs
}

func (p *Parser) parseEquality() Expr {
	lhs := p.parseComparison()
	for p.at(EQ) || p.at(NEQ) || p.at(KwIs) {
		op := p.advance()
		p.skipNewlines()
		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: p.parseComparison()}
	}
	return lhs
}

func (p *Parser) parseComparison() Expr {
	lhs := p.parseBitwise()
	for p.at(LT) || p.at(GT) || p.at(LTEQ) || p.at(GTEQ) {
		op := p.advance()
		p.skipNewlines()
		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: p.parseBitwise()}
	}
	return lhs
}

func (p *Parser) parseBitwise() Expr {
	lhs := p.parseRange()
	for p.at(AMP) || p.at(CARET) || p.at(PIPE) || p.at(LTLT) || p.at(GTGT) {
		op := p.advance()
		p.skipNewlines()
		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: p.parseRange()}
	}
	return lhs
}

func (p *Parser) parseRange() Expr {
	lhs := p.parseAdditive()
	if p.at(DOTDOT) || p.at(ELLIPSIS) {
		op := p.advance()
		p.skipNewlines()
		rhs := p.parseAdditive()
		return &RangeExpr{Lo: lhs, Hi: rhs, Inclusive: op.Type == DOTDOT}
	}
	return lhs
}

func (p *Parser) parseAdditive() Expr {
	lhs := p.parseMultiplicative()
	for p.at(PLUS) || p.at(MINUS) {
		op := p.advance()
		p.skipNewlines()
		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: p.parseMultiplicative()}
	}
	return lhs
}

func (p *Parser) parseMultiplicative() Expr {
	lhs := p.parsePrefix()
	for p.at(STAR) || p.at(SLASH) || p.at(PERCENT) {
		op := p.advance()
		p.skipNewlines()
		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: p.parsePrefix()}
	}
	return lhs
}

func (p *Parser) parsePrefix() Expr {
	if p.at(MINUS) || p.at(BANG) || p.at(TILDE) {
		op := p.advance()
		return &PrefixExpr{Op: op, Operand: p.parsePrefix()}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.at(DOT):
			p.advance()
			name, ok := p.accept(IDENT)
			if !ok {
				// "receiver." with nothing after it happens constantly while
				// typing; give back what we have.
				p.errorf(p.cur(), "expected member name after '.'")
				return expr
			}
			call := &CallExpr{Receiver: expr, Method: name, EndOffset: name.End()}
			if p.at(LPAREN) {
				call.HasParens = true
				call.Args, call.EndOffset = p.parseArgs()
			}
			if p.at(LBRACE) {
				call.BlockArg = p.parseClosure()
				call.EndOffset = call.BlockArg.Body.BodySpan.End()
			}
			expr = call
		case p.at(LBRACKET):
			p.advance()
			sub := &SubscriptExpr{Receiver: expr}
			p.skipNewlines()
			for !p.at(RBRACKET) && !p.at(EOF) {
				sub.Args = append(sub.Args, p.parseExpr())
				p.skipNewlines()
				if _, ok := p.accept(COMMA); !ok {
					break
				}
				p.skipNewlines()
			}
			endTok := p.cur()
			if rb, ok := p.accept(RBRACKET); ok {
				endTok = rb
			} else {
				p.errorf(p.cur(), "expected ']'")
			}
			sub.EndOffset = endTok.End()
			expr = sub
		default:
			return expr
		}
	}
}

// parseArgs parses a parenthesized argument list, returning the arguments
// and the offset one past the closing paren.
func (p *Parser) parseArgs() ([]Expr, int) {
	lparen := p.advance()
	var args []Expr
	p.skipNewlines()
	for !p.at(RPAREN) && !p.at(EOF) {
		args = append(args, p.parseExpr())
		p.skipNewlines()
		if _, ok := p.accept(COMMA); !ok {
			break
		}
		p.skipNewlines()
	}
	end := lparen.End()
	if rp, ok := p.accept(RPAREN); ok {
		end = rp.End()
	} else {
		p.errorf(p.cur(), "expected ')'")
		end = p.cur().Start
	}
	return args, end
}

// parseClosure parses a block argument `{ |a, b| stmts }`.
func (p *Parser) parseClosure() *ClosureExpr {
	lbrace := p.advance()
	closure := &ClosureExpr{}
	p.skipNewlines()
	if _, ok := p.accept(PIPE); ok {
		closure.Params = p.parseParamsUntil(PIPE)
	}
	body := &BlockStmt{}
	for {
		p.skipNewlines()
		if p.at(RBRACE) || p.at(EOF) {
			break
		}
		before := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			body.Statements = append(body.Statements, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}
	endTok := p.cur()
	if rb, ok := p.accept(RBRACE); ok {
		endTok = rb
	} else {
		p.errorf(p.cur(), "expected '}' to close block argument")
	}
	body.BodySpan = types.SpanBetween(lbrace.Start, endTok.End())
	closure.Body = body
	return closure
}

func (p *Parser) parsePrimary() Expr {
	tok := p.cur()
	switch tok.Type {
	case NUMBER:
		p.advance()
		return &NumberLit{Token: tok}
	case STRING:
		p.advance()
		return &StringLit{Token: tok}
	case KwTrue, KwFalse:
		p.advance()
		return &BoolLit{Token: tok}
	case KwNull:
		p.advance()
		return &NullLit{Token: tok}
	case KwThis:
		p.advance()
		return &ThisExpr{Token: tok}
	case KwSuper:
		p.advance()
		return &SuperExpr{Token: tok}
	case IDENT:
		p.advance()
		if p.at(LPAREN) {
			// Bare call, e.g. an implicit-self method or closure invocation.
			call := &CallExpr{Method: tok, HasParens: true}
			call.Args, call.EndOffset = p.parseArgs()
			if p.at(LBRACE) {
				call.BlockArg = p.parseClosure()
				call.EndOffset = call.BlockArg.Body.BodySpan.End()
			}
			return call
		}
		return &Ident{Token: tok}
	case FIELD, STATICFIELD:
		p.advance()
		return &Ident{Token: tok}
	case LPAREN:
		lp := p.advance()
		p.skipNewlines()
		inner := p.parseExpr()
		p.skipNewlines()
		end := inner.Span().End()
		if rp, ok := p.accept(RPAREN); ok {
			end = rp.End()
		} else {
			p.errorf(p.cur(), "expected ')'")
		}
		return &ParenExpr{Inner: inner, ParSpan: types.SpanBetween(lp.Start, end)}
	case LBRACKET:
		lb := p.advance()
		lit := &ListLit{}
		p.skipNewlines()
		for !p.at(RBRACKET) && !p.at(EOF) {
			lit.Elements = append(lit.Elements, p.parseExpr())
			p.skipNewlines()
			if _, ok := p.accept(COMMA); !ok {
				break
			}
			p.skipNewlines()
		}
		end := p.cur().End()
		if rb, ok := p.accept(RBRACKET); ok {
			end = rb.End()
		} else {
			p.errorf(p.cur(), "expected ']'")
		}
		lit.LitSpan = types.SpanBetween(lb.Start, end)
		return lit
	case LBRACE:
		return p.parseMapLit()
	default:
		p.errorf(tok, "expected expression")
		p.advance()
		return &BadExpr{BadSpan: types.NewSpan(tok.Start, len(tok.Lexeme))}
	}
}

func (p *Parser) parseMapLit() Expr {
	lb := p.advance()
	lit := &MapLit{}
	p.skipNewlines()
	for !p.at(RBRACE) && !p.at(EOF) {
		key := p.parseExpr()
		p.expect(COLON, "':' between map key and value")
		p.skipNewlines()
		value := p.parseExpr()
		lit.Entries = append(lit.Entries, MapEntry{Key: key, Value: value})
		p.skipNewlines()
		if _, ok := p.accept(COMMA); !ok {
			break
		}
		p.skipNewlines()
	}
	end := p.cur().End()
	if rb, ok := p.accept(RBRACE); ok {
		end = rb.End()
	} else {
		p.errorf(p.cur(), "expected '}' to close map literal")
	}
	lit.LitSpan = types.SpanBetween(lb.Start, end)
	return lit
}
