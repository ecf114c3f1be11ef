package analyzer

import "github.com/standardbeagle/wrensense/internal/types"

// Module is the parsed form of one source file. Statements appear in
// declaration order; the scope resolver and symbol extractor both walk this
// tree, so every node carries the span it was parsed from.
type Module struct {
	Path       string
	Statements []Stmt
}

// Node is implemented by every AST node.
type Node interface {
	Span() types.Span
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Param is one parameter in a method or closure signature. TypeName holds
// the optional ": Type" annotation, or "" when the parameter is untyped.
type Param struct {
	Name     Token
	TypeName string
}

// ---------------------------------------------------------------------------
// Statements

// ClassDecl is a class declaration. Methods holds every member in source
// order regardless of kind; the symbol extractor splits instance from static.
type ClassDecl struct {
	Name       Token
	Superclass *Token
	Foreign    bool
	Methods    []*MethodDecl
	BodySpan   types.Span // open brace through close brace
	DeclSpan   types.Span // "class" (or "foreign") through close brace
}

func (d *ClassDecl) Span() types.Span { return d.DeclSpan }
func (d *ClassDecl) stmtNode()        {}

// SelectionSpan is the narrower span from the name token to the open brace,
// used for outline selection ranges.
func (d *ClassDecl) SelectionSpan() types.Span {
	end := d.BodySpan.Start
	if end < d.Name.Start {
		end = d.Name.End()
	}
	return types.SpanBetween(d.Name.Start, end)
}

// MethodDecl is one member of a class body: method, getter, setter,
// operator, subscript, or constructor. Name is kept verbatim, so a subscript
// setter is "[index]=", a setter "name=", a prefix operator "-" and so on.
type MethodDecl struct {
	Name            string
	NameSpan        types.Span
	Params          []Param
	SubscriptParams []Param // bracketed parameters of "[...]" members
	IsStatic        bool
	IsConstructor   bool
	IsForeign       bool
	Body            *BlockStmt // nil for foreign or malformed members
	DeclSpan        types.Span
}

func (d *MethodDecl) Span() types.Span { return d.DeclSpan }
func (d *MethodDecl) stmtNode()        {}

// ImportDecl is `import "path"` with an optional `for A, B` clause.
// ForNames is nil when there is no for clause; an import with a for clause
// exposes only the listed names to this file.
type ImportDecl struct {
	PathToken Token   // string literal; Literal holds the decoded path
	ForNames  []Token // nil = expose everything
	DeclSpan  types.Span
}

func (d *ImportDecl) Span() types.Span { return d.DeclSpan }
func (d *ImportDecl) stmtNode()        {}

// PathValue returns the decoded module path string.
func (d *ImportDecl) PathValue() string {
	if s, ok := d.PathToken.Literal.(string); ok {
		return s
	}
	return ""
}

// PathSpan returns the span of the path token including quotes.
func (d *ImportDecl) PathSpan() types.Span {
	return types.NewSpan(d.PathToken.Start, len(d.PathToken.Lexeme))
}

// VarDecl is `var name = expr`, optionally `var name: Type = expr`.
type VarDecl struct {
	Name     Token
	TypeName string // optional ": Type" annotation
	Init     Expr   // nil when the declaration has no initializer
	DeclSpan types.Span
}

func (d *VarDecl) Span() types.Span { return d.DeclSpan }
func (d *VarDecl) stmtNode()        {}

// BlockStmt is a braced statement list.
type BlockStmt struct {
	Statements []Stmt
	BodySpan   types.Span
}

func (s *BlockStmt) Span() types.Span { return s.BodySpan }
func (s *BlockStmt) stmtNode()        {}

// IfStmt covers `if (cond) then` and the optional else arm.
type IfStmt struct {
	Cond     Expr
	Then     Stmt
	Else     Stmt // nil when absent
	DeclSpan types.Span
}

func (s *IfStmt) Span() types.Span { return s.DeclSpan }
func (s *IfStmt) stmtNode()        {}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Cond     Expr
	Body     Stmt
	DeclSpan types.Span
}

func (s *WhileStmt) Span() types.Span { return s.DeclSpan }
func (s *WhileStmt) stmtNode()        {}

// ForStmt is `for (name in sequence) body`. The loop variable is a local
// binding inside the body.
type ForStmt struct {
	Var      Token
	Sequence Expr
	Body     Stmt
	DeclSpan types.Span
}

func (s *ForStmt) Span() types.Span { return s.DeclSpan }
func (s *ForStmt) stmtNode()        {}

// ReturnStmt is `return` with an optional value.
type ReturnStmt struct {
	Value    Expr // nil for bare return
	DeclSpan types.Span
}

func (s *ReturnStmt) Span() types.Span { return s.DeclSpan }
func (s *ReturnStmt) stmtNode()        {}

// BreakStmt is `break`.
type BreakStmt struct {
	DeclSpan types.Span
}

func (s *BreakStmt) Span() types.Span { return s.DeclSpan }
func (s *BreakStmt) stmtNode()        {}

// ContinueStmt is `continue`.
type ContinueStmt struct {
	DeclSpan types.Span
}

func (s *ContinueStmt) Span() types.Span { return s.DeclSpan }
func (s *ContinueStmt) stmtNode()        {}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) Span() types.Span { return s.X.Span() }
func (s *ExprStmt) stmtNode()        {}

// ---------------------------------------------------------------------------
// Expressions

// NumberLit is a numeric literal.
type NumberLit struct{ Token Token }

func (e *NumberLit) Span() types.Span { return types.NewSpan(e.Token.Start, len(e.Token.Lexeme)) }
func (e *NumberLit) exprNode()        {}

// StringLit is a string literal.
type StringLit struct{ Token Token }

func (e *StringLit) Span() types.Span { return types.NewSpan(e.Token.Start, len(e.Token.Lexeme)) }
func (e *StringLit) exprNode()        {}

// BoolLit is `true` or `false`.
type BoolLit struct{ Token Token }

func (e *BoolLit) Span() types.Span { return types.NewSpan(e.Token.Start, len(e.Token.Lexeme)) }
func (e *BoolLit) exprNode()        {}

// NullLit is `null`.
type NullLit struct{ Token Token }

func (e *NullLit) Span() types.Span { return types.NewSpan(e.Token.Start, len(e.Token.Lexeme)) }
func (e *NullLit) exprNode()        {}

// Ident is a bare identifier reference, including field names.
type Ident struct{ Token Token }

func (e *Ident) Span() types.Span { return types.NewSpan(e.Token.Start, len(e.Token.Lexeme)) }
func (e *Ident) exprNode()        {}

// Name returns the identifier text.
func (e *Ident) Name() string { return e.Token.Lexeme }

// ThisExpr is `this`.
type ThisExpr struct{ Token Token }

func (e *ThisExpr) Span() types.Span { return types.NewSpan(e.Token.Start, len(e.Token.Lexeme)) }
func (e *ThisExpr) exprNode()        {}

// SuperExpr is `super`, optionally with a member name attached by the parser.
type SuperExpr struct{ Token Token }

func (e *SuperExpr) Span() types.Span { return types.NewSpan(e.Token.Start, len(e.Token.Lexeme)) }
func (e *SuperExpr) exprNode()        {}

// ListLit is `[a, b, c]`.
type ListLit struct {
	Elements []Expr
	LitSpan  types.Span
}

func (e *ListLit) Span() types.Span { return e.LitSpan }
func (e *ListLit) exprNode()        {}

// MapEntry is one `key: value` pair in a map literal.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLit is `{k: v, ...}`.
type MapLit struct {
	Entries []MapEntry
	LitSpan types.Span
}

func (e *MapLit) Span() types.Span { return e.LitSpan }
func (e *MapLit) exprNode()        {}

// RangeExpr is `lo..hi` or `lo...hi`.
type RangeExpr struct {
	Lo        Expr
	Hi        Expr
	Inclusive bool
}

func (e *RangeExpr) Span() types.Span {
	return types.SpanBetween(e.Lo.Span().Start, e.Hi.Span().End())
}
func (e *RangeExpr) exprNode() {}

// BinaryExpr is any infix operator expression apart from ranges and
// assignment.
type BinaryExpr struct {
	Op  Token
	LHS Expr
	RHS Expr
}

func (e *BinaryExpr) Span() types.Span {
	return types.SpanBetween(e.LHS.Span().Start, e.RHS.Span().End())
}
func (e *BinaryExpr) exprNode() {}

// PrefixExpr is `-x`, `!x` or `~x`.
type PrefixExpr struct {
	Op      Token
	Operand Expr
}

func (e *PrefixExpr) Span() types.Span {
	return types.SpanBetween(e.Op.Start, e.Operand.Span().End())
}
func (e *PrefixExpr) exprNode() {}

// AssignExpr is `target = value`.
type AssignExpr struct {
	Target Expr
	Value  Expr
}

func (e *AssignExpr) Span() types.Span {
	return types.SpanBetween(e.Target.Span().Start, e.Value.Span().End())
}
func (e *AssignExpr) exprNode() {}

// ConditionalExpr is `cond ? then : else`.
type ConditionalExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (e *ConditionalExpr) Span() types.Span {
	return types.SpanBetween(e.Cond.Span().Start, e.Else.Span().End())
}
func (e *ConditionalExpr) exprNode() {}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Inner   Expr
	ParSpan types.Span
}

func (e *ParenExpr) Span() types.Span { return e.ParSpan }
func (e *ParenExpr) exprNode()        {}

// CallExpr is a method call or property access. Receiver is nil for bare
// calls (`foo(1)`, or an implicit-self getter). A getter access `a.b` is a
// CallExpr with no argument list and HasParens false; that mirrors Wren,
// where every member access is a method invocation.
type CallExpr struct {
	Receiver  Expr // nil = bare / implicit receiver
	Method    Token
	Args      []Expr
	HasParens bool
	BlockArg  *ClosureExpr // trailing block argument, if any
	EndOffset int
}

func (e *CallExpr) Span() types.Span {
	start := e.Method.Start
	if e.Receiver != nil {
		start = e.Receiver.Span().Start
	}
	end := e.EndOffset
	if end < start {
		end = e.Method.End()
	}
	return types.SpanBetween(start, end)
}
func (e *CallExpr) exprNode() {}

// SubscriptExpr is `receiver[args]`.
type SubscriptExpr struct {
	Receiver  Expr
	Args      []Expr
	EndOffset int
}

func (e *SubscriptExpr) Span() types.Span {
	return types.SpanBetween(e.Receiver.Span().Start, e.EndOffset)
}
func (e *SubscriptExpr) exprNode() {}

// ClosureExpr is a block body passed as a call argument, `{ |a, b| ... }`.
// Wren function literals are built this way (`Fn.new { ... }`).
type ClosureExpr struct {
	Params []Param
	Body   *BlockStmt
}

func (e *ClosureExpr) Span() types.Span { return e.Body.BodySpan }
func (e *ClosureExpr) exprNode()        {}

// BadExpr is a placeholder produced during error recovery.
type BadExpr struct {
	BadSpan types.Span
}

func (e *BadExpr) Span() types.Span { return e.BadSpan }
func (e *BadExpr) exprNode()        {}
