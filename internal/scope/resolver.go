// Package scope computes offset-based type resolution: which class encloses
// a query offset, and the inferred type of every locally visible variable.
//
// The traversal is deliberately not lexical scoping. Inside an applicable
// method, every nested construct is walked whether or not the offset lies
// inside it, and when the same name is declared more than once the binding
// recorded last in traversal order wins. Completion powered by this trades
// block-scope precision for a resolver cheap enough to run per keystroke.
package scope

import (
	"github.com/standardbeagle/wrensense/internal/analyzer"
	"github.com/standardbeagle/wrensense/internal/builtins"
	"github.com/standardbeagle/wrensense/internal/types"
)

// Resolve computes the enclosing class name and the name-to-type map for
// locals visible at offset. Variables whose type cannot be inferred are
// omitted rather than guessed.
func Resolve(mod *analyzer.Module, offset int) types.TypeResolution {
	res := types.TypeResolution{Locals: make(map[string]string)}
	if mod == nil {
		return res
	}

	for _, stmt := range mod.Statements {
		if class, ok := stmt.(*analyzer.ClassDecl); ok && class.DeclSpan.ContainsInclusive(offset) {
			res.EnclosingClass = class.Name.Lexeme
			resolveInClass(class, offset, res.Locals)
			return res
		}
	}

	// Module scope: only top-level variable declarations that start before
	// the offset are visible.
	for _, stmt := range mod.Statements {
		if decl, ok := stmt.(*analyzer.VarDecl); ok && decl.Name.Start < offset {
			bindVar(decl, offset, res.Locals)
		}
	}
	return res
}

func resolveInClass(class *analyzer.ClassDecl, offset int, locals map[string]string) {
	for _, method := range class.Methods {
		if !method.DeclSpan.ContainsInclusive(offset) {
			continue
		}
		seedParams(method.Params, locals)
		seedParams(method.SubscriptParams, locals)
		if method.Body != nil {
			walkStmt(method.Body, offset, locals)
		}
	}
}

// seedParams records explicitly annotated parameters. Untyped parameters
// are in scope but contribute no binding, since the map holds only names
// the resolver could type.
func seedParams(params []analyzer.Param, locals map[string]string) {
	for _, p := range params {
		if p.TypeName != "" {
			locals[p.Name.Lexeme] = p.TypeName
		}
	}
}

func bindVar(decl *analyzer.VarDecl, offset int, locals map[string]string) {
	t := decl.TypeName
	if t == "" {
		t = InferType(decl.Init)
	}
	if t != "" {
		locals[decl.Name.Lexeme] = t
	}
	if decl.Init != nil {
		walkExpr(decl.Init, offset, locals)
	}
}

// walkStmt accumulates bindings from every declaration whose name token
// starts before the offset, descending into all nested constructs
// unconditionally.
func walkStmt(stmt analyzer.Stmt, offset int, locals map[string]string) {
	switch s := stmt.(type) {
	case *analyzer.BlockStmt:
		for _, inner := range s.Statements {
			walkStmt(inner, offset, locals)
		}
	case *analyzer.VarDecl:
		if s.Name.Start < offset {
			bindVar(s, offset, locals)
		}
	case *analyzer.IfStmt:
		walkExpr(s.Cond, offset, locals)
		walkStmt(s.Then, offset, locals)
		if s.Else != nil {
			walkStmt(s.Else, offset, locals)
		}
	case *analyzer.WhileStmt:
		walkExpr(s.Cond, offset, locals)
		if s.Body != nil {
			walkStmt(s.Body, offset, locals)
		}
	case *analyzer.ForStmt:
		// The loop variable is a binding; ranges iterate numbers.
		if s.Var.Start < offset && s.Var.Lexeme != "" {
			if _, isRange := s.Sequence.(*analyzer.RangeExpr); isRange {
				locals[s.Var.Lexeme] = builtins.TypeNum
			}
		}
		if s.Sequence != nil {
			walkExpr(s.Sequence, offset, locals)
		}
		if s.Body != nil {
			walkStmt(s.Body, offset, locals)
		}
	case *analyzer.ReturnStmt:
		if s.Value != nil {
			walkExpr(s.Value, offset, locals)
		}
	case *analyzer.ExprStmt:
		walkExpr(s.X, offset, locals)
	}
}

// walkExpr descends into expressions looking for closures passed as call
// arguments; their parameters and bodies contribute bindings too.
func walkExpr(expr analyzer.Expr, offset int, locals map[string]string) {
	switch e := expr.(type) {
	case *analyzer.AssignExpr:
		walkExpr(e.Target, offset, locals)
		walkExpr(e.Value, offset, locals)
	case *analyzer.BinaryExpr:
		walkExpr(e.LHS, offset, locals)
		walkExpr(e.RHS, offset, locals)
	case *analyzer.PrefixExpr:
		walkExpr(e.Operand, offset, locals)
	case *analyzer.RangeExpr:
		walkExpr(e.Lo, offset, locals)
		walkExpr(e.Hi, offset, locals)
	case *analyzer.ConditionalExpr:
		walkExpr(e.Cond, offset, locals)
		walkExpr(e.Then, offset, locals)
		walkExpr(e.Else, offset, locals)
	case *analyzer.ParenExpr:
		walkExpr(e.Inner, offset, locals)
	case *analyzer.ListLit:
		for _, el := range e.Elements {
			walkExpr(el, offset, locals)
		}
	case *analyzer.MapLit:
		for _, entry := range e.Entries {
			walkExpr(entry.Key, offset, locals)
			walkExpr(entry.Value, offset, locals)
		}
	case *analyzer.CallExpr:
		if e.Receiver != nil {
			walkExpr(e.Receiver, offset, locals)
		}
		for _, arg := range e.Args {
			walkExpr(arg, offset, locals)
		}
		if e.BlockArg != nil {
			walkClosure(e.BlockArg, offset, locals)
		}
	case *analyzer.SubscriptExpr:
		walkExpr(e.Receiver, offset, locals)
		for _, arg := range e.Args {
			walkExpr(arg, offset, locals)
		}
	case *analyzer.ClosureExpr:
		walkClosure(e, offset, locals)
	}
}

func walkClosure(closure *analyzer.ClosureExpr, offset int, locals map[string]string) {
	for _, p := range closure.Params {
		if p.TypeName != "" && p.Name.Start < offset {
			locals[p.Name.Lexeme] = p.TypeName
		}
	}
	if closure.Body != nil {
		walkStmt(closure.Body, offset, locals)
	}
}

// InferType derives a type name from an initializer expression shape.
// Literals map to their base types, `Type.new(...)` infers the constructed
// type, parentheses look through to the inner expression, and arithmetic
// infers from the left operand the way the runtime dispatches it. Anything
// else yields "" rather than a guess.
func InferType(expr analyzer.Expr) string {
	switch e := expr.(type) {
	case *analyzer.NumberLit:
		return builtins.TypeNum
	case *analyzer.StringLit:
		return builtins.TypeString
	case *analyzer.BoolLit:
		return builtins.TypeBool
	case *analyzer.ListLit:
		return builtins.TypeList
	case *analyzer.MapLit:
		return builtins.TypeMap
	case *analyzer.RangeExpr:
		return builtins.TypeRange
	case *analyzer.ParenExpr:
		return InferType(e.Inner)
	case *analyzer.PrefixExpr:
		if e.Op.Type == analyzer.MINUS {
			return InferType(e.Operand)
		}
		return ""
	case *analyzer.BinaryExpr:
		switch e.Op.Type {
		case analyzer.PLUS, analyzer.MINUS, analyzer.STAR, analyzer.SLASH, analyzer.PERCENT:
			return InferType(e.LHS)
		}
		return ""
	case *analyzer.CallExpr:
		if recv, ok := e.Receiver.(*analyzer.Ident); ok {
			if e.Method.Lexeme == "new" && isCapitalized(recv.Name()) {
				return recv.Name()
			}
		}
		return ""
	default:
		return ""
	}
}

func isCapitalized(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
