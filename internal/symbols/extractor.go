// Package symbols flattens a parsed module into the FileIndex snapshot the
// caches store and the workspace aggregator consumes.
package symbols

import (
	"time"

	"github.com/standardbeagle/wrensense/internal/analyzer"
	"github.com/standardbeagle/wrensense/internal/resolve"
	"github.com/standardbeagle/wrensense/internal/types"
)

// Extract builds a FileIndex from a parsed module. The result is a value
// snapshot: it shares nothing with the AST and is never mutated afterwards.
func Extract(mod *analyzer.Module, path string, version int32) *types.FileIndex {
	idx := &types.FileIndex{
		Path:       path,
		Version:    version,
		CapturedAt: time.Now(),
	}

	for _, stmt := range mod.Statements {
		switch decl := stmt.(type) {
		case *analyzer.ClassDecl:
			idx.Classes = append(idx.Classes, extractClass(decl))
		case *analyzer.ImportDecl:
			idx.Imports = append(idx.Imports, extractImport(decl))
		}
	}
	return idx
}

func extractClass(decl *analyzer.ClassDecl) types.ClassSymbol {
	class := types.ClassSymbol{
		Name:          decl.Name.Lexeme,
		IsForeign:     decl.Foreign,
		Span:          decl.DeclSpan,
		SelectionSpan: decl.SelectionSpan(),
	}
	if decl.Superclass != nil {
		class.Superclass = decl.Superclass.Lexeme
	}

	fields := newFieldCollector()
	for _, method := range decl.Methods {
		sym := extractMethod(class.Name, method)
		if method.IsStatic {
			class.StaticMethods = append(class.StaticMethods, sym)
		} else {
			class.Methods = append(class.Methods, sym)
		}
		if method.Body != nil {
			fields.collectStmt(method.Body)
		}
	}
	class.Fields = fields.fields
	return class
}

func extractMethod(className string, decl *analyzer.MethodDecl) types.MethodSymbol {
	params := make([]string, 0, len(decl.Params)+len(decl.SubscriptParams))
	for _, p := range decl.SubscriptParams {
		params = append(params, p.Name.Lexeme)
	}
	for _, p := range decl.Params {
		params = append(params, p.Name.Lexeme)
	}
	return types.MethodSymbol{
		Name:          decl.Name,
		Params:        params,
		IsStatic:      decl.IsStatic,
		IsConstructor: decl.IsConstructor,
		IsForeign:     decl.IsForeign,
		Span:          decl.DeclSpan,
		Signature:     types.FormatSignature(className, decl.Name, params),
		ClassName:     className,
	}
}

func extractImport(decl *analyzer.ImportDecl) types.ImportRecord {
	rec := types.ImportRecord{
		Module:   decl.PathValue(),
		Path:     resolve.Normalize(decl.PathValue()),
		PathSpan: decl.PathSpan(),
	}
	if decl.ForNames != nil {
		rec.VisibleNames = make([]string, 0, len(decl.ForNames))
		for _, name := range decl.ForNames {
			rec.VisibleNames = append(rec.VisibleNames, name.Lexeme)
		}
	}
	return rec
}

// fieldCollector gathers field references from method bodies. Wren fields
// have no declarations, so first use wins the recorded span.
type fieldCollector struct {
	seen   map[string]struct{}
	fields []types.FieldSymbol
}

func newFieldCollector() *fieldCollector {
	return &fieldCollector{seen: make(map[string]struct{})}
}

func (fc *fieldCollector) add(tok analyzer.Token, static bool) {
	if _, dup := fc.seen[tok.Lexeme]; dup {
		return
	}
	fc.seen[tok.Lexeme] = struct{}{}
	fc.fields = append(fc.fields, types.FieldSymbol{
		Name:     tok.Lexeme,
		IsStatic: static,
		Span:     types.NewSpan(tok.Start, len(tok.Lexeme)),
	})
}

func (fc *fieldCollector) collectStmt(stmt analyzer.Stmt) {
	switch s := stmt.(type) {
	case *analyzer.BlockStmt:
		for _, inner := range s.Statements {
			fc.collectStmt(inner)
		}
	case *analyzer.VarDecl:
		if s.Init != nil {
			fc.collectExpr(s.Init)
		}
	case *analyzer.IfStmt:
		fc.collectExpr(s.Cond)
		fc.collectStmt(s.Then)
		if s.Else != nil {
			fc.collectStmt(s.Else)
		}
	case *analyzer.WhileStmt:
		fc.collectExpr(s.Cond)
		fc.collectStmt(s.Body)
	case *analyzer.ForStmt:
		fc.collectExpr(s.Sequence)
		fc.collectStmt(s.Body)
	case *analyzer.ReturnStmt:
		if s.Value != nil {
			fc.collectExpr(s.Value)
		}
	case *analyzer.ExprStmt:
		fc.collectExpr(s.X)
	}
}

func (fc *fieldCollector) collectExpr(expr analyzer.Expr) {
	switch e := expr.(type) {
	case *analyzer.Ident:
		switch e.Token.Type {
		case analyzer.FIELD:
			fc.add(e.Token, false)
		case analyzer.STATICFIELD:
			fc.add(e.Token, true)
		}
	case *analyzer.AssignExpr:
		fc.collectExpr(e.Target)
		fc.collectExpr(e.Value)
	case *analyzer.BinaryExpr:
		fc.collectExpr(e.LHS)
		fc.collectExpr(e.RHS)
	case *analyzer.PrefixExpr:
		fc.collectExpr(e.Operand)
	case *analyzer.RangeExpr:
		fc.collectExpr(e.Lo)
		fc.collectExpr(e.Hi)
	case *analyzer.ConditionalExpr:
		fc.collectExpr(e.Cond)
		fc.collectExpr(e.Then)
		fc.collectExpr(e.Else)
	case *analyzer.ParenExpr:
		fc.collectExpr(e.Inner)
	case *analyzer.ListLit:
		for _, el := range e.Elements {
			fc.collectExpr(el)
		}
	case *analyzer.MapLit:
		for _, entry := range e.Entries {
			fc.collectExpr(entry.Key)
			fc.collectExpr(entry.Value)
		}
	case *analyzer.CallExpr:
		if e.Receiver != nil {
			fc.collectExpr(e.Receiver)
		}
		for _, arg := range e.Args {
			fc.collectExpr(arg)
		}
		if e.BlockArg != nil {
			fc.collectStmt(e.BlockArg.Body)
		}
	case *analyzer.SubscriptExpr:
		fc.collectExpr(e.Receiver)
		for _, arg := range e.Args {
			fc.collectExpr(arg)
		}
	case *analyzer.ClosureExpr:
		fc.collectStmt(e.Body)
	}
}
