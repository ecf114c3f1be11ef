// Package analyzer turns Wren source text into an abstract syntax tree and
// diagnostics. Nothing outside this package constructs tokens or AST nodes
// from text; the caches and the symbol extractor consume the Result through
// the Func boundary, so a different analyzer implementation can be swapped
// in without touching the index.
package analyzer

import "github.com/standardbeagle/wrensense/internal/types"

// Result is the outcome of analyzing one file. Module is always non-nil,
// even for badly broken input: the parser degrades instead of failing, and
// the damage shows up in Diagnostics.
type Result struct {
	Module      *Module
	Diagnostics []types.Diagnostic
}

// Func is the analysis boundary the caches invoke. Analyzing the same source
// twice yields an equivalent Result, which is what lets overlapping
// invalidation and query races self-correct instead of needing prevention.
type Func func(source, path string) Result

// Analyze lexes and parses source into a Result. It never returns an error:
// every failure mode becomes a diagnostic.
func Analyze(source, path string) Result {
	tokens, lexDiags := NewLexer(source).Scan()
	mod, parseDiags := NewParser(tokens).ParseModule(path)

	diags := make([]types.Diagnostic, 0, len(lexDiags)+len(parseDiags))
	diags = append(diags, lexDiags...)
	diags = append(diags, parseDiags...)

	return Result{Module: mod, Diagnostics: diags}
}
