package workspace

import (
	"context"
	"testing"

	"github.com/standardbeagle/wrensense/internal/analyzer"
	"github.com/standardbeagle/wrensense/internal/builtins"
	"github.com/standardbeagle/wrensense/internal/cache"
	"github.com/standardbeagle/wrensense/internal/resolve"
	"github.com/standardbeagle/wrensense/internal/symbols"
	"github.com/standardbeagle/wrensense/internal/types"
)

// mapLoader serves analyses from a fixed map keyed by canonical path.
type mapLoader map[string]*cache.Analysis

func (m mapLoader) Load(path string) (*cache.Analysis, bool) {
	a, ok := m[resolve.Canonical(path)]
	return a, ok
}

func analyzeFile(source, path string) *cache.Analysis {
	result := analyzer.Analyze(source, path)
	return &cache.Analysis{
		Module:      result.Module,
		Index:       symbols.Extract(result.Module, path, 0),
		Diagnostics: result.Diagnostics,
	}
}

func newTestAggregator(files map[string]string) (*Aggregator, mapLoader) {
	loader := mapLoader{}
	for path, source := range files {
		loader[resolve.Canonical(path)] = analyzeFile(source, path)
	}
	resolver := resolve.NewResolver(nil, []string{"/proj"})
	return NewAggregator(loader, resolver), loader
}

func rootIndex(loader mapLoader, path string) *types.FileIndex {
	return loader[resolve.Canonical(path)].Index
}

func TestAggregateNoImports(t *testing.T) {
	agg, loader := newTestAggregator(map[string]string{
		"/proj/main.wren": `
class Game {
  construct new() {}
  update(dt) {}
}
`,
	})

	result, diags := agg.Aggregate(context.Background(), rootIndex(loader, "/proj/main.wren"))

	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	wantClasses := len(builtins.CoreClasses()) + 1
	if len(result.Classes) != wantClasses {
		t.Errorf("aggregate has %d classes, want builtins plus Game = %d",
			len(result.Classes), wantClasses)
	}

	if _, ok := result.Lookup("Num"); !ok {
		t.Error("core class Num missing from aggregate")
	}
	game, ok := result.Lookup("Game")
	if !ok {
		t.Fatal("root file's own class missing")
	}
	if len(game.Statics["new"]) != 1 || len(game.Methods["update"]) != 1 {
		t.Errorf("Game buckets incomplete: %v / %v", game.Statics, game.Methods)
	}
}

func TestAggregateCyclicImportsTerminate(t *testing.T) {
	agg, loader := newTestAggregator(map[string]string{
		"/proj/a.wren": `
import "b"
class A {
  ping() {}
}
`,
		"/proj/b.wren": `
import "a"
class B {
  pong() {}
}
`,
	})

	result, diags := agg.Aggregate(context.Background(), rootIndex(loader, "/proj/a.wren"))

	if len(diags) != 0 {
		t.Errorf("cycle should resolve cleanly, got %v", diags)
	}

	a, ok := result.Lookup("A")
	if !ok {
		t.Fatal("A missing")
	}
	b, ok := result.Lookup("B")
	if !ok {
		t.Fatal("B missing")
	}

	// Single-counting: each file's methods appear exactly once despite
	// being reachable along both directions of the cycle.
	if len(a.Methods["ping"]) != 1 {
		t.Errorf("A.ping counted %d times, want 1", len(a.Methods["ping"]))
	}
	if len(b.Methods["pong"]) != 1 {
		t.Errorf("B.pong counted %d times, want 1", len(b.Methods["pong"]))
	}
}

func TestAggregateSelectiveImport(t *testing.T) {
	agg, loader := newTestAggregator(map[string]string{
		"/proj/main.wren": `
import "geometry" for Vec2
`,
		"/proj/geometry.wren": `
class Vec2 {
  construct new(x, y) {}
}
class Vec3 {
  construct new(x, y, z) {}
}
`,
	})

	result, _ := agg.Aggregate(context.Background(), rootIndex(loader, "/proj/main.wren"))

	if _, ok := result.Lookup("Vec2"); !ok {
		t.Error("listed name Vec2 should be visible")
	}
	if _, ok := result.Lookup("Vec3"); ok {
		t.Error("unlisted name Vec3 should not be visible")
	}
}

func TestAggregateBuiltinModule(t *testing.T) {
	agg, loader := newTestAggregator(map[string]string{
		"/proj/main.wren": `
import "random"
`,
	})

	result, diags := agg.Aggregate(context.Background(), rootIndex(loader, "/proj/main.wren"))

	if len(diags) != 0 {
		t.Errorf("built-in module import should not produce diagnostics: %v", diags)
	}
	random, ok := result.Lookup("Random")
	if !ok {
		t.Fatal("Random should be injected from the built-in registry")
	}
	if len(random.Statics["new"]) == 0 {
		t.Error("Random constructors missing")
	}
}

func TestAggregateUnresolvedImport(t *testing.T) {
	agg, loader := newTestAggregator(map[string]string{
		"/proj/main.wren": `
import "missing"
class Survivor {
  alive() {}
}
`,
	})

	root := rootIndex(loader, "/proj/main.wren")
	result, diags := agg.Aggregate(context.Background(), root)

	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one unresolved-import warning", diags)
	}
	d := diags[0]
	if d.Severity != types.SeverityWarning {
		t.Errorf("severity = %v, want warning", d.Severity)
	}
	if d.Code != types.CodeUnresolvedImport {
		t.Errorf("code = %q", d.Code)
	}
	if d.Span != root.Imports[0].PathSpan {
		t.Errorf("span = %+v, want import path span %+v", d.Span, root.Imports[0].PathSpan)
	}

	// Resolution failure never blocks indexing of the rest of the file.
	if _, ok := result.Lookup("Survivor"); !ok {
		t.Error("classes in the same file should still be aggregated")
	}
}

func TestAggregateUnresolvedImportInDependencyIsSilent(t *testing.T) {
	agg, loader := newTestAggregator(map[string]string{
		"/proj/main.wren": `
import "lib"
`,
		"/proj/lib.wren": `
import "missing"
class Lib {}
`,
	})

	_, diags := agg.Aggregate(context.Background(), rootIndex(loader, "/proj/main.wren"))

	// The broken import sits in lib.wren; its span means nothing in the
	// root file, so no diagnostic is attributed there.
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none for non-root unresolved imports", diags)
	}
}

func TestAggregateSameNameClassesUnion(t *testing.T) {
	agg, loader := newTestAggregator(map[string]string{
		"/proj/main.wren": `
import "ext"
class Shape {
  area() {}
}
`,
		"/proj/ext.wren": `
class Shape {
  perimeter() {}
}
`,
	})

	result, _ := agg.Aggregate(context.Background(), rootIndex(loader, "/proj/main.wren"))

	shape, ok := result.Lookup("Shape")
	if !ok {
		t.Fatal("Shape missing")
	}
	if len(shape.Methods["area"]) != 1 || len(shape.Methods["perimeter"]) != 1 {
		t.Errorf("same-name classes should union methods, got %v", shape.Methods)
	}
}

func TestAggregateCancelledContext(t *testing.T) {
	agg, loader := newTestAggregator(map[string]string{
		"/proj/main.wren": `class Game {}`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, _ := agg.Aggregate(ctx, rootIndex(loader, "/proj/main.wren"))
	if result == nil {
		t.Fatal("cancelled aggregation should return a partial aggregate, not nil")
	}
}
