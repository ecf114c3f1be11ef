package symbols

import (
	"testing"

	"github.com/standardbeagle/wrensense/internal/analyzer"
	"github.com/standardbeagle/wrensense/internal/types"
)

func extract(t *testing.T, source string) *types.FileIndex {
	t.Helper()
	result := analyzer.Analyze(source, "/proj/test.wren")
	return Extract(result.Module, "/proj/test.wren", 3)
}

func TestExtractClassSplitsStatics(t *testing.T) {
	idx := extract(t, `
class Vec2 {
  construct new(x, y) {
    _x = x
    _y = y
  }
  x { _x }
  static zero() { return Vec2.new(0, 0) }
}
`)

	if idx.Version != 3 {
		t.Errorf("version = %d, want 3", idx.Version)
	}

	cls, ok := idx.ClassNamed("Vec2")
	if !ok {
		t.Fatal("Vec2 not extracted")
	}

	if len(cls.Methods) != 1 || cls.Methods[0].Name != "x" {
		t.Errorf("instance methods = %v", cls.Methods)
	}

	if len(cls.StaticMethods) != 2 {
		t.Fatalf("static bucket = %v, want constructor and zero", cls.StaticMethods)
	}
	var sawCtor, sawZero bool
	for _, m := range cls.StaticMethods {
		switch m.Name {
		case "new":
			sawCtor = true
			if !m.IsConstructor {
				t.Error("new should be flagged constructor")
			}
			if m.Signature != "Vec2.new(x, y)" {
				t.Errorf("constructor signature = %q", m.Signature)
			}
		case "zero":
			sawZero = true
			if !m.IsStatic {
				t.Error("zero should be flagged static")
			}
		}
	}
	if !sawCtor || !sawZero {
		t.Errorf("statics missing: ctor=%v zero=%v", sawCtor, sawZero)
	}
}

func TestExtractSubscriptParamsPrepended(t *testing.T) {
	idx := extract(t, `
class Grid {
  [x, y]=(value) { }
}
`)

	cls, ok := idx.ClassNamed("Grid")
	if !ok {
		t.Fatal("Grid not extracted")
	}
	m := cls.Methods[0]
	if m.Name != "[x, y]=" {
		t.Fatalf("name = %q", m.Name)
	}
	want := []string{"x", "y", "value"}
	if len(m.Params) != len(want) {
		t.Fatalf("params = %v, want %v", m.Params, want)
	}
	for i, p := range want {
		if m.Params[i] != p {
			t.Errorf("param %d = %q, want %q", i, m.Params[i], p)
		}
	}
}

func TestExtractFields(t *testing.T) {
	idx := extract(t, `
class Counter {
  construct new() {
    _count = 0
    __total = __total + 1
  }
  increment() {
    _count = _count + 1
  }
}
`)

	cls, ok := idx.ClassNamed("Counter")
	if !ok {
		t.Fatal("Counter not extracted")
	}
	names := make(map[string]bool)
	for _, f := range cls.Fields {
		names[f.Name] = true
	}
	if !names["_count"] || !names["__total"] {
		t.Errorf("fields = %v, want _count and __total", cls.Fields)
	}
	// _count appears in two methods but is one field
	count := 0
	for _, f := range cls.Fields {
		if f.Name == "_count" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("_count extracted %d times, want 1", count)
	}
}

func TestExtractImportsNormalized(t *testing.T) {
	idx := extract(t, `
import "geometry"
import "./util" for Clamp
`)

	if len(idx.Imports) != 2 {
		t.Fatalf("imports = %v", idx.Imports)
	}

	if idx.Imports[0].Module != "geometry" {
		t.Errorf("module = %q", idx.Imports[0].Module)
	}
	if idx.Imports[0].Path != "geometry.wren" {
		t.Errorf("normalized path = %q, want geometry.wren", idx.Imports[0].Path)
	}
	if idx.Imports[0].VisibleNames != nil {
		t.Error("plain import should expose everything")
	}

	sel := idx.Imports[1]
	if len(sel.VisibleNames) != 1 || sel.VisibleNames[0] != "Clamp" {
		t.Errorf("selective names = %v", sel.VisibleNames)
	}
	if !sel.Exposes("Clamp") || sel.Exposes("Other") {
		t.Error("selective visibility wrong")
	}
}

func TestExtractForeignClass(t *testing.T) {
	idx := extract(t, `
foreign class Buffer {
  foreign resize(size)
}
`)

	cls, ok := idx.ClassNamed("Buffer")
	if !ok {
		t.Fatal("Buffer not extracted")
	}
	if !cls.IsForeign {
		t.Error("foreign flag lost in extraction")
	}
	if !cls.Methods[0].IsForeign {
		t.Error("foreign method flag lost")
	}
}
