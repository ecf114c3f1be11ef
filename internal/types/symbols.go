package types

import (
	"strings"
	"time"
)

// MethodSymbol describes one method declared on a class. Operator, subscript
// and setter names are kept verbatim, e.g. "+", "[index]", "[index]=" or
// "name=". A MethodSymbol is a value snapshot: it is copied freely between
// aggregation passes and never mutated after extraction.
type MethodSymbol struct {
	Name          string
	Params        []string
	IsStatic      bool
	IsConstructor bool
	IsForeign     bool
	Span          Span
	Signature     string
	ClassName     string
}

// FieldSymbol describes a field referenced inside a class body. Wren fields
// have no declarations; they are collected from first use of "_name" or
// "__name" tokens.
type FieldSymbol struct {
	Name     string
	IsStatic bool
	Span     Span
}

// ClassSymbol is a value snapshot of a single class declaration. Constructors
// are counted among the static methods: they are invoked on the class itself.
type ClassSymbol struct {
	Name          string
	Superclass    string
	IsForeign     bool
	Span          Span
	SelectionSpan Span
	Methods       []MethodSymbol
	StaticMethods []MethodSymbol
	Fields        []FieldSymbol
}

// MethodNamed returns the first instance or static method with the given
// name, preferring instance methods.
func (c *ClassSymbol) MethodNamed(name string) (MethodSymbol, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	for _, m := range c.StaticMethods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodSymbol{}, false
}

// ImportRecord is one import statement as extracted from a file. VisibleNames
// is nil for a plain `import "m"` and non-nil (possibly empty) for a
// selective `import "m" for X, Y`: only the listed names are exposed to the
// importing file.
type ImportRecord struct {
	Module       string
	Path         string
	PathSpan     Span
	VisibleNames []string
}

// IsSelective reports whether the import restricts visibility to a name list.
func (r ImportRecord) IsSelective() bool {
	return r.VisibleNames != nil
}

// Exposes reports whether a class with the given name is visible through
// this import.
func (r ImportRecord) Exposes(name string) bool {
	if r.VisibleNames == nil {
		return true
	}
	for _, n := range r.VisibleNames {
		if n == name {
			return true
		}
	}
	return false
}

// FileIndex is the per-file analysis snapshot: everything the workspace
// aggregator needs to know about one module. A FileIndex is replaced
// wholesale on re-analysis, never mutated in place. It is valid only while
// Version matches the live document's version (open files) or while the
// file's mtime is unchanged (disk files); the caches enforce that.
type FileIndex struct {
	Path       string
	Version    int32
	Classes    []ClassSymbol
	Imports    []ImportRecord
	CapturedAt time.Time
}

// ClassNamed returns the declared class with the given name, if any.
func (fi *FileIndex) ClassNamed(name string) (*ClassSymbol, bool) {
	for i := range fi.Classes {
		if fi.Classes[i].Name == name {
			return &fi.Classes[i], true
		}
	}
	return nil, false
}

// FormatSignature builds the human-readable signature label for a method,
// e.g. "Vec2.new(x, y)" or "count" for a getter.
func FormatSignature(className, methodName string, params []string) string {
	var sb strings.Builder
	if className != "" {
		sb.WriteString(className)
		sb.WriteByte('.')
	}
	sb.WriteString(methodName)
	// Getters and operator names carry no parameter list of their own.
	if len(params) > 0 && !strings.HasSuffix(methodName, "=") && !strings.HasPrefix(methodName, "[") {
		sb.WriteByte('(')
		sb.WriteString(strings.Join(params, ", "))
		sb.WriteByte(')')
	}
	return sb.String()
}
