// Package builtins holds the fixed table of Wren core classes and the two
// optional built-in modules, "random" and "meta". The registry is immutable
// process-wide state, constructed once at init and never mutated; callers
// receive copies of the class slices so aggregation passes cannot bleed into
// each other.
package builtins

import "github.com/standardbeagle/wrensense/internal/types"

// Base type names produced by literal inference.
const (
	TypeNum    = "Num"
	TypeString = "String"
	TypeBool   = "Bool"
	TypeList   = "List"
	TypeMap    = "Map"
	TypeRange  = "Range"
	TypeNull   = "Null"
	TypeFn     = "Fn"
)

var coreClasses []types.ClassSymbol

var moduleClasses = map[string][]types.ClassSymbol{}

// classBuilder accumulates methods for one built-in class declaration.
type classBuilder struct {
	class types.ClassSymbol
}

func newClass(name string) *classBuilder {
	return &classBuilder{class: types.ClassSymbol{Name: name}}
}

func (b *classBuilder) method(name string, params ...string) *classBuilder {
	b.class.Methods = append(b.class.Methods, types.MethodSymbol{
		Name:      name,
		Params:    params,
		Signature: types.FormatSignature(b.class.Name, name, params),
		ClassName: b.class.Name,
	})
	return b
}

func (b *classBuilder) static(name string, params ...string) *classBuilder {
	b.class.StaticMethods = append(b.class.StaticMethods, types.MethodSymbol{
		Name:      name,
		Params:    params,
		IsStatic:  true,
		Signature: types.FormatSignature(b.class.Name, name, params),
		ClassName: b.class.Name,
	})
	return b
}

func (b *classBuilder) construct(name string, params ...string) *classBuilder {
	b.class.StaticMethods = append(b.class.StaticMethods, types.MethodSymbol{
		Name:          name,
		Params:        params,
		IsStatic:      true,
		IsConstructor: true,
		Signature:     types.FormatSignature(b.class.Name, name, params),
		ClassName:     b.class.Name,
	})
	return b
}

func (b *classBuilder) done() types.ClassSymbol { return b.class }

func init() {
	coreClasses = []types.ClassSymbol{
		newClass("Object").
			method("toString").
			method("type").
			method("==", "other").
			method("!=", "other").
			static("same", "obj1", "obj2").
			done(),
		newClass("Bool").
			method("!").
			method("toString").
			done(),
		newClass("Class").
			method("name").
			method("supertype").
			method("attributes").
			done(),
		newClass("Fiber").
			construct("new", "fn").
			static("abort", "message").
			static("current").
			static("suspend").
			static("yield").
			static("yield", "value").
			method("call").
			method("call", "value").
			method("error").
			method("isDone").
			method("transfer").
			method("transfer", "value").
			method("try").
			method("try", "value").
			done(),
		newClass("Fn").
			construct("new", "block").
			method("arity").
			method("call", "args").
			done(),
		newClass("Null").
			method("!").
			method("toString").
			done(),
		newClass("Num").
			static("fromString", "value").
			static("infinity").
			static("nan").
			static("pi").
			static("tau").
			static("largest").
			static("smallest").
			static("maxSafeInteger").
			static("minSafeInteger").
			method("abs").
			method("acos").
			method("asin").
			method("atan").
			method("atan", "x").
			method("cbrt").
			method("ceil").
			method("clamp", "min", "max").
			method("cos").
			method("exp").
			method("floor").
			method("fraction").
			method("isInfinity").
			method("isInteger").
			method("isNan").
			method("log").
			method("log2").
			method("max", "other").
			method("min", "other").
			method("pow", "power").
			method("round").
			method("sign").
			method("sin").
			method("sqrt").
			method("tan").
			method("truncate").
			method("toString").
			done(),
		newClass("Sequence").
			method("all", "predicate").
			method("any", "predicate").
			method("contains", "element").
			method("count").
			method("count", "predicate").
			method("each", "fn").
			method("isEmpty").
			method("join").
			method("join", "separator").
			method("map", "transformation").
			method("reduce", "fn").
			method("reduce", "seed", "fn").
			method("skip", "count").
			method("take", "count").
			method("toList").
			method("where", "predicate").
			done(),
		newClass("String").
			static("fromByte", "byte").
			static("fromCodePoint", "codePoint").
			method("bytes").
			method("codePoints").
			method("contains", "other").
			method("count").
			method("endsWith", "suffix").
			method("indexOf", "search").
			method("indexOf", "search", "start").
			method("replace", "from", "to").
			method("split", "separator").
			method("startsWith", "prefix").
			method("trim").
			method("trim", "chars").
			method("trimEnd").
			method("trimStart").
			method("[index]").
			done(),
		newClass("List").
			construct("new").
			construct("filled", "size", "element").
			method("add", "item").
			method("addAll", "other").
			method("clear").
			method("count").
			method("indexOf", "value").
			method("insert", "index", "item").
			method("remove", "value").
			method("removeAt", "index").
			method("sort").
			method("sort", "comparer").
			method("swap", "index0", "index1").
			method("[index]").
			method("[index]=", "value").
			done(),
		newClass("Map").
			construct("new").
			method("clear").
			method("containsKey", "key").
			method("count").
			method("keys").
			method("remove", "key").
			method("values").
			method("[key]").
			method("[key]=", "value").
			done(),
		newClass("Range").
			method("from").
			method("to").
			method("min").
			method("max").
			method("isInclusive").
			done(),
		newClass("System").
			static("clock").
			static("gc").
			static("print").
			static("print", "object").
			static("printAll", "sequence").
			static("write", "object").
			static("writeAll", "sequence").
			done(),
	}

	moduleClasses["random"] = []types.ClassSymbol{
		newClass("Random").
			construct("new").
			construct("new", "seed").
			method("float").
			method("float", "end").
			method("float", "start", "end").
			method("int", "end").
			method("int", "start", "end").
			method("sample", "list").
			method("sample", "list", "count").
			method("shuffle", "list").
			done(),
	}
	moduleClasses["meta"] = []types.ClassSymbol{
		newClass("Meta").
			static("compile", "source").
			static("compileExpression", "source").
			static("eval", "source").
			static("getModuleVariables", "module").
			done(),
	}
}

// CoreClasses returns a copy of the always-available core class table.
func CoreClasses() []types.ClassSymbol {
	out := make([]types.ClassSymbol, len(coreClasses))
	copy(out, coreClasses)
	return out
}

// IsBuiltinModule reports whether an import names a built-in module. Such
// imports never touch the import resolver or the disk.
func IsBuiltinModule(name string) bool {
	_, ok := moduleClasses[name]
	return ok
}

// ModuleClasses returns a copy of the classes synthesized for a built-in
// module import, and whether the module exists.
func ModuleClasses(name string) ([]types.ClassSymbol, bool) {
	classes, ok := moduleClasses[name]
	if !ok {
		return nil, false
	}
	out := make([]types.ClassSymbol, len(classes))
	copy(out, classes)
	return out, true
}

// BuiltinModuleNames returns the names of the optional built-in modules.
func BuiltinModuleNames() []string {
	return []string{"meta", "random"}
}
