package types

// AggregatedClass merges every declaration of one class name reachable from
// a root file into a pair of overload buckets. Two files both declaring
// `class Foo` union their methods here; the index treats that as
// extension-by-name rather than a conflict. Overload lists preserve
// first-seen order from traversal.
type AggregatedClass struct {
	Name    string
	Methods map[string][]MethodSymbol // instance methods by name
	Statics map[string][]MethodSymbol // static methods and constructors by name
}

// NewAggregatedClass creates an empty bucket for a class name.
func NewAggregatedClass(name string) *AggregatedClass {
	return &AggregatedClass{
		Name:    name,
		Methods: make(map[string][]MethodSymbol),
		Statics: make(map[string][]MethodSymbol),
	}
}

// Merge appends all of one class snapshot's methods to the buckets.
func (a *AggregatedClass) Merge(class *ClassSymbol) {
	for _, m := range class.Methods {
		a.Methods[m.Name] = append(a.Methods[m.Name], m)
	}
	for _, m := range class.StaticMethods {
		a.Statics[m.Name] = append(a.Statics[m.Name], m)
	}
}

// Aggregate is the workspace-wide view of all classes reachable from one
// root file's import graph, plus the built-in classes. Built fresh per query
// from a fresh worklist and visited set; never patched incrementally.
type Aggregate struct {
	Classes map[string]*AggregatedClass
	Order   []string // class names in first-seen traversal order
}

// NewAggregate creates an empty aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{Classes: make(map[string]*AggregatedClass)}
}

// Bucket returns the bucket for a class name, creating it on first use.
func (a *Aggregate) Bucket(name string) *AggregatedClass {
	if b, ok := a.Classes[name]; ok {
		return b
	}
	b := NewAggregatedClass(name)
	a.Classes[name] = b
	a.Order = append(a.Order, name)
	return b
}

// Lookup returns the bucket for a class name, if present.
func (a *Aggregate) Lookup(name string) (*AggregatedClass, bool) {
	b, ok := a.Classes[name]
	return b, ok
}

// ClassNames returns every aggregated class name in first-seen order.
func (a *Aggregate) ClassNames() []string {
	out := make([]string, len(a.Order))
	copy(out, a.Order)
	return out
}

// TypeResolution is the scope resolver's answer for one query offset: the
// enclosing class, if the offset sits inside a class body, and the inferred
// type name for every locally visible variable the resolver could type.
// Variables whose type could not be inferred are omitted from Locals.
type TypeResolution struct {
	EnclosingClass string
	Locals         map[string]string
}
