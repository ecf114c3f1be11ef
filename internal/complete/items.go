package complete

import (
	"github.com/standardbeagle/wrensense/internal/types"
)

// ItemKind is the editor-facing kind of a completion item.
type ItemKind int

const (
	ItemKeyword ItemKind = iota
	ItemClass
	ItemMethod
	ItemStatic
	ItemConstructor
)

// String returns a string representation of the item kind.
func (k ItemKind) String() string {
	switch k {
	case ItemKeyword:
		return "keyword"
	case ItemClass:
		return "class"
	case ItemMethod:
		return "method"
	case ItemStatic:
		return "static"
	case ItemConstructor:
		return "constructor"
	default:
		return "unknown"
	}
}

// Item is one completion candidate.
type Item struct {
	Label     string
	Kind      ItemKind
	Class     string
	Signature string
	Detail    string
}

// Wren keywords offered for bare-identifier completion.
var keywordItems = []string{
	"break", "class", "construct", "continue", "else", "false", "for",
	"foreign", "if", "import", "in", "is", "null", "return", "static",
	"super", "this", "true", "var", "while",
}

// itemKey deduplicates identical overloads reached through multiple
// traversal paths.
type itemKey struct {
	kind      ItemKind
	class     string
	signature string
}

// Items builds the completion candidates for a classified context. For a
// type-reference receiver, only that class's static and constructor bucket
// is offered; for a value reference with a known type, that class's
// instance bucket; for a value reference of unknown type, instance methods
// across every class in the aggregate; for bare identifiers, keywords plus
// all class names plus every method.
func Items(agg *types.Aggregate, ctx Context, locals map[string]string) []Item {
	builder := &itemBuilder{seen: make(map[itemKey]struct{})}

	recvKind, recvClass := ctx.Classify(locals)
	switch recvKind {
	case ReceiverType:
		if bucket, ok := agg.Lookup(recvClass); ok {
			builder.addBucket(bucket.Name, bucket.Statics, staticKind)
		}
	case ReceiverValue:
		if recvClass != "" {
			if bucket, ok := agg.Lookup(recvClass); ok {
				builder.addBucket(bucket.Name, bucket.Methods, func(types.MethodSymbol) ItemKind { return ItemMethod })
				break
			}
		}
		// Receiver type unknown: every class's instance methods.
		for _, name := range agg.ClassNames() {
			bucket := agg.Classes[name]
			builder.addBucket(bucket.Name, bucket.Methods, func(types.MethodSymbol) ItemKind { return ItemMethod })
		}
	default:
		for _, kw := range keywordItems {
			builder.add(Item{Label: kw, Kind: ItemKeyword, Signature: kw})
		}
		for _, name := range agg.ClassNames() {
			bucket := agg.Classes[name]
			builder.add(Item{Label: name, Kind: ItemClass, Class: name, Signature: name})
			builder.addBucket(bucket.Name, bucket.Methods, func(types.MethodSymbol) ItemKind { return ItemMethod })
			builder.addBucket(bucket.Name, bucket.Statics, staticKind)
		}
	}
	return builder.items
}

func staticKind(m types.MethodSymbol) ItemKind {
	if m.IsConstructor {
		return ItemConstructor
	}
	return ItemStatic
}

type itemBuilder struct {
	seen  map[itemKey]struct{}
	items []Item
}

func (b *itemBuilder) add(item Item) {
	key := itemKey{kind: item.Kind, class: item.Class, signature: item.Signature}
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	b.items = append(b.items, item)
}

func (b *itemBuilder) addBucket(class string, bucket map[string][]types.MethodSymbol, kindOf func(types.MethodSymbol) ItemKind) {
	for _, overloads := range bucket {
		for _, m := range overloads {
			b.add(Item{
				Label:     m.Name,
				Kind:      kindOf(m),
				Class:     class,
				Signature: m.Signature,
				Detail:    m.Signature,
			})
		}
	}
}
