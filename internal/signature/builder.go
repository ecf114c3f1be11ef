package signature

import (
	"github.com/standardbeagle/wrensense/internal/types"
)

// Information is one signature overload offered for the active call.
type Information struct {
	Label       string
	Params      []string
	Class       string
	ActiveParam int
}

// Build looks up the called member in the aggregate and returns one
// Information per overload found. Known local bindings resolve the receiver
// first: a typed receiver narrows the search to that class's instance
// bucket. Otherwise a capitalized receiver selects that class's static
// bucket, and anything else searches instance buckets across every class.
func Build(agg *types.Aggregate, call Call, locals map[string]string) []Information {
	var out []Information
	appendOverloads := func(class string, overloads []types.MethodSymbol) {
		for _, m := range overloads {
			out = append(out, Information{
				Label:       m.Signature,
				Params:      m.Params,
				Class:       class,
				ActiveParam: call.ParamIndex,
			})
		}
	}

	if call.Receiver != "" {
		if typeName, ok := locals[call.Receiver]; ok {
			if bucket, found := agg.Lookup(typeName); found {
				appendOverloads(bucket.Name, bucket.Methods[call.Member])
			}
			return out
		}
		if isCapitalized(call.Receiver) {
			if bucket, found := agg.Lookup(call.Receiver); found {
				appendOverloads(bucket.Name, bucket.Statics[call.Member])
			}
			return out
		}
	}

	// Value receiver of unknown type, or no receiver at all: every class's
	// instance bucket may apply.
	for _, name := range agg.ClassNames() {
		bucket := agg.Classes[name]
		appendOverloads(bucket.Name, bucket.Methods[call.Member])
	}
	return out
}

func isCapitalized(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
