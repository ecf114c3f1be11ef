package signature

import (
	"strings"
	"testing"

	"github.com/standardbeagle/wrensense/internal/types"
)

// findAt locates the call context with the cursor at the marker.
func findAt(t *testing.T, source string) (Call, bool) {
	t.Helper()
	offset := strings.Index(source, "|")
	if offset < 0 {
		t.Fatal("cursor marker | missing")
	}
	return Find(strings.Replace(source, "|", "", 1), offset)
}

func TestFindCallContext(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		member   string
		receiver string
		index    int
	}{
		{"first param", "n.clamp(0,|", "clamp", "n", 1},
		{"at open paren", "n.clamp(|", "clamp", "n", 0},
		{"second comma", "lerp(a, b,| t", "lerp", "", 2},
		{"no receiver", "print(|", "print", "", 0},
		{"static call", "Vec2.new(1,|", "new", "Vec2", 1},
		{"nested call outer", "outer(inner(1, 2),|", "outer", "", 1},
		{"nested call inner", "outer(inner(1,| 2)", "inner", "", 1},
		{"closed call ignored", "done(1, 2) + next(|", "next", "", 0},
		{"multiline args", "wrap(\n  first,\n  |", "wrap", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, ok := findAt(t, tt.source)
			if !ok {
				t.Fatal("no call found")
			}
			if call.Member != tt.member {
				t.Errorf("member = %q, want %q", call.Member, tt.member)
			}
			if call.Receiver != tt.receiver {
				t.Errorf("receiver = %q, want %q", call.Receiver, tt.receiver)
			}
			if call.ParamIndex != tt.index {
				t.Errorf("param index = %d, want %d", call.ParamIndex, tt.index)
			}
		})
	}
}

func TestFindOutsideCall(t *testing.T) {
	sources := []string{
		"var x = 1|",
		"done(1, 2)|",
		"|",
	}
	for _, src := range sources {
		if call, ok := findAt(t, src); ok {
			t.Errorf("Find(%q) = %+v, want no call", src, call)
		}
	}
}

func testAggregate() *types.Aggregate {
	agg := types.NewAggregate()
	num := &types.ClassSymbol{
		Name: "Num",
		Methods: []types.MethodSymbol{
			{Name: "clamp", Params: []string{"min", "max"}, ClassName: "Num", Signature: "Num.clamp(min, max)"},
		},
	}
	vec := &types.ClassSymbol{
		Name: "Vec2",
		Methods: []types.MethodSymbol{
			{Name: "clamp", Params: []string{"limit"}, ClassName: "Vec2", Signature: "Vec2.clamp(limit)"},
		},
		StaticMethods: []types.MethodSymbol{
			{Name: "new", Params: []string{"x", "y"}, IsConstructor: true, ClassName: "Vec2", Signature: "Vec2.new(x, y)"},
			{Name: "new", Params: []string{"x", "y", "z"}, IsConstructor: true, ClassName: "Vec2", Signature: "Vec2.new(x, y, z)"},
		},
	}
	agg.Bucket("Num").Merge(num)
	agg.Bucket("Vec2").Merge(vec)
	return agg
}

func TestBuildTypedReceiver(t *testing.T) {
	agg := testAggregate()
	call := Call{Member: "clamp", Receiver: "n", ParamIndex: 1}

	infos := Build(agg, call, map[string]string{"n": "Num"})
	if len(infos) != 1 {
		t.Fatalf("infos = %v, want exactly Num.clamp", infos)
	}
	if infos[0].Label != "Num.clamp(min, max)" {
		t.Errorf("label = %q", infos[0].Label)
	}
	if infos[0].ActiveParam != 1 {
		t.Errorf("active param = %d, want 1", infos[0].ActiveParam)
	}
}

func TestBuildStaticReceiverOverloads(t *testing.T) {
	agg := testAggregate()
	call := Call{Member: "new", Receiver: "Vec2"}

	infos := Build(agg, call, nil)
	if len(infos) != 2 {
		t.Fatalf("overload count = %d, want 2", len(infos))
	}
}

func TestBuildUnknownReceiverSearchesAllClasses(t *testing.T) {
	agg := testAggregate()
	call := Call{Member: "clamp", Receiver: "mystery"}

	infos := Build(agg, call, nil)
	if len(infos) != 2 {
		t.Fatalf("infos = %v, want clamp from both Num and Vec2", infos)
	}
}

func TestBuildLocalBindingBeatsCapitalization(t *testing.T) {
	agg := testAggregate()
	// A local named like a class still resolves through its binding.
	call := Call{Member: "clamp", Receiver: "Vec2"}

	infos := Build(agg, call, map[string]string{"Vec2": "Num"})
	if len(infos) != 1 || infos[0].Class != "Num" {
		t.Errorf("infos = %v, want the binding's class Num", infos)
	}
}

func TestBuildUnknownMember(t *testing.T) {
	agg := testAggregate()
	call := Call{Member: "nonexistent", Receiver: "n"}

	if infos := Build(agg, call, nil); len(infos) != 0 {
		t.Errorf("infos = %v, want none for unknown member", infos)
	}
}
