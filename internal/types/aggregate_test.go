package types

import "testing"

func TestFormatSignature(t *testing.T) {
	tests := []struct {
		name   string
		class  string
		method string
		params []string
		want   string
	}{
		{"getter", "Vec2", "x", nil, "Vec2.x"},
		{"method with params", "Vec2", "dot", []string{"other"}, "Vec2.dot(other)"},
		{"constructor", "Vec2", "new", []string{"x", "y"}, "Vec2.new(x, y)"},
		{"setter", "Vec2", "x=", []string{"value"}, "Vec2.x="},
		{"subscript", "Grid", "[x, y]", []string{"x", "y"}, "Grid.[x, y]"},
		{"subscript setter", "Grid", "[x, y]=", []string{"x", "y", "value"}, "Grid.[x, y]="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSignature(tt.class, tt.method, tt.params)
			if got != tt.want {
				t.Errorf("FormatSignature(%q, %q, %v) = %q, want %q",
					tt.class, tt.method, tt.params, got, tt.want)
			}
		})
	}
}

func TestAggregateBucketRecordsOrder(t *testing.T) {
	agg := NewAggregate()
	agg.Bucket("Num")
	agg.Bucket("Vec2")
	agg.Bucket("Num") // existing bucket, order unchanged

	want := []string{"Num", "Vec2"}
	if len(agg.Order) != len(want) {
		t.Fatalf("Order = %v, want %v", agg.Order, want)
	}
	for i, name := range want {
		if agg.Order[i] != name {
			t.Errorf("Order[%d] = %q, want %q", i, agg.Order[i], name)
		}
	}
}

func TestAggregatedClassMergeUnionsSameName(t *testing.T) {
	agg := NewAggregate()

	first := ClassSymbol{
		Name:    "Vec2",
		Methods: []MethodSymbol{{Name: "x", ClassName: "Vec2"}},
	}
	second := ClassSymbol{
		Name:          "Vec2",
		Methods:       []MethodSymbol{{Name: "y", ClassName: "Vec2"}},
		StaticMethods: []MethodSymbol{{Name: "zero", IsStatic: true, ClassName: "Vec2"}},
	}

	agg.Bucket("Vec2").Merge(&first)
	agg.Bucket("Vec2").Merge(&second)

	cls, ok := agg.Lookup("Vec2")
	if !ok {
		t.Fatal("Vec2 bucket missing after merge")
	}
	if len(cls.Methods["x"]) != 1 || len(cls.Methods["y"]) != 1 {
		t.Errorf("same-name classes should union methods, got %v", cls.Methods)
	}
	if len(cls.Statics["zero"]) != 1 {
		t.Errorf("statics not merged, got %v", cls.Statics)
	}
}

func TestAggregatedClassMergeKeepsOverloads(t *testing.T) {
	agg := NewAggregate()
	cls := ClassSymbol{
		Name: "List",
		Methods: []MethodSymbol{
			{Name: "insert", Params: []string{"index", "item"}},
			{Name: "insert", Params: []string{"item"}},
		},
	}
	agg.Bucket("List").Merge(&cls)

	got, _ := agg.Lookup("List")
	if len(got.Methods["insert"]) != 2 {
		t.Errorf("overloads should accumulate, got %d entries", len(got.Methods["insert"]))
	}
}

func TestImportRecordVisibility(t *testing.T) {
	all := ImportRecord{Module: "vec", Path: "./vec.wren"}
	if all.IsSelective() {
		t.Error("nil VisibleNames should not be selective")
	}
	if !all.Exposes("Anything") {
		t.Error("non-selective import should expose every name")
	}

	sel := ImportRecord{Module: "vec", Path: "./vec.wren", VisibleNames: []string{"Vec2"}}
	if !sel.IsSelective() {
		t.Error("VisibleNames set should be selective")
	}
	if !sel.Exposes("Vec2") || sel.Exposes("Vec3") {
		t.Error("selective import should expose only listed names")
	}
}
