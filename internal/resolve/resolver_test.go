package resolve

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare name", "vec", "vec.wren"},
		{"already has extension", "vec.wren", "vec.wren"},
		{"explicit relative", "./vec", "vec.wren"},
		{"parent relative", "../lib/vec", "../lib/vec.wren"},
		{"backslashes", `lib\vec`, "lib/vec.wren"},
		{"surrounding space", "  vec  ", "vec.wren"},
		{"redundant segments", "./lib/../vec", "vec.wren"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCandidatesOrder(t *testing.T) {
	r := NewResolver([]string{"/srv/lib"}, []string{"/srv/project"})

	got := r.Candidates("/srv/project/src/main.wren", "vec")
	want := []string{
		filepath.Clean("/srv/project/src/vec.wren"),
		filepath.Clean("/srv/lib/vec.wren"),
		filepath.Clean("/srv/project/vec.wren"),
	}
	if len(got) != len(want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCandidatesDeduplicates(t *testing.T) {
	// The file's own directory equals the workspace root here; the join
	// produces the same path twice and must be emitted once.
	r := NewResolver(nil, []string{"/srv/project"})

	got := r.Candidates("/srv/project/main.wren", "vec")
	if len(got) != 1 {
		t.Fatalf("candidates = %v, want exactly one entry", got)
	}
}

func TestCandidatesParentRelative(t *testing.T) {
	r := NewResolver(nil, nil)

	got := r.Candidates("/srv/project/src/main.wren", "../shared/util")
	if len(got) != 1 {
		t.Fatalf("candidates = %v", got)
	}
	if !strings.HasSuffix(got[0], filepath.Clean("/srv/project/shared/util.wren")) {
		t.Errorf("parent-relative candidate = %q", got[0])
	}
}

func TestCanonicalIsStable(t *testing.T) {
	a := Canonical("/srv/project/./src/../src/main.wren")
	b := Canonical("/srv/project/src/main.wren")
	if a != b {
		t.Errorf("Canonical should collapse equivalent spellings: %q vs %q", a, b)
	}
}
