package cache

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/standardbeagle/wrensense/internal/analyzer"
	"github.com/standardbeagle/wrensense/internal/types"
)

// countingAnalyzer wraps the real analyzer and counts invocations so
// tests can assert when analysis was skipped.
func countingAnalyzer(count *int64) analyzer.Func {
	return func(source, path string) analyzer.Result {
		atomic.AddInt64(count, 1)
		return analyzer.Analyze(source, path)
	}
}

func newTestCaches(count *int64) (*DocumentCache, *ExternalCache) {
	return NewCaches(countingAnalyzer(count), nil)
}

func TestDocumentCacheVersionIdentity(t *testing.T) {
	var calls int64
	docs, _ := newTestCaches(&calls)

	doc := types.Document{Path: "/proj/a.wren", Version: 1, Text: "class A {}"}
	first := docs.Get(doc)
	second := docs.Get(doc)

	if first != second {
		t.Error("unchanged version must return the identical analysis")
	}
	if calls != 1 {
		t.Errorf("analyze called %d times, want 1", calls)
	}
}

func TestDocumentCacheVersionBumpSameBytes(t *testing.T) {
	var calls int64
	docs, _ := newTestCaches(&calls)

	text := "class A {}"
	first := docs.Get(types.Document{Path: "/proj/a.wren", Version: 1, Text: text})
	second := docs.Get(types.Document{Path: "/proj/a.wren", Version: 2, Text: text})

	if first != second {
		t.Error("identical bytes under a new version should reuse the analysis")
	}
	if calls != 1 {
		t.Errorf("analyze called %d times, want 1", calls)
	}

	// The entry is now keyed to version 2.
	docs.Get(types.Document{Path: "/proj/a.wren", Version: 2, Text: text})
	if calls != 1 {
		t.Errorf("analyze called %d times after re-query, want 1", calls)
	}
}

func TestDocumentCacheReanalyzesChangedText(t *testing.T) {
	var calls int64
	docs, _ := newTestCaches(&calls)

	first := docs.Get(types.Document{Path: "/proj/a.wren", Version: 1, Text: "class A {}"})
	second := docs.Get(types.Document{Path: "/proj/a.wren", Version: 2, Text: "class B {}"})

	if first == second {
		t.Error("changed text must produce a new analysis")
	}
	if calls != 2 {
		t.Errorf("analyze called %d times, want 2", calls)
	}
	if _, ok := second.Index.ClassNamed("B"); !ok {
		t.Error("new analysis should reflect the new text")
	}
}

func TestDocumentCacheInvalidate(t *testing.T) {
	var calls int64
	docs, _ := newTestCaches(&calls)

	doc := types.Document{Path: "/proj/a.wren", Version: 1, Text: "class A {}"}
	docs.Get(doc)
	docs.Invalidate(doc.Path)
	docs.Get(doc)

	if calls != 2 {
		t.Errorf("analyze called %d times after invalidate, want 2", calls)
	}
}

func TestEvictClearsBothCaches(t *testing.T) {
	var calls int64
	docs, ext := newTestCaches(&calls)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.wren")
	if err := os.WriteFile(path, []byte("class A {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := ext.Load(path); !ok {
		t.Fatal("external load failed")
	}
	docs.Get(types.Document{Path: path, Version: 1, Text: "class A {}"})

	if docs.Len() != 1 || ext.Len() != 1 {
		t.Fatalf("precondition: docs=%d ext=%d, want 1 and 1", docs.Len(), ext.Len())
	}

	docs.Evict(path)

	if docs.Len() != 0 {
		t.Error("document entry should be gone after evict")
	}
	if ext.Len() != 0 {
		t.Error("external entry should be gone after evict")
	}
}

func TestExternalCacheMtimeReuse(t *testing.T) {
	var calls int64
	_, ext := newTestCaches(&calls)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.wren")
	if err := os.WriteFile(path, []byte("class A {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	first, ok := ext.Load(path)
	if !ok {
		t.Fatal("load failed")
	}
	second, _ := ext.Load(path)

	if first != second {
		t.Error("unchanged mtime should serve the cached analysis")
	}
	if calls != 1 {
		t.Errorf("analyze called %d times, want 1", calls)
	}
}

func TestExternalCacheMissingFile(t *testing.T) {
	var calls int64
	_, ext := newTestCaches(&calls)

	if _, ok := ext.Load("/nonexistent/missing.wren"); ok {
		t.Error("missing file should report no index")
	}
	if calls != 0 {
		t.Error("missing file must not reach the analyzer")
	}
}

func TestExternalCacheDirectory(t *testing.T) {
	var calls int64
	_, ext := newTestCaches(&calls)

	if _, ok := ext.Load(t.TempDir()); ok {
		t.Error("directory should report no index")
	}
}

func TestExternalCachePrefersOpenDocument(t *testing.T) {
	var calls int64
	open := map[string]types.Document{}
	docsLookup := func(path string) (types.Document, bool) {
		doc, ok := open[path]
		return doc, ok
	}
	_, ext := NewCaches(countingAnalyzer(&calls), docsLookup)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.wren")
	if err := os.WriteFile(path, []byte("class Disk {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Register a newer in-editor buffer for the same path. Canonical form
	// matters: the cache looks up by canonical path.
	canonical := path
	open[canonical] = types.Document{Path: path, Version: 7, Text: "class Buffer {}"}

	analysis, ok := ext.Load(path)
	if !ok {
		t.Fatal("load failed")
	}
	if _, found := analysis.Index.ClassNamed("Buffer"); !found {
		t.Error("open buffer should win over the disk copy")
	}
	if _, found := analysis.Index.ClassNamed("Disk"); found {
		t.Error("disk contents leaked through for an open document")
	}
}

func TestExternalCacheClear(t *testing.T) {
	var calls int64
	_, ext := newTestCaches(&calls)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.wren")
	if err := os.WriteFile(path, []byte("class A {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	ext.Load(path)
	ext.Clear()
	if ext.Len() != 0 {
		t.Error("clear should drop all entries")
	}

	ext.Load(path)
	if calls != 2 {
		t.Errorf("analyze called %d times, want 2 after clear", calls)
	}
}
