// Package cache holds the two per-file analysis caches: one for open
// documents keyed by editor version, one for on-disk files keyed by
// modification time. Both store immutable Analysis snapshots; invalidation
// deletes entries and lets the next query recompute, nothing is refreshed
// eagerly.
package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/wrensense/internal/analyzer"
	"github.com/standardbeagle/wrensense/internal/debug"
	"github.com/standardbeagle/wrensense/internal/resolve"
	"github.com/standardbeagle/wrensense/internal/symbols"
	"github.com/standardbeagle/wrensense/internal/types"
)

// Analysis is one file's cached result: the parsed module, the extracted
// symbol index, and the analyzer's diagnostics. An Analysis is immutable
// once produced; re-analysis replaces the whole value.
type Analysis struct {
	Module      *analyzer.Module
	Index       *types.FileIndex
	Diagnostics []types.Diagnostic
}

type documentEntry struct {
	analysis *Analysis
	version  int32
	hash     uint64
}

// DocumentCache caches analysis results for open documents. An entry is
// served only while its stored version equals the live document's version;
// every edit invalidates, every mismatch recomputes.
type DocumentCache struct {
	analyze analyzer.Func

	mu      sync.RWMutex
	entries map[string]*documentEntry

	external *ExternalCache
}

// NewCaches builds the document cache and the external file cache wired
// together: the external cache delegates to the document cache for open
// files, and document eviction clears the external shadow entry.
func NewCaches(analyze analyzer.Func, openDoc func(path string) (types.Document, bool)) (*DocumentCache, *ExternalCache) {
	docs := &DocumentCache{
		analyze: analyze,
		entries: make(map[string]*documentEntry),
	}
	ext := &ExternalCache{
		analyze: analyze,
		docs:    docs,
		openDoc: openDoc,
		entries: make(map[string]*externalEntry),
	}
	docs.external = ext
	return docs, ext
}

// Get returns the cached analysis when the stored entry's version equals the
// document's version; otherwise it re-analyzes, stores the new result, and
// returns it. A version bump over byte-identical text reuses the previous
// analysis, since analysis is idempotent over source bytes.
func (c *DocumentCache) Get(doc types.Document) *Analysis {
	canon := resolve.Canonical(doc.Path)

	c.mu.RLock()
	entry, ok := c.entries[canon]
	c.mu.RUnlock()
	if ok && entry.version == doc.Version {
		return entry.analysis
	}

	hash := xxhash.Sum64String(doc.Text)
	if ok && entry.hash == hash {
		// Same bytes under a newer version: keep the analysis, move the key.
		c.mu.Lock()
		entry.version = doc.Version
		c.mu.Unlock()
		debug.LogCache("document %s version %d reused identical content\n", canon, doc.Version)
		return entry.analysis
	}

	debug.LogCache("document %s version %d analyzing\n", canon, doc.Version)
	result := c.analyze(doc.Text, canon)
	analysis := &Analysis{
		Module:      result.Module,
		Index:       symbols.Extract(result.Module, canon, doc.Version),
		Diagnostics: result.Diagnostics,
	}

	c.mu.Lock()
	c.entries[canon] = &documentEntry{analysis: analysis, version: doc.Version, hash: hash}
	c.mu.Unlock()
	return analysis
}

// Peek returns the cached analysis for a path regardless of version, if one
// exists. The external cache uses it when delegating open files it has no
// live document for.
func (c *DocumentCache) Peek(path string) (*Analysis, bool) {
	canon := resolve.Canonical(path)
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[canon]
	if !ok {
		return nil, false
	}
	return entry.analysis, true
}

// Invalidate deletes the entry for a path unconditionally. Called on every
// edit; the recompute happens lazily on the next Get.
func (c *DocumentCache) Invalidate(path string) {
	canon := resolve.Canonical(path)
	c.mu.Lock()
	delete(c.entries, canon)
	c.mu.Unlock()
}

// Evict deletes both this cache's entry and the external cache's entry for
// the same path. Called on document close, so a subsequent reopen from disk
// is never served stale in-memory state.
func (c *DocumentCache) Evict(path string) {
	canon := resolve.Canonical(path)
	c.mu.Lock()
	delete(c.entries, canon)
	c.mu.Unlock()
	c.external.Remove(canon)
}

// Clear drops every entry.
func (c *DocumentCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*documentEntry)
	c.mu.Unlock()
}

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
