package cache

import (
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/wrensense/internal/analyzer"
	"github.com/standardbeagle/wrensense/internal/debug"
	"github.com/standardbeagle/wrensense/internal/resolve"
	"github.com/standardbeagle/wrensense/internal/symbols"
	"github.com/standardbeagle/wrensense/internal/types"
)

type externalEntry struct {
	analysis *Analysis
	mtime    time.Time
	hash     uint64
}

// ExternalCache caches analysis results for files that are not open in the
// editor, keyed by path with a stored modification time. Open state always
// wins over disk state, since the buffer may be ahead of what is saved; any
// I/O failure yields "no index" rather than an error, so an unreadable
// import degrades to an unresolved one.
type ExternalCache struct {
	analyze analyzer.Func
	docs    *DocumentCache
	openDoc func(path string) (types.Document, bool)

	mu      sync.RWMutex
	entries map[string]*externalEntry
}

// Load returns the analysis for a disk file, re-running analysis only when
// the stored mtime no longer matches and the bytes actually changed. The
// boolean is false when the file cannot be statted or read.
func (c *ExternalCache) Load(path string) (*Analysis, bool) {
	canon := resolve.Canonical(path)

	// Open documents are served from the document cache instead.
	if c.openDoc != nil {
		if doc, ok := c.openDoc(canon); ok {
			return c.docs.Get(doc), true
		}
	}

	info, err := os.Stat(canon)
	if err != nil || info.IsDir() {
		return nil, false
	}
	mtime := info.ModTime()

	c.mu.RLock()
	entry, ok := c.entries[canon]
	c.mu.RUnlock()
	if ok && entry.mtime.Equal(mtime) {
		return entry.analysis, true
	}

	data, err := os.ReadFile(canon)
	if err != nil {
		return nil, false
	}
	hash := xxhash.Sum64(data)
	if ok && entry.hash == hash {
		// Touched but unchanged; refresh the stored mtime only.
		c.mu.Lock()
		entry.mtime = mtime
		c.mu.Unlock()
		return entry.analysis, true
	}

	debug.LogCache("external %s analyzing (mtime %s)\n", canon, mtime.Format(time.RFC3339))
	result := c.analyze(string(data), canon)
	analysis := &Analysis{
		Module:      result.Module,
		Index:       symbols.Extract(result.Module, canon, 0),
		Diagnostics: result.Diagnostics,
	}

	c.mu.Lock()
	c.entries[canon] = &externalEntry{analysis: analysis, mtime: mtime, hash: hash}
	c.mu.Unlock()
	return analysis, true
}

// Remove deletes the entry for a path.
func (c *ExternalCache) Remove(path string) {
	canon := resolve.Canonical(path)
	c.mu.Lock()
	delete(c.entries, canon)
	c.mu.Unlock()
}

// Clear drops every entry. Search-root configuration changes clear this
// cache wholesale, since the same raw import string may now resolve to a
// different physical file.
func (c *ExternalCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*externalEntry)
	c.mu.Unlock()
}

// Len returns the number of cached files.
func (c *ExternalCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
