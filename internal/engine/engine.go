package engine

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/standardbeagle/wrensense/internal/analyzer"
	"github.com/standardbeagle/wrensense/internal/cache"
	"github.com/standardbeagle/wrensense/internal/complete"
	"github.com/standardbeagle/wrensense/internal/config"
	"github.com/standardbeagle/wrensense/internal/debug"
	"github.com/standardbeagle/wrensense/internal/errors"
	"github.com/standardbeagle/wrensense/internal/resolve"
	"github.com/standardbeagle/wrensense/internal/scope"
	"github.com/standardbeagle/wrensense/internal/signature"
	"github.com/standardbeagle/wrensense/internal/types"
	"github.com/standardbeagle/wrensense/internal/workspace"
)

// Engine is the facade over the caches, the aggregator and the query
// layers. Editor transports (MCP, CLI) talk only to the engine.
type Engine struct {
	mu sync.RWMutex

	cfg        *config.Config
	docs       map[string]types.Document
	docCache   *cache.DocumentCache
	extCache   *cache.ExternalCache
	resolver   *resolve.Resolver
	aggregator *workspace.Aggregator
	scanner    *workspace.Scanner
	watcher    *workspace.Watcher

	diag *diagScheduler
}

// New creates an engine for the given configuration. The watcher is not
// started; call StartWatching when live updates are wanted.
func New(cfg *config.Config) *Engine {
	e := &Engine{
		cfg:  cfg,
		docs: make(map[string]types.Document),
	}
	e.docCache, e.extCache = cache.NewCaches(analyzer.Analyze, e.openDoc)
	e.rebuildLocked(cfg)
	e.diag = newDiagScheduler(e)
	return e
}

// rebuildLocked constructs the config-derived components. Callers hold
// e.mu or are in the constructor.
func (e *Engine) rebuildLocked(cfg *config.Config) {
	e.cfg = cfg
	e.resolver = resolve.NewResolver(cfg.Modules.SearchRoots, []string{cfg.Project.Root})
	e.aggregator = workspace.NewAggregator(e.extCache, e.resolver)
	e.scanner = workspace.NewScanner(cfg)
}

// openDoc feeds the external cache lookups for paths that are open in
// the editor. The open buffer always wins over the disk copy.
func (e *Engine) openDoc(path string) (types.Document, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	doc, ok := e.docs[path]
	return doc, ok
}

// Config returns the active configuration.
func (e *Engine) Config() *config.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// ApplyConfig swaps in a new configuration. Import resolution and the
// aggregation graph depend on search roots, so the external cache is
// cleared and the watcher restarted against the new tree.
func (e *Engine) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	restartWatch := e.watcher != nil
	if restartWatch {
		e.watcher.Stop()
		e.watcher = nil
	}
	e.rebuildLocked(cfg)
	e.mu.Unlock()

	e.extCache.Clear()
	debug.Log("engine", "configuration applied, external cache cleared")

	if restartWatch {
		return e.StartWatching()
	}
	return nil
}

// OpenDocument registers an editor buffer. Subsequent queries for this
// path see the buffer text instead of the disk copy.
func (e *Engine) OpenDocument(path, text string, version int32) {
	e.mu.Lock()
	e.docs[path] = types.Document{Path: path, Version: version, Text: text}
	e.mu.Unlock()

	e.docCache.Invalidate(path)
	e.diag.schedule(path)
}

// UpdateDocument replaces the buffer contents for an open document.
func (e *Engine) UpdateDocument(path, text string, version int32) {
	e.OpenDocument(path, text, version)
}

// CloseDocument unregisters an editor buffer. The next query falls back
// to the disk copy.
func (e *Engine) CloseDocument(path string) {
	e.mu.Lock()
	delete(e.docs, path)
	e.mu.Unlock()

	e.docCache.Evict(path)
	e.diag.cancel(path)
}

// sourceFor returns the text backing path, preferring the open buffer.
func (e *Engine) sourceFor(path string) (types.Document, error) {
	if doc, ok := e.openDoc(path); ok {
		return doc, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, errors.NewFileError("read", path, err)
	}
	return types.Document{Path: path, Version: 0, Text: string(content)}, nil
}

// analysisFor returns the cached analysis for path, analyzing on miss.
func (e *Engine) analysisFor(path string) (*cache.Analysis, error) {
	if doc, ok := e.openDoc(path); ok {
		return e.docCache.Get(doc), nil
	}
	analysis, ok := e.extCache.Load(path)
	if !ok {
		return nil, errors.NewFileError("analyze", path, os.ErrNotExist)
	}
	return analysis, nil
}

// Outline returns the per-file symbol index for path.
func (e *Engine) Outline(path string) (*types.FileIndex, error) {
	analysis, err := e.analysisFor(path)
	if err != nil {
		return nil, err
	}
	return analysis.Index, nil
}

// Diagnostics returns the diagnostics for path. Lexer and parser errors
// are always included; unresolved-import warnings are appended only
// when extended diagnostics are enabled.
func (e *Engine) Diagnostics(ctx context.Context, path string) ([]types.Diagnostic, error) {
	analysis, err := e.analysisFor(path)
	if err != nil {
		return nil, err
	}

	diags := make([]types.Diagnostic, len(analysis.Diagnostics))
	copy(diags, analysis.Diagnostics)

	if e.Config().Diagnostics.Enabled {
		_, importDiags := e.aggregateFor(ctx, analysis.Index)
		diags = append(diags, importDiags...)
	}
	return diags, nil
}

// AggregateFor returns the workspace-wide class aggregate rooted at
// path, together with any unresolved-import warnings for that file.
func (e *Engine) AggregateFor(ctx context.Context, path string) (*types.Aggregate, []types.Diagnostic, error) {
	analysis, err := e.analysisFor(path)
	if err != nil {
		return nil, nil, err
	}
	agg, diags := e.aggregateFor(ctx, analysis.Index)
	return agg, diags, nil
}

func (e *Engine) aggregateFor(ctx context.Context, root *types.FileIndex) (*types.Aggregate, []types.Diagnostic) {
	e.mu.RLock()
	agg := e.aggregator
	e.mu.RUnlock()
	return agg.Aggregate(ctx, root)
}

// TypedLocals resolves the identifiers in scope at offset to their
// declared or inferred type names.
func (e *Engine) TypedLocals(path string, offset int) (types.TypeResolution, error) {
	analysis, err := e.analysisFor(path)
	if err != nil {
		return types.TypeResolution{}, err
	}
	return scope.Resolve(analysis.Module, offset), nil
}

// Complete returns ranked completion items for the cursor at offset.
func (e *Engine) Complete(ctx context.Context, path string, offset int) ([]complete.Item, error) {
	doc, err := e.sourceFor(path)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset > len(doc.Text) {
		return nil, fmt.Errorf("offset %d out of range for %s", offset, path)
	}

	analysis, err := e.analysisFor(path)
	if err != nil {
		return nil, err
	}

	cctx := complete.Analyze(doc.Text, offset)
	resolution := scope.Resolve(analysis.Module, offset)
	agg, _ := e.aggregateFor(ctx, analysis.Index)

	items := complete.Items(agg, cctx, resolution.Locals)
	return complete.Rank(items, cctx.Partial), nil
}

// Signature returns signature help for the innermost open call at
// offset, one entry per overload.
func (e *Engine) Signature(ctx context.Context, path string, offset int) ([]signature.Information, error) {
	doc, err := e.sourceFor(path)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset > len(doc.Text) {
		return nil, fmt.Errorf("offset %d out of range for %s", offset, path)
	}

	call, ok := signature.Find(doc.Text, offset)
	if !ok {
		return nil, nil
	}

	analysis, err := e.analysisFor(path)
	if err != nil {
		return nil, err
	}

	resolution := scope.Resolve(analysis.Module, offset)
	agg, _ := e.aggregateFor(ctx, analysis.Index)

	return signature.Build(agg, call, resolution.Locals), nil
}

// EvictPath drops path from both caches, for deleted files.
func (e *Engine) EvictPath(path string) {
	e.docCache.Evict(path)
}

// IndexWorkspace discovers and analyzes every matching file under the
// project root, warming the external cache.
func (e *Engine) IndexWorkspace(ctx context.Context) (int, error) {
	e.mu.RLock()
	scanner := e.scanner
	e.mu.RUnlock()

	files, err := scanner.Discover()
	if err != nil {
		return 0, err
	}
	if err := scanner.Warm(ctx, e.extCache, files); err != nil {
		return len(files), err
	}
	return len(files), nil
}

// StartWatching begins watching the project tree, evicting cache
// entries as files change on disk.
func (e *Engine) StartWatching() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.watcher != nil {
		return nil
	}

	w, err := workspace.NewWatcher(e.cfg, e.scanner)
	if err != nil {
		return err
	}
	w.SetCallbacks(
		func(path string) { e.extCache.Remove(path) },
		func(path string) { e.extCache.Load(path) },
		func(path string) { e.docCache.Evict(path) },
	)
	if err := w.Start(); err != nil {
		w.Stop()
		return err
	}
	e.watcher = w
	return nil
}

// Close stops the watcher and the diagnostics scheduler.
func (e *Engine) Close() error {
	e.diag.close()

	e.mu.Lock()
	w := e.watcher
	e.watcher = nil
	e.mu.Unlock()

	if w != nil {
		return w.Stop()
	}
	return nil
}

// Stats reports cache occupancy for debugging and the MCP stats tool.
func (e *Engine) Stats() map[string]interface{} {
	e.mu.RLock()
	open := len(e.docs)
	e.mu.RUnlock()

	return map[string]interface{}{
		"open_documents": open,
		"document_cache": e.docCache.Len(),
		"external_cache": e.extCache.Len(),
	}
}
