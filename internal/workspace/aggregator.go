// Package workspace builds the cross-file view of the import graph: the
// aggregator walks imports from a root file and merges every reachable
// class into overload buckets, the scanner enumerates importable files on
// disk, and the watcher feeds disk changes back into the caches.
package workspace

import (
	"context"
	"fmt"

	"github.com/standardbeagle/wrensense/internal/builtins"
	"github.com/standardbeagle/wrensense/internal/cache"
	"github.com/standardbeagle/wrensense/internal/debug"
	"github.com/standardbeagle/wrensense/internal/resolve"
	"github.com/standardbeagle/wrensense/internal/types"
)

// Loader loads the analysis for one disk candidate. "No index" is a normal
// outcome for a missing or unreadable file, never an error.
type Loader interface {
	Load(path string) (*cache.Analysis, bool)
}

// Synthetic paths for registry-backed entries in the visited set.
const (
	corePath          = "wren:core"
	builtinPathPrefix = "wren:"
)

// workItem is one pending entry on the traversal worklist.
type workItem struct {
	index   *types.FileIndex
	visible []string // nil = unrestricted
}

// Aggregator merges per-file symbol tables into one workspace-wide bucket
// map. It holds an immutable resolver snapshot: configuration changes build
// a new Aggregator instead of mutating this one.
type Aggregator struct {
	loader   Loader
	resolver *resolve.Resolver
}

// NewAggregator creates an aggregator over a loader and a resolver snapshot.
func NewAggregator(loader Loader, resolver *resolve.Resolver) *Aggregator {
	return &Aggregator{loader: loader, resolver: resolver}
}

// Aggregate traverses the import graph from root and returns the merged
// workspace view plus unresolved-import diagnostics for the root file
// itself. Every call starts from a fresh worklist and visited set; the
// visited set is keyed by canonical path and checked before a file's
// imports expand, which terminates cyclic graphs and counts each file once.
func (a *Aggregator) Aggregate(ctx context.Context, root *types.FileIndex) (*types.Aggregate, []types.Diagnostic) {
	agg := types.NewAggregate()
	var diags []types.Diagnostic

	visited := make(map[string]struct{})
	worklist := []workItem{
		{index: builtinRegistryIndex()},
		{index: root},
	}

	for len(worklist) > 0 {
		if err := ctx.Err(); err != nil {
			// Partial aggregate; the next query re-derives from caches.
			return agg, diags
		}

		item := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		path := item.index.Path
		if _, seen := visited[path]; seen {
			continue
		}
		visited[path] = struct{}{}

		mergeClasses(agg, item.index.Classes, item.visible)

		for _, imp := range item.index.Imports {
			if classes, ok := builtins.ModuleClasses(imp.Module); ok {
				// Built-in modules synthesize classes straight from the
				// registry; no disk access.
				worklist = append(worklist, workItem{
					index:   &types.FileIndex{Path: builtinPathPrefix + imp.Module, Classes: classes},
					visible: imp.VisibleNames,
				})
				continue
			}

			resolved := false
			for _, candidate := range a.resolver.Candidates(path, imp.Module) {
				canon := resolve.Canonical(candidate)
				if _, seen := visited[canon]; seen {
					resolved = true
					continue
				}
				analysis, ok := a.loader.Load(canon)
				if !ok {
					continue
				}
				resolved = true
				worklist = append(worklist, workItem{index: analysis.Index, visible: imp.VisibleNames})
			}

			if !resolved && path == root.Path {
				diags = append(diags, types.Diagnostic{
					Severity: types.SeverityWarning,
					Code:     types.CodeUnresolvedImport,
					Message:  fmt.Sprintf("cannot resolve module %q", imp.Module),
					Span:     imp.PathSpan,
				})
			}
		}
	}

	debug.LogAggregate("root %s: %d classes, %d files visited\n", root.Path, len(agg.Classes), len(visited))
	return agg, diags
}

// mergeClasses folds class snapshots into the bucket map, honoring a
// selective import's visible-name restriction.
func mergeClasses(agg *types.Aggregate, classes []types.ClassSymbol, visible []string) {
	for i := range classes {
		class := &classes[i]
		if visible != nil && !nameListed(visible, class.Name) {
			continue
		}
		agg.Bucket(class.Name).Merge(class)
	}
}

func nameListed(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// builtinRegistryIndex wraps the core class table in a synthetic FileIndex
// so the worklist and visited set treat it like any other entry.
func builtinRegistryIndex() *types.FileIndex {
	return &types.FileIndex{
		Path:    corePath,
		Classes: builtins.CoreClasses(),
	}
}
