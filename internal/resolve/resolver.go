// Package resolve maps raw import strings to candidate files on disk. It
// knows nothing about caches or analysis; the workspace aggregator feeds its
// candidates through the loaders.
package resolve

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultExtension is the single fixed extension for importable units.
// An import string lacking it has it appended during normalization.
const DefaultExtension = ".wren"

// Normalize turns a raw import string into a canonical relative path:
// trimmed, extension appended if absent, forced relative unless already
// relative or parent-relative, separators normalized, then path-cleaned.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\\", "/")
	if !strings.HasSuffix(s, DefaultExtension) {
		s += DefaultExtension
	}
	if !strings.HasPrefix(s, "./") && !strings.HasPrefix(s, "../") {
		s = "./" + s
	}
	return path.Clean(s)
}

// Resolver produces candidate absolute locations for imports. It holds an
// immutable snapshot of the configured roots: a configuration change builds
// a new Resolver rather than mutating this one.
type Resolver struct {
	searchRoots    []string
	workspaceRoots []string
}

// NewResolver creates a resolver over the configured additional search roots
// and the open workspace roots. All roots are made absolute here so
// candidate joins never depend on the process working directory.
func NewResolver(searchRoots, workspaceRoots []string) *Resolver {
	return &Resolver{
		searchRoots:    absAll(searchRoots),
		workspaceRoots: absAll(workspaceRoots),
	}
}

func absAll(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if abs, err := filepath.Abs(r); err == nil {
			out = append(out, abs)
		} else {
			out = append(out, r)
		}
	}
	return out
}

// Candidates returns the de-duplicated candidate set for an import written
// in fromFile: the normalized string joined against the requesting file's
// own directory, every configured search root, and every workspace root, in
// that order. Built-in module names never reach this function; the
// aggregator checks the built-in registry first.
func (r *Resolver) Candidates(fromFile, raw string) []string {
	norm := Normalize(raw)
	if norm == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(base string) {
		candidate := filepath.Clean(filepath.Join(base, filepath.FromSlash(norm)))
		if _, dup := seen[candidate]; dup {
			return
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}

	if fromFile != "" {
		add(filepath.Dir(fromFile))
	}
	for _, root := range r.searchRoots {
		add(root)
	}
	for _, root := range r.workspaceRoots {
		add(root)
	}
	return out
}

// Canonical returns the canonical form of a file path used as a cache and
// visited-set key: absolute and cleaned. Symlinks are not chased; the same
// file reached through two link spellings counts as two files, which is the
// same trade the editors above us make.
func Canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return filepath.Clean(abs)
}
