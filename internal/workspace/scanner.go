package workspace

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/wrensense/internal/cache"
	"github.com/standardbeagle/wrensense/internal/config"
	"github.com/standardbeagle/wrensense/internal/debug"
)

// Scanner discovers source files under the project root according to
// the configured include and exclude patterns.
type Scanner struct {
	cfg *config.Config
}

// NewScanner creates a scanner bound to the given configuration.
func NewScanner(cfg *config.Config) *Scanner {
	return &Scanner{cfg: cfg}
}

// Discover walks the project root and returns every file matching the
// include patterns and not excluded. Walk errors on individual entries
// are skipped; only a failure to walk the root itself is returned.
func (s *Scanner) Discover() ([]string, error) {
	root := s.cfg.Project.Root

	var files []string
	visitedDirs := make(map[string]bool)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}

		if info.IsDir() {
			// Symlink cycles would loop the walk forever.
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return filepath.SkipDir
			}
			if visitedDirs[realPath] {
				return filepath.SkipDir
			}
			visitedDirs[realPath] = true

			if path != root && s.excludedDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.ShouldProcess(path, info) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	debug.Log("scanner", "discovered %d files under %s", len(files), root)
	return files, nil
}

// ShouldProcess reports whether a regular file matches the configured
// patterns and size limit.
func (s *Scanner) ShouldProcess(path string, info os.FileInfo) bool {
	if info != nil && info.Size() > s.cfg.Index.MaxFileSize {
		return false
	}

	rel := s.relPath(path)
	for _, pattern := range s.cfg.Index.Exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return false
		}
	}
	for _, pattern := range s.cfg.Index.Include {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// excludedDir checks the directory against exclude patterns so entire
// subtrees can be skipped during the walk.
func (s *Scanner) excludedDir(path string) bool {
	rel := s.relPath(path)
	for _, pattern := range s.cfg.Index.Exclude {
		// "**/build/**" excludes everything under build; treat the
		// directory itself as excluded too.
		if matched, _ := doublestar.Match(pattern, rel+"/"); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func (s *Scanner) relPath(path string) string {
	rel, err := filepath.Rel(s.cfg.Project.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Warm analyzes the given files into the external cache in parallel.
// Individual file failures are ignored; the cache simply stays cold for
// those paths. Cancellation stops scheduling of further work.
func (s *Scanner) Warm(ctx context.Context, external *cache.ExternalCache, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, p := range paths {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			external.Load(p)
			return nil
		})
	}
	return g.Wait()
}
