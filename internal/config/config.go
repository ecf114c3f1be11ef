package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/standardbeagle/wrensense/internal/errors"
)

// KDLFileName is the primary per-project configuration file.
const KDLFileName = ".wrensense.kdl"

// TOMLFileName is the fallback configuration file, consulted only when
// no KDL file exists in the project root.
const TOMLFileName = "wrensense.toml"

// Config holds all wrensense settings. A Config value is immutable once
// loaded; components that depend on it take a copy at construction time
// and are rebuilt when the configuration changes.
type Config struct {
	Project     Project
	Modules     Modules
	Diagnostics Diagnostics
	Index       Index
}

// Project identifies the workspace being indexed.
type Project struct {
	Root string
	Name string
}

// Modules controls how import paths are resolved to files on disk.
type Modules struct {
	// SearchRoots are directories consulted, in order, when an import
	// path does not resolve relative to the importing file. Relative
	// entries are resolved against Project.Root.
	SearchRoots []string
}

// Diagnostics controls publication of analysis diagnostics.
type Diagnostics struct {
	// Enabled gates the extended diagnostics (unresolved imports).
	// Lexer and parser errors are always surfaced.
	Enabled bool

	// DebounceMs is how long edits are coalesced before diagnostics
	// are recomputed.
	DebounceMs int
}

// Index controls workspace scanning and file watching.
type Index struct {
	Include         []string
	Exclude         []string
	WatchMode       bool
	WatchDebounceMs int
	MaxFileSize     int64
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Project: Project{
			Root: ".",
		},
		Modules: Modules{
			SearchRoots: []string{},
		},
		Diagnostics: Diagnostics{
			Enabled:    true,
			DebounceMs: 200,
		},
		Index: Index{
			Include:         []string{"**/*.wren"},
			Exclude:         []string{"**/.*/**", "**/node_modules/**", "**/build/**"},
			WatchMode:       true,
			WatchDebounceMs: 100,
			MaxFileSize:     10 * 1024 * 1024,
		},
	}
}

// Load reads the project configuration from projectRoot. The KDL file
// wins when both formats are present. A missing file is not an error;
// defaults are returned.
func Load(projectRoot string) (*Config, error) {
	cfg, err := loadKDL(projectRoot)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg, err = loadTOML(projectRoot)
		if err != nil {
			return nil, err
		}
	}
	if cfg == nil {
		cfg = Default()
	}

	resolveRoot(cfg, projectRoot)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveRoot makes Project.Root absolute and resolves relative search
// roots against it.
func resolveRoot(cfg *Config, projectRoot string) {
	root := cfg.Project.Root
	if root == "" || root == "." {
		root = projectRoot
	} else if !filepath.IsAbs(root) {
		root = filepath.Join(projectRoot, root)
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	cfg.Project.Root = filepath.Clean(root)

	for i, sr := range cfg.Modules.SearchRoots {
		if !filepath.IsAbs(sr) {
			cfg.Modules.SearchRoots[i] = filepath.Join(cfg.Project.Root, sr)
		}
	}
}

// Validate checks that configuration values are within usable ranges.
func (c *Config) Validate() error {
	if c.Diagnostics.DebounceMs < 0 {
		return errors.NewConfigError("diagnostics.debounce_ms",
			fmt.Sprintf("%d", c.Diagnostics.DebounceMs), fmt.Errorf("must be >= 0"))
	}
	if c.Index.WatchDebounceMs < 0 {
		return errors.NewConfigError("index.watch_debounce_ms",
			fmt.Sprintf("%d", c.Index.WatchDebounceMs), fmt.Errorf("must be >= 0"))
	}
	if c.Index.MaxFileSize <= 0 {
		return errors.NewConfigError("index.max_file_size",
			fmt.Sprintf("%d", c.Index.MaxFileSize), fmt.Errorf("must be positive"))
	}
	for _, sr := range c.Modules.SearchRoots {
		if info, err := os.Stat(sr); err == nil && !info.IsDir() {
			return errors.NewConfigError("modules.search_roots", sr,
				fmt.Errorf("not a directory"))
		}
	}
	return nil
}
