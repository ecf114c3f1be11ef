package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// tomlConfig mirrors Config with optional fields so absent keys fall
// back to defaults instead of zero values.
type tomlConfig struct {
	Project struct {
		Root string `toml:"root"`
		Name string `toml:"name"`
	} `toml:"project"`
	Modules struct {
		SearchRoots []string `toml:"search_roots"`
	} `toml:"modules"`
	Diagnostics struct {
		Enabled    *bool `toml:"enabled"`
		DebounceMs *int  `toml:"debounce_ms"`
	} `toml:"diagnostics"`
	Index struct {
		Include         []string `toml:"include"`
		Exclude         []string `toml:"exclude"`
		WatchMode       *bool    `toml:"watch_mode"`
		WatchDebounceMs *int     `toml:"watch_debounce_ms"`
		MaxFileSize     *int64   `toml:"max_file_size"`
	} `toml:"index"`
}

// loadTOML reads wrensense.toml from projectRoot. Returns (nil, nil)
// when the file does not exist.
func loadTOML(projectRoot string) (*Config, error) {
	path := filepath.Join(projectRoot, TOMLFileName)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TOMLFileName, err)
	}

	var tc tomlConfig
	if err := toml.Unmarshal(content, &tc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	cfg := Default()
	if tc.Project.Root != "" {
		cfg.Project.Root = tc.Project.Root
	}
	if tc.Project.Name != "" {
		cfg.Project.Name = tc.Project.Name
	}
	if tc.Modules.SearchRoots != nil {
		cfg.Modules.SearchRoots = tc.Modules.SearchRoots
	}
	if tc.Diagnostics.Enabled != nil {
		cfg.Diagnostics.Enabled = *tc.Diagnostics.Enabled
	}
	if tc.Diagnostics.DebounceMs != nil {
		cfg.Diagnostics.DebounceMs = *tc.Diagnostics.DebounceMs
	}
	if tc.Index.Include != nil {
		cfg.Index.Include = tc.Index.Include
	}
	if tc.Index.Exclude != nil {
		cfg.Index.Exclude = tc.Index.Exclude
	}
	if tc.Index.WatchMode != nil {
		cfg.Index.WatchMode = *tc.Index.WatchMode
	}
	if tc.Index.WatchDebounceMs != nil {
		cfg.Index.WatchDebounceMs = *tc.Index.WatchDebounceMs
	}
	if tc.Index.MaxFileSize != nil {
		cfg.Index.MaxFileSize = *tc.Index.MaxFileSize
	}
	return cfg, nil
}
