package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDefaultsWhenNoConfigFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Project.Root)
	assert.True(t, cfg.Diagnostics.Enabled)
	assert.Equal(t, 200, cfg.Diagnostics.DebounceMs)
	assert.Contains(t, cfg.Index.Include, "**/*.wren")
	assert.True(t, cfg.Index.WatchMode)
}

func TestLoadKDL(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, KDLFileName, `
project {
    name "asteroids"
}
modules {
    search_roots "lib" "vendor"
}
diagnostics {
    enabled false
    debounce_ms 500
}
index {
    include "src/**/*.wren"
    watch_mode false
    watch_debounce_ms 50
    max_file_size 1024
}
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "asteroids", cfg.Project.Name)
	assert.False(t, cfg.Diagnostics.Enabled)
	assert.Equal(t, 500, cfg.Diagnostics.DebounceMs)
	assert.Equal(t, []string{"src/**/*.wren"}, cfg.Index.Include)
	assert.False(t, cfg.Index.WatchMode)
	assert.Equal(t, 50, cfg.Index.WatchDebounceMs)
	assert.Equal(t, int64(1024), cfg.Index.MaxFileSize)

	// Relative search roots resolve against the project root.
	require.Len(t, cfg.Modules.SearchRoots, 2)
	assert.Equal(t, filepath.Join(dir, "lib"), cfg.Modules.SearchRoots[0])
	assert.Equal(t, filepath.Join(dir, "vendor"), cfg.Modules.SearchRoots[1])
}

func TestLoadKDLBlockFormLists(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, KDLFileName, `
index {
    exclude {
        "**/out/**"
        "**/tmp/**"
    }
}
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/out/**", "**/tmp/**"}, cfg.Index.Exclude)
}

func TestLoadTOMLFallback(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, TOMLFileName, `
[project]
name = "asteroids"

[diagnostics]
enabled = false

[index]
watch_debounce_ms = 75
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "asteroids", cfg.Project.Name)
	assert.False(t, cfg.Diagnostics.Enabled)
	assert.Equal(t, 75, cfg.Index.WatchDebounceMs)
	// Unset keys keep their defaults.
	assert.Equal(t, 200, cfg.Diagnostics.DebounceMs)
}

func TestLoadKDLWinsOverTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, KDLFileName, `
project {
    name "from-kdl"
}
`)
	writeConfig(t, dir, TOMLFileName, `
[project]
name = "from-toml"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-kdl", cfg.Project.Name)
}

func TestLoadMalformedKDL(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, KDLFileName, `project { unterminated`)

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative diagnostics debounce", func(c *Config) { c.Diagnostics.DebounceMs = -1 }},
		{"negative watch debounce", func(c *Config) { c.Index.WatchDebounceMs = -5 }},
		{"zero max file size", func(c *Config) { c.Index.MaxFileSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateRejectsFileSearchRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := Default()
	cfg.Modules.SearchRoots = []string{file}
	assert.Error(t, cfg.Validate())
}
