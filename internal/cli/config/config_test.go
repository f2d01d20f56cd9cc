package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".organic-growth.yaml"), []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	// No config file: defaults
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "docs/project-context.md", cfg.Sync.Source)
	assert.Equal(t, "all", cfg.Sync.Target)
	assert.Equal(t, 100*time.Millisecond, cfg.Sync.Debounce)
	assert.False(t, cfg.Output.NoColor)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.File)
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
sync:
  source: notes/context.md
  target: claude
  debounce: 250ms
output:
  no_color: true
log:
  level: DEBUG
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "notes/context.md", cfg.Sync.Source)
	assert.Equal(t, "claude", cfg.Sync.Target)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.Debounce)
	assert.True(t, cfg.Output.NoColor)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, ".organic-growth.yaml"), cfg.File)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "sync:\n  debounce: 250ms\n")

	t.Setenv("ORGANIC_GROWTH_SYNC_DEBOUNCE", "1s")
	t.Setenv("ORGANIC_GROWTH_OUTPUT_NO_COLOR", "true")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Sync.Debounce)
	assert.True(t, cfg.Output.NoColor)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"absolute source", "sync:\n  source: /etc/context.md\n", "sync.source"},
		{"escaping source", "sync:\n  source: ../context.md\n", "sync.source"},
		{"zero debounce", "sync:\n  debounce: 0s\n", "sync.debounce"},
		{"negative debounce", "sync:\n  debounce: -5ms\n", "sync.debounce"},
		{"unknown level", "log:\n  level: loud\n", "log.level"},
		{"broken yaml", "sync: [\n", "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "project-context.md"), []byte("# ctx"), 0644))

	nested := filepath.Join(root, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0755))

	got, err := FindRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindRootConfigFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "")

	nested := filepath.Join(root, "a")
	require.NoError(t, os.MkdirAll(nested, 0755))

	got, err := FindRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}
