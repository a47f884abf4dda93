package mktree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFileMissing(t *testing.T) {
	c, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadConfigFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"outDir":"/srv/projects","enhanced":true,"indentWidth":0}`), 0o600))

	c, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/projects", c.OutDir)
	assert.True(t, c.Enhanced)
	assert.Equal(t, DefaultIndentWidth, c.IndentWidth)
	assert.Equal(t, "dark", c.Theme)
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"outDir":`), 0o600))

	c, err := LoadConfigFile(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestSaveConfigFileSkipsRuntimeFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	c := DefaultConfig()
	c.OutDir = "out"
	c.InferDirs = true
	c.DryRun = true
	c.Input = "tree.txt"
	require.NoError(t, SaveConfigFile(path, c))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "tree.txt")

	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "out", loaded.OutDir)
	assert.True(t, loaded.InferDirs)
	assert.False(t, loaded.DryRun)
	assert.Equal(t, ParseOptions{IndentWidth: DefaultIndentWidth, InferDirs: true}, loaded.ParseOptions())
}
