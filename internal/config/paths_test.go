package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	t.Run("absolute artifacts dir is kept", func(t *testing.T) {
		dir := t.TempDir()
		cfg := Default()
		cfg.Artifacts.Dir = dir

		paths, err := cfg.ResolvePaths()
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean(dir), paths.ArtifactsDir)
	})

	t.Run("relative artifacts dir resolves under working dir", func(t *testing.T) {
		wd, err := os.Getwd()
		require.NoError(t, err)

		cfg := Default()
		cfg.Artifacts.Dir = "some-artifacts"

		paths, err := cfg.ResolvePaths()
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(paths.ArtifactsDir))
		assert.Equal(t, filepath.Join(wd, "some-artifacts"), paths.ArtifactsDir)
		assert.Equal(t, filepath.Join(wd, DefaultLogFile), paths.LogFile)
	})
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.csv")
	require.NoError(t, os.WriteFile(file, []byte("a\n"), 0644))

	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(file))
	assert.False(t, DirExists(filepath.Join(dir, "missing")))
	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
}
