package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Contains(t, cfg.DataDir, ".devwatch")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 16, cfg.ProbeConcurrency)
	assert.Equal(t, 5900, cfg.AuxPort)
	assert.Empty(t, cfg.ViewerPath)
}

func TestEnsureDirAndFileExists(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")

	require.NoError(t, EnsureDir(nested))
	require.NoError(t, EnsureDir(nested), "existing dir is fine")

	assert.False(t, FileExists(nested), "directories are not files")
	assert.False(t, FileExists(filepath.Join(nested, "missing")))

	file := filepath.Join(nested, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.True(t, FileExists(file))
}
