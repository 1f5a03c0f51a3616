package fsutil

import (
	"os"
	"os/user"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTildeInDir(t *testing.T) {
	usr, err := user.Current()
	require.NoError(t, err)
	home := usr.HomeDir

	got, err := ReplaceTildeInDir("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = ReplaceTildeInDir("~/Library/Caches")
	require.NoError(t, err)
	assert.Equal(t, path.Join(home, "Library/Caches"), got)

	// Paths without a tilde pass through unchanged.
	got, err = ReplaceTildeInDir("/tmp/foo")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/foo", got)

	got, err = ReplaceTildeInDir("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "probe.txt")

	exists, err := FileExists(filePath)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0644))
	exists, err = FileExists(filePath)
	require.NoError(t, err)
	assert.True(t, exists)

	// Directories count as well.
	exists, err = FileExists(tmpDir)
	require.NoError(t, err)
	assert.True(t, exists)
}
