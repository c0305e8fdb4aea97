package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch [directory]", watchCmd.Use)
}

func TestWatchable(t *testing.T) {
	dir := t.TempDir()

	visible := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(visible, []byte("content"), 0o644))

	markdown := filepath.Join(dir, "guide.MD")
	require.NoError(t, os.WriteFile(markdown, []byte("# content"), 0o644))

	hidden := filepath.Join(dir, ".hidden.txt")
	require.NoError(t, os.WriteFile(hidden, []byte("content"), 0o644))

	unsupported := filepath.Join(dir, "image.png")
	require.NoError(t, os.WriteFile(unsupported, []byte{0x89}, 0o644))

	subdir := filepath.Join(dir, "nested.txt")
	require.NoError(t, os.Mkdir(subdir, 0o755))

	assert.True(t, watchable(visible))
	assert.True(t, watchable(markdown), "extension matching is case insensitive")
	assert.False(t, watchable(hidden), "hidden files are skipped")
	assert.False(t, watchable(unsupported), "unsupported kinds are skipped")
	assert.False(t, watchable(subdir), "directories are skipped")
	assert.False(t, watchable(filepath.Join(dir, "gone.txt")), "missing files are skipped")
}
