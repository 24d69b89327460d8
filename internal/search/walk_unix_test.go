//go:build unix

package search

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orbitshell/internal/config"
	tu "orbitshell/internal/testutil"
)

func TestSkipsNonRegularFiles(t *testing.T) {
	root := t.TempDir()
	tu.WriteTree(t, root, map[string]string{"a.txt": "a needle"})
	require.NoError(t, syscall.Mkfifo(filepath.Join(root, "needle.pipe"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(root, "needle.pipe"), filepath.Join(root, "needle.link")))

	// a FIFO with no writer blocks open(2); Done must still arrive
	got := run(t, root, "needle", config.DefaultRules())
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "a.txt"), got[0].Path)
	assert.Equal(t, 1, got[0].Line)
}
