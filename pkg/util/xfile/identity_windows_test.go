//go:build windows

package xfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatIdentity_QuickRecreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	before, err := StatIdentity(path)
	require.NoError(t, err)
	again, err := StatIdentity(path)
	require.NoError(t, err)
	assert.Equal(t, before, again)

	// 移走后立即同名重建，NTFS 隧道会让新文件继承旧的创建时间
	require.NoError(t, os.Rename(path, path+".1"))
	require.NoError(t, os.WriteFile(path, []byte("new"), 0o644))

	after, err := StatIdentity(path)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	moved, err := StatIdentity(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, before, moved, "身份跟随文件而不是路径")
}

func TestStatIdentity_NotExist(t *testing.T) {
	_, err := StatIdentity(filepath.Join(t.TempDir(), "missing.log"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
