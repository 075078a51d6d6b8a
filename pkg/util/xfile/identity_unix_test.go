//go:build unix

package xfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestStatIdentity_ChangesAfterExternalMove(t *testing.T) {
	b, path := openTestBackend(t, "app.log")

	before, err := b.Identity()
	require.NoError(t, err)

	same, err := StatIdentity(path)
	require.NoError(t, err)
	assert.Equal(t, before, same)

	// 模拟 logrotate：移走文件并在原路径新建
	require.NoError(t, os.Rename(path, path+".moved"))
	_, err = StatIdentity(path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	require.NoError(t, os.WriteFile(path, nil, 0600))
	after, err := StatIdentity(path)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestStatIdentity_StatError(t *testing.T) {
	orig := stat
	t.Cleanup(func() { stat = orig })
	stat = func(string, *unix.Stat_t) error { return unix.EACCES }

	_, err := StatIdentity(filepath.Join(t.TempDir(), "x.log"))
	var pathErr *os.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestRaiseFileLimit(t *testing.T) {
	origGet, origSet := getrlimit, setrlimit
	t.Cleanup(func() { getrlimit, setrlimit = origGet, origSet })

	current := unix.Rlimit{Cur: 1024, Max: 4096}
	getrlimit = func(_ int, r *unix.Rlimit) error {
		*r = current
		return nil
	}
	var applied *unix.Rlimit
	setrlimit = func(_ int, r *unix.Rlimit) error {
		cp := *r
		applied = &cp
		return nil
	}

	assert.ErrorIs(t, RaiseFileLimit(0), ErrInvalidFileLimit)

	// 已满足，不调用 setrlimit
	require.NoError(t, RaiseFileLimit(512))
	assert.Nil(t, applied)

	require.NoError(t, RaiseFileLimit(2048))
	require.NotNil(t, applied)
	assert.EqualValues(t, 2048, applied.Cur)
	assert.EqualValues(t, 4096, applied.Max, "hard limit 足够时不变")

	require.NoError(t, RaiseFileLimit(8192))
	assert.EqualValues(t, 8192, applied.Max)

	soft, hard, err := FileLimit()
	require.NoError(t, err)
	assert.EqualValues(t, 1024, soft)
	assert.EqualValues(t, 4096, hard)
}

func TestRaiseFileLimit_Errors(t *testing.T) {
	origGet, origSet := getrlimit, setrlimit
	t.Cleanup(func() { getrlimit, setrlimit = origGet, origSet })

	getrlimit = func(int, *unix.Rlimit) error { return unix.EPERM }
	assert.ErrorIs(t, RaiseFileLimit(10), unix.EPERM)
	_, _, err := FileLimit()
	assert.ErrorIs(t, err, unix.EPERM)

	getrlimit = func(_ int, r *unix.Rlimit) error {
		*r = unix.Rlimit{Cur: 1, Max: 1}
		return nil
	}
	setrlimit = func(int, *unix.Rlimit) error { return unix.EPERM }
	assert.ErrorIs(t, RaiseFileLimit(10), unix.EPERM)
}
