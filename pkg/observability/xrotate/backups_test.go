package xrotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/omeyang/xsink/pkg/util/xfile/xfilemock"
)

func TestBackupSet_Slot(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		index   int
		want    string
	}{
		{name: "默认模板", pattern: "", index: 1, want: "/var/log/app.log.1"},
		{name: "序号在前", pattern: "{filename}.{index}.bak", index: 3, want: "/var/log/app.log.3.bak"},
		{name: "独立目录", pattern: "/archive/{index}/app.log", index: 2, want: "/archive/2/app.log"},
		{name: "重复占位符", pattern: "{filename}-{index}-{index}", index: 5, want: "/var/log/app.log-5-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := newBackupSet("/var/log/app.log", tt.pattern, 7)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.slot(tt.index))
		})
	}
}

func TestBackupSet_DiscardCallsRemove(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := xfilemock.NewMockBackend(ctrl)

	s, err := newBackupSet("/var/log/app.log", "", 0)
	require.NoError(t, err)

	gomock.InOrder(
		b.EXPECT().Remove().Return(nil),
		b.EXPECT().Reopen().Return(nil),
	)
	assert.NoError(t, s.rotate(b))
}

func TestBackupSet_ReopenAlwaysRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := xfilemock.NewMockBackend(ctrl)

	s, err := newBackupSet("/var/log/app.log", "", 0)
	require.NoError(t, err)

	removeErr := assert.AnError
	gomock.InOrder(
		b.EXPECT().Remove().Return(removeErr),
		b.EXPECT().Reopen().Return(nil),
	)
	assert.ErrorIs(t, s.rotate(b), removeErr)
}

func TestBackupSet_RemoveOldestFailure(t *testing.T) {
	orig := removeFile
	t.Cleanup(func() { removeFile = orig })

	var removed []string
	removeFile = func(name string) error {
		removed = append(removed, name)
		return assert.AnError
	}

	s, err := newBackupSet(t.TempDir()+"/app.log", "", 2)
	require.NoError(t, err)
	err = s.shift()
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{s.slot(2)}, removed)
}
