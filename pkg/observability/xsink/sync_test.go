package xsink

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xsink/pkg/observability/xrotate"
)

func TestSyncSink_ConcurrentConsume(t *testing.T) {
	const (
		workers = 8
		perHost = 50
	)
	dir := t.TempDir()
	s, err := New(Config{
		Path:     filepath.Join(dir, "{host}.log"),
		Rotation: xrotate.Config{Kind: xrotate.KindSize, Size: 1 << 20, Backups: 1},
	})
	require.NoError(t, err)
	ss := Synchronized(s)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			host := fmt.Sprintf("h%d", w%2)
			for i := range perHost {
				msg := fmt.Sprintf("w%d-%d\n", w, i)
				assert.NoError(t, ss.Consume([]byte(msg), Map{"host": host}))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, ss.Len())
	assert.Len(t, ss.Filenames(), 2)
	require.NoError(t, ss.Close())

	total := 0
	for _, host := range []string{"h0", "h1"} {
		lines := strings.Split(strings.TrimSuffix(readFile(t, filepath.Join(dir, host+".log")), "\n"), "\n")
		total += len(lines)
		for _, line := range lines {
			assert.Regexp(t, `^w\d+-\d+$`, line, "记录没有交错")
		}
	}
	assert.Equal(t, workers*perHost, total)

	assert.ErrorIs(t, ss.Consume([]byte("late\n"), nil), ErrClosed)
}
