//go:build unix

package xfile

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	getrlimit = unix.Getrlimit
	setrlimit = unix.Setrlimit
)

// fileLimitMu 保护 RaiseFileLimit 的 getrlimit→setrlimit 读改写序列
var fileLimitMu sync.Mutex

// RaiseFileLimit 确保进程的 RLIMIT_NOFILE soft limit 不低于 limit
//
// soft limit 已满足时不做任何修改；只在 hard limit 不足时提升 hard limit
// （需要 CAP_SYS_RESOURCE）。从不降低任何一项。
func RaiseFileLimit(limit uint64) error {
	if limit == 0 {
		return ErrInvalidFileLimit
	}

	fileLimitMu.Lock()
	defer fileLimitMu.Unlock()

	var rlimit unix.Rlimit
	if err := getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return fmt.Errorf("xfile: getrlimit RLIMIT_NOFILE: %w", err)
	}
	if rlimit.Cur >= limit {
		return nil
	}

	rlimit.Cur = limit
	if rlimit.Max < limit {
		rlimit.Max = limit
	}
	if err := setrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return fmt.Errorf("xfile: setrlimit RLIMIT_NOFILE: %w", err)
	}
	return nil
}

// FileLimit 返回当前 RLIMIT_NOFILE 的 soft 与 hard limit
func FileLimit() (soft, hard uint64, err error) {
	var rlimit unix.Rlimit
	if err := getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
		return 0, 0, fmt.Errorf("xfile: getrlimit RLIMIT_NOFILE: %w", err)
	}
	return rlimit.Cur, rlimit.Max, nil
}
