package xsink

import (
	"fmt"

	"github.com/omeyang/xsink/pkg/util/xfile"
)

// flusher 写入后的刷盘策略
//
// autoflush 为 true 时每次写入后同步刷盘；否则交给操作系统。
type flusher struct {
	backend   xfile.Backend
	autoflush bool
}

func (f flusher) flush() error {
	if !f.autoflush {
		return nil
	}
	if err := f.backend.Flush(); err != nil {
		return fmt.Errorf("xsink: flush %s: %w", f.backend.Path(), err)
	}
	return nil
}
