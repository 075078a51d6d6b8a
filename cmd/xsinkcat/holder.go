package main

import (
	"sync"

	"github.com/omeyang/xsink/pkg/observability/xsink"
)

// sinkHolder 持有当前的 FileSink，串行化写入与热替换
type sinkHolder struct {
	mu   sync.Mutex
	sink *xsink.FileSink
}

var _ xsink.Consumer = (*sinkHolder)(nil)

func newSinkHolder(s *xsink.FileSink) *sinkHolder {
	return &sinkHolder{sink: s}
}

func (h *sinkHolder) Consume(msg []byte, attrs xsink.Attributes) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sink.Consume(msg, attrs)
}

// swap 换上新的 FileSink 并关闭旧的，旧 sink 的数据在此刷盘
func (h *sinkHolder) swap(s *xsink.FileSink) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.sink
	h.sink = s
	return old.Close()
}

func (h *sinkHolder) current() *xsink.FileSink {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sink
}

func (h *sinkHolder) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sink.Close()
}
