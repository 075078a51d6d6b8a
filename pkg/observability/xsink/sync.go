package xsink

import "sync"

// Consumer 接收已格式化的消息及其属性
type Consumer interface {
	Consume(msg []byte, attrs Attributes) error
}

var (
	_ Consumer = (*FileSink)(nil)
	_ Consumer = (*SyncSink)(nil)
)

// SyncSink 用一把互斥锁串行化对 FileSink 的所有访问
//
// 写入和轮转都在锁内同步完成，慢磁盘会阻塞所有调用方。
type SyncSink struct {
	mu   sync.Mutex
	sink *FileSink
}

// Synchronized 包装 s，包装后不要再直接使用 s
func Synchronized(s *FileSink) *SyncSink {
	return &SyncSink{sink: s}
}

// Consume 见 FileSink.Consume
func (s *SyncSink) Consume(msg []byte, attrs Attributes) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Consume(msg, attrs)
}

// Filenames 见 FileSink.Filenames
func (s *SyncSink) Filenames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Filenames()
}

// Len 见 FileSink.Len
func (s *SyncSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Len()
}

// Close 见 FileSink.Close
func (s *SyncSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Close()
}
