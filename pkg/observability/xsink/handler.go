package xsink

import (
	"errors"
	"fmt"

	"github.com/omeyang/xsink/pkg/observability/xrotate"
	"github.com/omeyang/xsink/pkg/util/xfile"
)

// Handler 一个物理文件的写入单元
//
// 独占一个 Backend，组合 writer、flusher 和 Rotator。轮转只替换
// Backend 背后的文件，Handler 本身在 FileSink 生命周期内保持不变。
// 不做内部同步。
type Handler struct {
	backend xfile.Backend
	writer  writer
	flusher flusher
	rotator xrotate.Rotator
	kind    xrotate.Kind
	metrics *metrics
}

func newHandler(b xfile.Backend, r xrotate.Rotator, cfg Config, m *metrics) *Handler {
	return &Handler{
		backend: b,
		writer:  writer{backend: b},
		flusher: flusher{backend: b, autoflush: cfg.AutoFlush},
		rotator: r,
		kind:    cfg.Rotation.Kind,
		metrics: m,
	}
}

// Handle 处理一条消息
//
// 固定顺序：写入、按策略刷盘、判断是否轮转、轮转。任一步失败立即返回，
// 已写入的字节不受影响。写入之后的步骤失败时，错误匹配 ErrWritten。
func (h *Handler) Handle(msg []byte) error {
	if err := h.writer.write(msg); err != nil {
		h.metrics.recordError(opWrite)
		return err
	}
	h.metrics.recordWrite(len(msg))

	if err := h.flusher.flush(); err != nil {
		h.metrics.recordError(opFlush)
		return &writtenError{err: err}
	}

	ok, err := h.rotator.Necessary(msg)
	if err != nil {
		h.metrics.recordError(opCheck)
		return &writtenError{err: fmt.Errorf("xsink: rotation check %s: %w", h.backend.Path(), err)}
	}
	if !ok {
		return nil
	}
	if err := h.rotator.Rotate(); err != nil {
		h.metrics.recordError(opRotate)
		return &writtenError{err: fmt.Errorf("xsink: rotate %s: %w", h.backend.Path(), err)}
	}
	h.metrics.recordRotation(h.kind)
	return nil
}

// Backend 返回 Handler 持有的后端，仅用于诊断和测试，不要直接写入
func (h *Handler) Backend() xfile.Backend {
	return h.backend
}

// Close 刷盘后关闭后端，无论 autoflush 设置如何都会刷盘
func (h *Handler) Close() error {
	flushErr := h.backend.Flush()
	if flushErr != nil {
		flushErr = fmt.Errorf("xsink: flush %s: %w", h.backend.Path(), flushErr)
	}
	closeErr := h.backend.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("xsink: close %s: %w", h.backend.Path(), closeErr)
	}
	return errors.Join(flushErr, closeErr)
}
