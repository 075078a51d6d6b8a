package xsink

import (
	"fmt"
	"io"

	"github.com/omeyang/xsink/pkg/util/xfile"
)

// writer 把消息原样追加到后端，不增删分隔符，不做缓冲
type writer struct {
	backend xfile.Backend
}

func (w writer) write(msg []byte) error {
	n, err := w.backend.Write(msg)
	if err == nil && n < len(msg) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return fmt.Errorf("xsink: write %s: %w", w.backend.Path(), err)
	}
	return nil
}
