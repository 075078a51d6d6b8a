package xrotate

import (
	"errors"
	"io/fs"

	"github.com/omeyang/xsink/pkg/util/xfile"
)

// moveRotator 文件被外部移走或替换后在原路径重新打开
//
// 备份由外部工具（如 logrotate）负责，这里既不重命名也不清理。
type moveRotator struct {
	backend xfile.Backend
	id      xfile.FileID
}

// NewMove 创建外部移动触发的 Rotator，记录当前文件身份
func NewMove(b xfile.Backend) (Rotator, error) {
	if b == nil {
		return nil, ErrNilBackend
	}
	id, err := b.Identity()
	if err != nil {
		return nil, err
	}
	return &moveRotator{backend: b, id: id}, nil
}

func (r *moveRotator) Necessary([]byte) (bool, error) {
	id, err := r.backend.Identity()
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return id != r.id, nil
}

func (r *moveRotator) Rotate() error {
	if err := r.backend.Reopen(); err != nil {
		return err
	}
	id, err := r.backend.Identity()
	if err != nil {
		return err
	}
	r.id = id
	return nil
}
