package xrotate

import (
	"fmt"

	"github.com/omeyang/xsink/pkg/util/xfile"
)

// sizeRotator 文件大小达到阈值时轮转
type sizeRotator struct {
	backend   xfile.Backend
	backups   *backupSet
	threshold int64
}

// NewSize 创建按大小轮转的 Rotator
func NewSize(b xfile.Backend, cfg Config) (Rotator, error) {
	if b == nil {
		return nil, ErrNilBackend
	}
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("%w: got %d, want > 0", ErrInvalidSize, cfg.Size)
	}
	backups, err := newBackupSet(b.Path(), cfg.Pattern, cfg.Backups)
	if err != nil {
		return nil, err
	}
	return &sizeRotator{backend: b, backups: backups, threshold: cfg.Size}, nil
}

func (r *sizeRotator) Necessary([]byte) (bool, error) {
	size, err := r.backend.Size()
	if err != nil {
		return false, err
	}
	return size >= r.threshold, nil
}

func (r *sizeRotator) Rotate() error {
	return r.backups.rotate(r.backend)
}
