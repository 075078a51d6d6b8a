package xrotate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/omeyang/xsink/pkg/util/xfile"
)

// 可注入的文件系统调用，仅用于测试
var (
	removeFile = os.Remove
	renameFile = os.Rename
)

// backupSet 一个逻辑路径的有界备份集合
type backupSet struct {
	path    string
	pattern string
	count   int
}

func newBackupSet(path, pattern string, count int) (*backupSet, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if err := validateBackups(pattern, count); err != nil {
		return nil, err
	}
	s := &backupSet{path: path, pattern: pattern, count: count}
	if count > 0 && s.slot(1) == path {
		return nil, fmt.Errorf("%w: %q resolves to the current file", ErrInvalidPattern, pattern)
	}
	return s, nil
}

// slot 返回第 i 个备份的路径（i 从 1 开始）
func (s *backupSet) slot(i int) string {
	return strings.NewReplacer(
		placeholderFilename, s.path,
		placeholderIndex, strconv.Itoa(i),
	).Replace(s.pattern)
}

// rotate 把当前文件移入备份集合并重新打开
//
// 任何一步失败都继续执行后续步骤，最后总是 Reopen，保证后端可继续写入。
func (s *backupSet) rotate(b xfile.Backend) error {
	var errs []error
	if s.count == 0 {
		errs = append(errs, b.Remove())
	} else {
		errs = append(errs, s.shift())
		errs = append(errs, b.Rename(s.slot(1)))
	}
	errs = append(errs, b.Reopen())
	return errors.Join(errs...)
}

// shift 删除最旧的备份，其余备份序号加一，空出第 1 个槽位
func (s *backupSet) shift() error {
	var errs []error
	if err := removeFile(s.slot(s.count)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, fmt.Errorf("xrotate: remove backup: %w", err))
	}
	for i := s.count - 1; i >= 1; i-- {
		src, dst := s.slot(i), s.slot(i+1)
		if err := xfile.EnsureDir(dst); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := renameFile(src, dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("xrotate: shift backup: %w", err))
		}
	}
	return errors.Join(errs...)
}
