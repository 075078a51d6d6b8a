package xfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDirPerm 自动创建日志目录和备份目录时使用的权限
const DefaultDirPerm os.FileMode = 0o750

// EnsureDir 按 DefaultDirPerm 创建 path 的父目录
func EnsureDir(path string) error {
	return EnsureDirWithPerm(path, DefaultDirPerm)
}

// EnsureDirWithPerm 创建 path 的父目录，已存在的目录保持原权限
//
// perm 缺少所有者执行位时目录无法进入，返回 ErrInvalidPerm。
func EnsureDirWithPerm(path string, perm os.FileMode) error {
	switch {
	case path == "":
		return ErrEmptyPath
	case strings.ContainsRune(path, 0):
		return fmt.Errorf("%w: %q", ErrNullByte, path)
	case perm&0o100 == 0:
		return fmt.Errorf("%w: directory perm %04o lacks owner execute", ErrInvalidPerm, perm)
	}

	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("xfile: mkdir %s: %w", dir, err)
	}
	return nil
}
