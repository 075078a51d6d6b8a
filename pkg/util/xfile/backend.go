package xfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// DefaultFileMode 默认日志文件权限
const DefaultFileMode os.FileMode = 0644

// FileID 文件身份标识，可比较。
// 同一路径上的文件被外部移走或替换后，新文件的 FileID 与原文件不同。
type FileID struct {
	Dev uint64
	Ino uint64
}

//go:generate mockgen -source=backend.go -destination=xfilemock/backend.go -package=xfilemock

// Backend 单个日志文件的原始资源
//
// 由一个 Handler 独占持有，不做内部同步。
type Backend interface {
	// Write 追加写入 p，不增删任何分隔符
	Write(p []byte) (n int, err error)

	// Path 返回后端拥有的文件路径
	Path() string

	// Flush 将已写入的数据持久化到存储
	Flush() error

	// Size 返回当前文件的字节数
	Size() (int64, error)

	// Rename 关闭当前句柄并把文件移动到 newPath，直到 Reopen 之前句柄保持关闭
	Rename(newPath string) error

	// Remove 关闭当前句柄并删除当前文件，文件不存在不视为错误
	Remove() error

	// Identity 返回 Path() 此刻指向的文件身份
	// 文件不存在时返回满足 errors.Is(err, fs.ErrNotExist) 的错误
	Identity() (FileID, error)

	// Reopen 关闭当前句柄（如有）并在原路径以追加模式重新打开，不存在则创建
	Reopen() error

	// Close 关闭后端，之后所有操作返回 [ErrClosed]
	Close() error
}

// 编译时断言
var (
	_ Backend   = (*fileBackend)(nil)
	_ io.Writer = (Backend)(nil)
)

type backendConfig struct {
	fileMode os.FileMode
	dirPerm  os.FileMode
}

// Option 后端配置选项
type Option func(*backendConfig)

// WithFileMode 设置新建文件的权限（仅允许 0000~0777）
func WithFileMode(mode os.FileMode) Option {
	return func(c *backendConfig) {
		c.fileMode = mode
	}
}

// WithDirPerm 设置自动创建父目录时使用的权限
func WithDirPerm(perm os.FileMode) Option {
	return func(c *backendConfig) {
		c.dirPerm = perm
	}
}

// fileBackend 基于 os.File 的 Backend 实现
type fileBackend struct {
	path    string
	mode    os.FileMode
	dirPerm os.FileMode
	file    *os.File // nil 表示句柄已被 Rename/Remove 关闭，等待重新打开
	closed  bool

	// 可注入的系统调用（nil 时使用 os 标准库），仅用于测试
	openFn   func(string, int, os.FileMode) (*os.File, error)
	renameFn func(string, string) error
	removeFn func(string) error
}

// OpenAppend 以追加模式打开（不存在则创建）path 处的文件
//
// 路径先经过 [SanitizePath] 校验，父目录按需创建。
func OpenAppend(path string, opts ...Option) (Backend, error) {
	cfg := backendConfig{
		fileMode: DefaultFileMode,
		dirPerm:  DefaultDirPerm,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.fileMode&^os.FileMode(0o777) != 0 {
		return nil, fmt.Errorf("%w: file mode %04o, only permission bits allowed", ErrInvalidPerm, cfg.fileMode)
	}

	safePath, err := SanitizePath(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureDirWithPerm(safePath, cfg.dirPerm); err != nil {
		return nil, err
	}

	b := &fileBackend{
		path:    safePath,
		mode:    cfg.fileMode,
		dirPerm: cfg.dirPerm,
	}
	if err := b.open(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *fileBackend) open() error {
	openFile := b.openFn
	if openFile == nil {
		openFile = os.OpenFile
	}
	//#nosec G304 -- 路径已经过 SanitizePath
	f, err := openFile(b.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, b.mode)
	if err != nil {
		return fmt.Errorf("xfile: open %s: %w", b.path, err)
	}
	b.file = f
	return nil
}

// release 关闭当前句柄，句柄置空
func (b *fileBackend) release() error {
	if b.file == nil {
		return nil
	}
	err := b.file.Close()
	b.file = nil
	if err != nil {
		return fmt.Errorf("xfile: close %s: %w", b.path, err)
	}
	return nil
}

// Path 返回文件路径
func (b *fileBackend) Path() string {
	return b.path
}

// Write 追加写入。句柄已关闭（轮转中途失败）时先尝试重新打开。
func (b *fileBackend) Write(p []byte) (int, error) {
	if b.closed {
		return 0, ErrClosed
	}
	if b.file == nil {
		if err := b.open(); err != nil {
			return 0, err
		}
	}
	return b.file.Write(p)
}

// Flush 调用 fsync
func (b *fileBackend) Flush() error {
	if b.closed {
		return ErrClosed
	}
	if b.file == nil {
		return nil
	}
	if err := b.file.Sync(); err != nil {
		return fmt.Errorf("xfile: sync %s: %w", b.path, err)
	}
	return nil
}

// Size 返回打开文件的大小；句柄关闭时按路径 stat，文件不存在返回 0
func (b *fileBackend) Size() (int64, error) {
	if b.closed {
		return 0, ErrClosed
	}
	var (
		info os.FileInfo
		err  error
	)
	if b.file != nil {
		info, err = b.file.Stat()
	} else {
		info, err = os.Stat(b.path)
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
	}
	if err != nil {
		return 0, fmt.Errorf("xfile: stat %s: %w", b.path, err)
	}
	return info.Size(), nil
}

// Rename 关闭句柄并把当前文件移动到 newPath
func (b *fileBackend) Rename(newPath string) error {
	if b.closed {
		return ErrClosed
	}
	dst, err := SanitizePath(newPath)
	if err != nil {
		return err
	}
	if err := EnsureDirWithPerm(dst, b.dirPerm); err != nil {
		return err
	}

	closeErr := b.release()
	rename := b.renameFn
	if rename == nil {
		rename = os.Rename
	}
	if err := rename(b.path, dst); err != nil {
		return errors.Join(closeErr, fmt.Errorf("xfile: rename %s -> %s: %w", b.path, dst, err))
	}
	return closeErr
}

// Remove 关闭句柄并删除当前文件
func (b *fileBackend) Remove() error {
	if b.closed {
		return ErrClosed
	}
	closeErr := b.release()
	remove := b.removeFn
	if remove == nil {
		remove = os.Remove
	}
	if err := remove(b.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Join(closeErr, fmt.Errorf("xfile: remove %s: %w", b.path, err))
	}
	return closeErr
}

// Identity 返回路径当前指向的文件身份
func (b *fileBackend) Identity() (FileID, error) {
	if b.closed {
		return FileID{}, ErrClosed
	}
	return StatIdentity(b.path)
}

// Reopen 在原路径重新打开
func (b *fileBackend) Reopen() error {
	if b.closed {
		return ErrClosed
	}
	closeErr := b.release()
	if err := b.open(); err != nil {
		return errors.Join(closeErr, err)
	}
	return closeErr
}

// Close 关闭后端
//
// 重复调用返回 [ErrClosed]。Close 不做 fsync，需要持久化时先调用 Flush。
func (b *fileBackend) Close() error {
	if b.closed {
		return ErrClosed
	}
	b.closed = true
	return b.release()
}
