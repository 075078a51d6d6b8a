package xfile

import "errors"

var (
	// ErrEmptyPath 表示必需的路径参数为空。
	ErrEmptyPath = errors.New("xfile: path is required")

	// ErrInvalidPath 表示路径格式无效（如目录路径）。
	ErrInvalidPath = errors.New("xfile: invalid path")

	// ErrPathTraversal 表示检测到相对路径穿越（".." 路径段）。
	ErrPathTraversal = errors.New("xfile: path traversal detected")

	// ErrNullByte 表示路径中包含空字节（\x00），内核会在空字节处截断路径。
	ErrNullByte = errors.New("xfile: path contains null byte")

	// ErrInvalidPerm 表示权限值无效。
	ErrInvalidPerm = errors.New("xfile: invalid permission")

	// ErrClosed 表示后端已关闭。
	ErrClosed = errors.New("xfile: backend is closed")

	// ErrUnsupportedPlatform 表示当前平台不支持此操作。
	ErrUnsupportedPlatform = errors.New("xfile: unsupported platform")

	// ErrInvalidFileLimit 表示文件描述符上限无效。
	ErrInvalidFileLimit = errors.New("xfile: file limit must be greater than 0")
)
