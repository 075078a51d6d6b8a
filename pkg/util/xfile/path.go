package xfile

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// isSep 把 '/' 和 '\' 都当作分隔符，Windows 风格的路径在 unix 上同样被检查
func isSep(r rune) bool {
	return r == '/' || r == '\\'
}

// SanitizePath 校验并规范化日志文件路径
//
// 拒绝空路径、含 NUL 的路径、以分隔符结尾的目录路径、规范化后仍以 ".."
// 段越界的相对路径，以及没有文件名的路径。"app..2024.log" 这类文件名不受影响。
// 绝对路径中的 ".." 由 filepath.Clean 解析。不把路径限制在某个目录内。
func SanitizePath(path string) (string, error) {
	switch {
	case path == "":
		return "", ErrEmptyPath
	case strings.ContainsRune(path, 0):
		return "", fmt.Errorf("%w: %q", ErrNullByte, path)
	case strings.HasSuffix(path, "/") || strings.HasSuffix(path, `\`):
		// Clean 会去掉结尾的分隔符，先检查
		return "", fmt.Errorf("%w: %q names a directory", ErrInvalidPath, path)
	}

	cleaned := filepath.Clean(path)
	if slices.Contains(strings.FieldsFunc(cleaned, isSep), "..") {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, path)
	}
	if base := filepath.Base(cleaned); base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q has no file name", ErrInvalidPath, path)
	}
	return cleaned, nil
}
