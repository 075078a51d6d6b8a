//go:build unix

package xfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// 系统调用函数变量，测试中可替换以覆盖错误路径。
// 注意：替换包级变量的测试不可使用 t.Parallel()。
var stat = unix.Stat

// StatIdentity 返回 path 指向文件的 (st_dev, st_ino)
func StatIdentity(path string) (FileID, error) {
	var st unix.Stat_t
	if err := stat(path, &st); err != nil {
		return FileID{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	//nolint:unconvert // Dev 的类型随平台变化（linux uint64，darwin int32）
	return FileID{Dev: uint64(st.Dev), Ino: uint64(st.Ino)}, nil
}
