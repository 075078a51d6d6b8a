//go:build windows

package xfile

import (
	"os"

	"golang.org/x/sys/windows"
)

// StatIdentity 返回 path 指向文件的身份
//
// 取卷序列号和文件索引号。创建时间受 NTFS 隧道影响，同名文件很快
// 重建时会继承旧值，不能作为身份。
func StatIdentity(path string) (FileID, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return FileID{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	// 只读属性：不申请访问权限，共享模式全开，不妨碍外部重命名或删除
	h, err := windows.CreateFile(p, 0,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil, windows.OPEN_EXISTING, windows.FILE_FLAG_BACKUP_SEMANTICS, 0)
	if err != nil {
		return FileID{}, &os.PathError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = windows.CloseHandle(h) }()

	var info windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(h, &info); err != nil {
		return FileID{}, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	return FileID{
		Dev: uint64(info.VolumeSerialNumber),
		Ino: uint64(info.FileIndexHigh)<<32 | uint64(info.FileIndexLow),
	}, nil
}
