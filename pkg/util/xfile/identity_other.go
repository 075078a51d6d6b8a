//go:build !unix && !windows

package xfile

// StatIdentity 在不支持的平台上返回 [ErrUnsupportedPlatform]。
func StatIdentity(string) (FileID, error) {
	return FileID{}, ErrUnsupportedPlatform
}
