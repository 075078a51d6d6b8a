//go:build !unix

package xfile

// RaiseFileLimit 在非 Unix 平台上返回 [ErrUnsupportedPlatform]，参数校验保持一致。
func RaiseFileLimit(limit uint64) error {
	if limit == 0 {
		return ErrInvalidFileLimit
	}
	return ErrUnsupportedPlatform
}

// FileLimit 在非 Unix 平台上返回 [ErrUnsupportedPlatform]。
func FileLimit() (soft, hard uint64, err error) {
	return 0, 0, ErrUnsupportedPlatform
}
