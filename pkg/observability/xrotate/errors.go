package xrotate

import "errors"

// 配置校验错误
var (
	// ErrUnknownKind 轮转变体未知
	ErrUnknownKind = errors.New("xrotate: unknown rotation kind")

	// ErrInvalidSize Size 阈值无效（必须 > 0）
	ErrInvalidSize = errors.New("xrotate: invalid size threshold")

	// ErrInvalidBackups Backups 值无效（必须在 0~1024 范围内）
	ErrInvalidBackups = errors.New("xrotate: invalid backups")

	// ErrInvalidPattern 备份文件名模板无效
	ErrInvalidPattern = errors.New("xrotate: invalid backup pattern")

	// ErrInvalidPeriod 周期无法解析或永不触发
	ErrInvalidPeriod = errors.New("xrotate: invalid period")

	// ErrNilBackend 未提供后端
	ErrNilBackend = errors.New("xrotate: backend is required")
)
