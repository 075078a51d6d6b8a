package main

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 诊断日志文件的轮转参数
const (
	diagMaxSizeMB  = 10
	diagMaxBackups = 3
	diagMaxAgeDays = 7
)

// newDiagLogger 创建诊断日志
//
// path 为空时以文本格式写 stderr；否则以 JSON 格式写入按大小轮转的文件。
// 诊断日志与被写入的数据分开，不经过 xsink。
func newDiagLogger(path string, stderr io.Writer) (*slog.Logger, func() error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(stderr, nil)), func() error { return nil }
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    diagMaxSizeMB,
		MaxBackups: diagMaxBackups,
		MaxAge:     diagMaxAgeDays,
	}
	return slog.New(slog.NewJSONHandler(lj, nil)), lj.Close
}
