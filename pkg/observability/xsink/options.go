package xsink

import (
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xsink/pkg/util/xfile"
)

// BackendFactory 为解析出的文件名创建后端
type BackendFactory func(path string) (xfile.Backend, error)

type options struct {
	backendFactory BackendFactory
	fileMode       os.FileMode
	now            func() time.Time
	meterProvider  metric.MeterProvider
}

func defaultOptions() options {
	return options{
		fileMode:      xfile.DefaultFileMode,
		now:           time.Now,
		meterProvider: otel.GetMeterProvider(),
	}
}

// Option FileSink 配置选项
type Option func(*options)

// WithBackendFactory 替换后端的创建方式，默认使用 xfile.OpenAppend
func WithBackendFactory(f BackendFactory) Option {
	return func(o *options) {
		if f != nil {
			o.backendFactory = f
		}
	}
}

// WithFileMode 设置新建日志文件的权限，默认 0644
//
// 只在使用默认后端时生效。
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.fileMode = mode
	}
}

// WithClock 设置周期轮转使用的时钟，默认 time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMeterProvider 设置指标的 MeterProvider，默认 otel.GetMeterProvider()
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}
