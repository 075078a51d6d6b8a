package xsink

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xsink/pkg/observability/xrotate"
)

// 指标名称常量
const (
	metricNameRecordsTotal   = "xsink.records.total"
	metricNameBytesTotal     = "xsink.bytes.total"
	metricNameRotationsTotal = "xsink.rotations.total"
	metricNameHandlersActive = "xsink.handlers.active"
	metricNameErrorsTotal    = "xsink.errors.total"
)

// 错误指标的 op 取值
const (
	opOpen   = "open"
	opWrite  = "write"
	opFlush  = "flush"
	opCheck  = "check"
	opRotate = "rotate"
	opClose  = "close"
)

// metrics FileSink 指标收集器，nil 表示不收集
type metrics struct {
	records   metric.Int64Counter
	bytes     metric.Int64Counter
	rotations metric.Int64Counter
	handlers  metric.Int64UpDownCounter
	errors    metric.Int64Counter
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	if mp == nil {
		return nil, nil
	}
	meter := mp.Meter("xsink")

	var (
		m   metrics
		err error
	)
	if m.records, err = meter.Int64Counter(metricNameRecordsTotal,
		metric.WithDescription("写入的记录数"),
		metric.WithUnit("{record}")); err != nil {
		return nil, err
	}
	if m.bytes, err = meter.Int64Counter(metricNameBytesTotal,
		metric.WithDescription("写入的字节数"),
		metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if m.rotations, err = meter.Int64Counter(metricNameRotationsTotal,
		metric.WithDescription("完成的轮转次数"),
		metric.WithUnit("{rotation}")); err != nil {
		return nil, err
	}
	if m.handlers, err = meter.Int64UpDownCounter(metricNameHandlersActive,
		metric.WithDescription("当前打开的 Handler 数"),
		metric.WithUnit("{handler}")); err != nil {
		return nil, err
	}
	if m.errors, err = meter.Int64Counter(metricNameErrorsTotal,
		metric.WithDescription("I/O 错误次数"),
		metric.WithUnit("{error}")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *metrics) recordWrite(n int) {
	if m == nil {
		return
	}
	ctx := context.Background()
	m.records.Add(ctx, 1)
	m.bytes.Add(ctx, int64(n))
}

func (m *metrics) recordRotation(kind xrotate.Kind) {
	if m == nil {
		return
	}
	m.rotations.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("rotation", kind.String())))
}

func (m *metrics) recordError(op string) {
	if m == nil {
		return
	}
	m.errors.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("op", op)))
}

func (m *metrics) handlersChanged(delta int64) {
	if m == nil {
		return
	}
	m.handlers.Add(context.Background(), delta)
}
