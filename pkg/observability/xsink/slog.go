package xsink

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"slices"
	"strings"
)

// RecordFormat 记录的文本格式
type RecordFormat int

const (
	// RecordJSON 每条记录一行 JSON（slog.JSONHandler）
	RecordJSON RecordFormat = iota
	// RecordText 每条记录一行 key=value（slog.TextHandler）
	RecordText
)

// SlogOptions NewSlogHandler 的选项
type SlogOptions struct {
	// Format 记录格式，默认 RecordJSON
	Format RecordFormat

	// Level 最低级别，nil 时为 slog.LevelInfo
	Level slog.Leveler

	// AddSource 输出调用位置
	AddSource bool

	// ReplaceAttr 见 slog.HandlerOptions.ReplaceAttr，只影响输出文本，
	// 不影响路径模板看到的属性
	ReplaceAttr func(groups []string, a slog.Attr) slog.Attr
}

// slogOp 按调用顺序记录的 WithAttrs/WithGroup
type slogOp struct {
	group string
	attrs []slog.Attr
}

// slogHandler 把 slog.Record 格式化后交给 Consumer
//
// 路径模板可以引用记录属性和 With 属性；组内属性以 "组.键" 命名。
type slogHandler struct {
	consumer Consumer
	opts     SlogOptions
	ops      []slogOp
	attrs    Attrs    // 已按组限定的 With 属性
	groups   []string // 当前组路径
}

// NewSlogHandler 创建写入 c 的 slog.Handler
//
// Handle 返回 Consume 的错误，是否丢弃或重试由上层决定。
// c 不是并发安全的（如 *FileSink）时，需要先用 Synchronized 包装。
func NewSlogHandler(c Consumer, opts *SlogOptions) slog.Handler {
	if c == nil {
		panic(ErrNilConsumer)
	}
	h := &slogHandler{consumer: c}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *slogHandler) Handle(ctx context.Context, r slog.Record) error {
	var buf bytes.Buffer
	inner := h.formatter(&buf)
	for _, op := range h.ops {
		if op.group != "" {
			inner = inner.WithGroup(op.group)
		} else {
			inner = inner.WithAttrs(op.attrs)
		}
	}
	if err := inner.Handle(ctx, r); err != nil {
		return err
	}

	lookup := make(Attrs, len(h.attrs), len(h.attrs)+r.NumAttrs())
	copy(lookup, h.attrs)
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		lookup = appendQualified(lookup, prefix, a)
		return true
	})
	return h.consumer.Consume(buf.Bytes(), lookup)
}

func (h *slogHandler) formatter(buf *bytes.Buffer) slog.Handler {
	// 级别已在 Enabled 中判断
	ho := &slog.HandlerOptions{
		Level:       slog.Level(math.MinInt),
		AddSource:   h.opts.AddSource,
		ReplaceAttr: h.opts.ReplaceAttr,
	}
	if h.opts.Format == RecordText {
		return slog.NewTextHandler(buf, ho)
	}
	return slog.NewJSONHandler(buf, ho)
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	h2.ops = append(h2.ops, slogOp{attrs: slices.Clone(attrs)})
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		h2.attrs = appendQualified(h2.attrs, prefix, a)
	}
	return h2
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.ops = append(h2.ops, slogOp{group: name})
	h2.groups = append(h2.groups, name)
	return h2
}

func (h *slogHandler) clone() *slogHandler {
	return &slogHandler{
		consumer: h.consumer,
		opts:     h.opts,
		ops:      slices.Clip(h.ops),
		attrs:    slices.Clip(h.attrs),
		groups:   slices.Clip(h.groups),
	}
}

// appendQualified 展开组属性，键加上组前缀
func appendQualified(dst Attrs, prefix string, a slog.Attr) Attrs {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := prefix
		// 空键的组内联到当前层级
		if a.Key != "" {
			sub = joinKey(prefix, a.Key)
		}
		for _, ga := range a.Value.Group() {
			dst = appendQualified(dst, sub, ga)
		}
		return dst
	}
	return append(dst, slog.Attr{Key: joinKey(prefix, a.Key), Value: a.Value})
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
