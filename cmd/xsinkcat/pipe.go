package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	retry "github.com/avast/retry-go/v5"

	"github.com/omeyang/xsink/pkg/observability/xsink"
)

// pipe 把输入流逐行交给 Consumer
//
// 写入失败按 retries 重试，仍失败的记录丢弃并计数，读完输入后
// 以错误形式汇报。已写入但刷盘或轮转失败的记录不重试，也不计为丢弃。
type pipe struct {
	consumer  xsink.Consumer
	static    xsink.Attrs
	parseJSON bool
	retries   int
	delay     time.Duration
	log       *slog.Logger

	records int
	failed  int
}

// line 读取结果
type line struct {
	data []byte
	err  error
}

func (p *pipe) run(ctx context.Context, r io.Reader) error {
	lines := make(chan line)
	done := make(chan struct{})
	defer close(done)
	go readLines(r, lines, done)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("xsinkcat interrupted", slog.Int("records", p.records), slog.Int("failed", p.failed))
			return p.result()
		case l, ok := <-lines:
			if !ok {
				p.log.Info("xsinkcat finished", slog.Int("records", p.records), slog.Int("failed", p.failed))
				return p.result()
			}
			if l.err != nil {
				return fmt.Errorf("read input: %w", l.err)
			}
			p.handle(ctx, l.data)
		}
	}
}

func (p *pipe) result() error {
	if p.failed > 0 {
		return fmt.Errorf("%d of %d records were not written", p.failed, p.records)
	}
	return nil
}

// readLines 按行读取，末尾缺少换行符的行补齐换行符
func readLines(r io.Reader, out chan<- line, done <-chan struct{}) {
	defer close(out)
	br := bufio.NewReader(r)
	for {
		data, err := br.ReadBytes('\n')
		if len(data) > 0 {
			if data[len(data)-1] != '\n' {
				data = append(data, '\n')
			}
			select {
			case out <- line{data: data}:
			case <-done:
				return
			}
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			select {
			case out <- line{err: err}:
			case <-done:
			}
			return
		}
	}
}

func (p *pipe) handle(ctx context.Context, msg []byte) {
	p.records++
	attrs := p.attrsFor(msg)

	err := retry.New(
		retry.Context(ctx),
		retry.Attempts(uint(p.retries)+1),
		retry.DelayType(func(uint, error, retry.DelayContext) time.Duration { return p.delay }),
		retry.LastErrorOnly(true),
		// 已写入的记录重试会重复写入
		retry.RetryIf(func(err error) bool { return !errors.Is(err, xsink.ErrWritten) }),
		retry.OnRetry(func(n uint, err error) {
			p.log.Warn("write failed, retrying", slog.Uint64("attempt", uint64(n)+1), slog.Any("error", err))
		}),
	).Do(func() error {
		return p.consumer.Consume(msg, attrs)
	})
	switch {
	case err == nil:
	case errors.Is(err, xsink.ErrWritten):
		p.log.Warn("record written, post-write step failed", slog.Any("error", err))
	default:
		p.failed++
		p.log.Error("record dropped", slog.Any("error", err))
	}
}

// attrsFor 合并静态属性和 JSON 行的顶层标量字段，后者优先
func (p *pipe) attrsFor(msg []byte) xsink.Attributes {
	if !p.parseJSON {
		return p.static
	}
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		// 不是 JSON 对象的行只使用静态属性
		return p.static
	}

	attrs := make(xsink.Attrs, len(p.static), len(p.static)+len(fields))
	copy(attrs, p.static)
	for k, v := range fields {
		switch v := v.(type) {
		case string:
			attrs = append(attrs, slog.String(k, v))
		case json.Number:
			attrs = append(attrs, slog.String(k, v.String()))
		case bool:
			attrs = append(attrs, slog.Bool(k, v))
		}
	}
	return attrs
}
