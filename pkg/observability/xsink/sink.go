package xsink

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/omeyang/xsink/pkg/observability/xrotate"
	"github.com/omeyang/xsink/pkg/util/xfile"
)

// Name 配置中文件输出的类型名
const Name = "files"

// Config 文件输出配置
type Config struct {
	// Path 路径模板，可包含 {name} 占位符
	Path string

	// AutoFlush 每次写入后同步刷盘
	AutoFlush bool

	// Rotation 轮转配置，零值为不轮转
	Rotation xrotate.Config
}

// Validate 校验配置，不接触文件系统
func (c Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return ErrEmptyPath
	}
	tmpl := ParseTemplate(c.Path)
	if tmpl.Static() {
		if _, err := xfile.SanitizePath(c.Path); err != nil {
			return err
		}
	}
	return c.Rotation.Validate()
}

// FileSink 按路径模板把记录分发到各自文件的输出
//
// Handler 在某个文件名第一次出现时创建，之后一直复用，不回收。
// 不做内部同步，并发使用见 Synchronized。
type FileSink struct {
	cfg      Config
	tmpl     Template
	opts     options
	metrics  *metrics
	handlers map[string]*Handler
	closed   bool
}

// New 创建 FileSink
//
// 只校验配置，不打开任何文件。
func New(cfg Config, opts ...Option) (*FileSink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.fileMode&^os.FileMode(0o777) != 0 {
		return nil, fmt.Errorf("%w: file mode %04o", xfile.ErrInvalidPerm, o.fileMode)
	}
	if o.backendFactory == nil {
		mode := o.fileMode
		o.backendFactory = func(path string) (xfile.Backend, error) {
			return xfile.OpenAppend(path, xfile.WithFileMode(mode))
		}
	}

	m, err := newMetrics(o.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("xsink: init metrics: %w", err)
	}

	return &FileSink{
		cfg:      cfg,
		tmpl:     ParseTemplate(cfg.Path),
		opts:     o,
		metrics:  m,
		handlers: make(map[string]*Handler),
	}, nil
}

// Config 返回创建时的配置
func (s *FileSink) Config() Config {
	return s.cfg
}

// Filename 返回 attrs 对应的文件名，不创建 Handler
//
// 能通过校验时返回规范化后的路径，即 Handler 的键；否则返回渲染原文。
func (s *FileSink) Filename(attrs Attributes) string {
	if name, err := s.resolve(attrs); err == nil {
		return name
	}
	return s.tmpl.Render(attrs)
}

// resolve 渲染并规范化文件名
//
// "a" 和 "./a" 这类写法指向同一个文件，规范化后共用一个 Handler。
func (s *FileSink) resolve(attrs Attributes) (string, error) {
	name, err := s.tmpl.renderPath(attrs)
	if err != nil {
		return "", err
	}
	return xfile.SanitizePath(name)
}

// Consume 把一条消息写入 attrs 对应的文件
//
// 文件名第一次出现时打开后端并创建 Handler。创建失败不会留下半成品，
// 下一次 Consume 会重新尝试。属性值含 ".." 段时返回 ErrUnsafeValue，
// 不写入任何文件。
func (s *FileSink) Consume(msg []byte, attrs Attributes) error {
	if s.closed {
		return ErrClosed
	}
	name, err := s.resolve(attrs)
	if err != nil {
		s.metrics.recordError(opOpen)
		return fmt.Errorf("xsink: filename %q: %w", s.tmpl.Render(attrs), err)
	}
	h, err := s.handlerFor(name)
	if err != nil {
		return err
	}
	return h.Handle(msg)
}

func (s *FileSink) handlerFor(name string) (*Handler, error) {
	if h, ok := s.handlers[name]; ok {
		return h, nil
	}

	b, err := s.opts.backendFactory(name)
	if err != nil {
		s.metrics.recordError(opOpen)
		return nil, fmt.Errorf("xsink: open %s: %w", name, err)
	}
	r, err := xrotate.New(b, s.cfg.Rotation, xrotate.WithClock(s.opts.now))
	if err != nil {
		s.metrics.recordError(opOpen)
		return nil, errors.Join(fmt.Errorf("xsink: rotator %s: %w", name, err), b.Close())
	}

	h := newHandler(b, r, s.cfg, s.metrics)
	s.handlers[name] = h
	s.metrics.handlersChanged(1)
	return h, nil
}

// Handler 返回 filename 对应的 Handler
func (s *FileSink) Handler(filename string) (*Handler, bool) {
	h, ok := s.handlers[filename]
	return h, ok
}

// Filenames 返回已创建 Handler 的文件名，按字典序排列
func (s *FileSink) Filenames() []string {
	return slices.Sorted(maps.Keys(s.handlers))
}

// Len 返回 Handler 数量
func (s *FileSink) Len() int {
	return len(s.handlers)
}

// Close 刷盘并关闭所有 Handler
//
// 单个 Handler 失败不影响其余 Handler，错误合并返回。
// 之后 Consume 返回 ErrClosed，重复调用 Close 也返回 ErrClosed。
func (s *FileSink) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	var errs []error
	for _, name := range s.Filenames() {
		if err := s.handlers[name].Close(); err != nil {
			s.metrics.recordError(opClose)
			errs = append(errs, err)
		}
	}
	s.metrics.handlersChanged(-int64(len(s.handlers)))
	return errors.Join(errs...)
}
