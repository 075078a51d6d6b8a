package xrotate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/omeyang/xsink/pkg/util/xfile"
)

// 默认配置值
const (
	// DefaultPattern 默认备份文件名模板
	DefaultPattern = "{filename}.{index}"

	// DefaultBackups 配置中未给出 backups 时保留的备份数量
	DefaultBackups = 7

	// MaxBackups 备份数量上限
	MaxBackups = 1024
)

// 备份文件名模板中的占位符
const (
	placeholderFilename = "{filename}"
	placeholderIndex    = "{index}"
)

// Rotator 日志轮转器接口
//
// 约定：
//   - Necessary 在消息写入之后调用，基于刚写完的状态判断
//   - Rotate 仅在 Necessary 返回 true 后调用，返回时后端必须可继续写入
//     （即使 Rotate 返回错误，后续 Write 也会尝试重新打开）
type Rotator interface {
	// Necessary 判断是否需要轮转，msg 为刚写入的消息
	Necessary(msg []byte) (bool, error)

	// Rotate 执行轮转
	Rotate() error
}

// Kind 轮转变体
type Kind int

const (
	// KindNull 不轮转
	KindNull Kind = iota
	// KindMove 外部移动触发的重新打开
	KindMove
	// KindSize 按大小轮转
	KindSize
	// KindPeriod 按时间周期轮转
	KindPeriod
)

// String 返回配置中使用的变体名
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindMove:
		return "move"
	case KindSize:
		return "size"
	case KindPeriod:
		return "period"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Config 轮转配置
//
// 各字段只对部分变体有效：
//   - Pattern、Backups: KindSize、KindPeriod
//   - Size: KindSize
//   - Period: KindPeriod
type Config struct {
	// Kind 轮转变体
	Kind Kind

	// Pattern 备份文件名模板，空值使用 DefaultPattern
	// {filename} 替换为当前文件路径，{index} 替换为备份序号（从 1 开始）
	Pattern string

	// Backups 保留的备份数量，0 表示轮转时丢弃旧文件
	Backups int

	// Size 触发轮转的文件字节数
	Size int64

	// Period 周期标识或 cron 表达式
	Period string
}

// Validate 校验配置，不接触文件系统
func (c Config) Validate() error {
	switch c.Kind {
	case KindNull, KindMove:
		return nil
	case KindSize:
		if c.Size <= 0 {
			return fmt.Errorf("%w: got %d, want > 0", ErrInvalidSize, c.Size)
		}
	case KindPeriod:
		if _, err := ParsePeriod(c.Period); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(c.Kind))
	}
	return validateBackups(c.pattern(), c.Backups)
}

func (c Config) pattern() string {
	if c.Pattern == "" {
		return DefaultPattern
	}
	return c.Pattern
}

func validateBackups(pattern string, backups int) error {
	if backups < 0 || backups > MaxBackups {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidBackups, backups, MaxBackups)
	}
	if strings.TrimSpace(pattern) == placeholderFilename {
		return fmt.Errorf("%w: %q would overwrite the current file", ErrInvalidPattern, pattern)
	}
	// 多个备份槽位必须能区分
	if backups > 1 && !strings.Contains(pattern, placeholderIndex) {
		return fmt.Errorf("%w: %q has no %s but backups is %d", ErrInvalidPattern, pattern, placeholderIndex, backups)
	}
	return nil
}

type options struct {
	now func() time.Time
}

// Option 轮转器选项
type Option func(*options)

// WithClock 设置时钟（默认 time.Now），仅对 KindPeriod 有效
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New 按 cfg.Kind 创建轮转器
//
// 变体集合是封闭的：这里一次性匹配，之后 Handler 只通过 Rotator 接口调用。
func New(b xfile.Backend, cfg Config, opts ...Option) (Rotator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case KindNull:
		return NewNull(), nil
	case KindMove:
		return NewMove(b)
	case KindSize:
		return NewSize(b, cfg)
	case KindPeriod:
		return NewPeriod(b, cfg, opts...)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(cfg.Kind))
	}
}

// nullRotator 从不轮转
type nullRotator struct{}

// NewNull 创建不轮转的 Rotator
func NewNull() Rotator {
	return nullRotator{}
}

func (nullRotator) Necessary([]byte) (bool, error) { return false, nil }

func (nullRotator) Rotate() error { return nil }
