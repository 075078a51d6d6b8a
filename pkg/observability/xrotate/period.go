package xrotate

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/omeyang/xsink/pkg/util/xfile"
)

// periodSpecs 周期标识到 cron 表达式的映射
var periodSpecs = map[string]string{
	"minutely": "* * * * *",
	"hourly":   "@hourly",
	"daily":    "@daily",
	"weekly":   "@weekly",
	"monthly":  "@monthly",
	"yearly":   "@yearly",
}

// ParsePeriod 解析周期标识或 cron 表达式
//
// 周期标识不区分大小写；其余输入按 cron.ParseStandard 解析。
func ParsePeriod(period string) (cron.Schedule, error) {
	token := strings.TrimSpace(period)
	if token == "" {
		return nil, fmt.Errorf("%w: empty period", ErrInvalidPeriod)
	}
	if spec, ok := periodSpecs[strings.ToLower(token)]; ok {
		token = spec
	}
	sched, err := cron.ParseStandard(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPeriod, period, err)
	}
	return sched, nil
}

// periodRotator 跨越周期边界时轮转
type periodRotator struct {
	backend xfile.Backend
	backups *backupSet
	sched   cron.Schedule
	now     func() time.Time
	next    time.Time // 当前周期的结束边界
}

// NewPeriod 创建按时间周期轮转的 Rotator
//
// 创建时记录下一个边界；之后每次轮转重新计算。
func NewPeriod(b xfile.Backend, cfg Config, opts ...Option) (Rotator, error) {
	if b == nil {
		return nil, ErrNilBackend
	}
	sched, err := ParsePeriod(cfg.Period)
	if err != nil {
		return nil, err
	}
	backups, err := newBackupSet(b.Path(), cfg.Pattern, cfg.Backups)
	if err != nil {
		return nil, err
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	next := sched.Next(o.now())
	if next.IsZero() {
		return nil, fmt.Errorf("%w: %q never fires", ErrInvalidPeriod, cfg.Period)
	}
	return &periodRotator{
		backend: b,
		backups: backups,
		sched:   sched,
		now:     o.now,
		next:    next,
	}, nil
}

func (r *periodRotator) Necessary([]byte) (bool, error) {
	return !r.now().Before(r.next), nil
}

func (r *periodRotator) Rotate() error {
	err := r.backups.rotate(r.backend)
	r.next = r.sched.Next(r.now())
	return err
}
