package xrotate

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 可手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func TestParsePeriod(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 30, 15, 0, time.UTC) // 周六

	tests := []struct {
		name   string
		period string
		want   time.Time
	}{
		{name: "每分钟", period: "minutely", want: time.Date(2026, 3, 14, 10, 31, 0, 0, time.UTC)},
		{name: "每小时", period: "hourly", want: time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)},
		{name: "每天", period: "daily", want: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "每周", period: "weekly", want: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "每月", period: "monthly", want: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
		{name: "每年", period: "yearly", want: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "大小写不敏感", period: " Hourly ", want: time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)},
		{name: "cron 表达式", period: "*/15 * * * *", want: time.Date(2026, 3, 14, 10, 45, 0, 0, time.UTC)},
		{name: "cron 描述符", period: "@daily", want: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched, err := ParsePeriod(tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sched.Next(base))
		})
	}
}

func TestParsePeriod_Invalid(t *testing.T) {
	for _, period := range []string{"", "   ", "fortnightly", "* * *", "61 * * * *"} {
		t.Run(period, func(t *testing.T) {
			_, err := ParsePeriod(period)
			assert.ErrorIs(t, err, ErrInvalidPeriod)
		})
	}
}

func TestPeriodRotator_BoundaryCrossing(t *testing.T) {
	b, path := newTestBackend(t)
	clock := &fakeClock{now: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)}

	r, err := NewPeriod(b, Config{Kind: KindPeriod, Period: "hourly", Backups: 2}, WithClock(clock.Now))
	require.NoError(t, err)

	write(t, b, "10:30\n")
	ok, err := r.Necessary(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	clock.Set(time.Date(2026, 3, 14, 10, 59, 59, 0, time.UTC))
	write(t, b, "10:59\n")
	ok, err = r.Necessary(nil)
	require.NoError(t, err)
	assert.False(t, ok, "尚未到达边界")

	// 边界之后的第一条记录先写入旧文件，再触发轮转
	clock.Set(time.Date(2026, 3, 14, 11, 0, 1, 0, time.UTC))
	write(t, b, "11:00\n")
	ok, err = r.Necessary(nil)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, r.Rotate())

	assert.Equal(t, "10:30\n10:59\n11:00\n", readFile(t, path+".1"))
	assert.Empty(t, readFile(t, path))

	// 下一个边界是 12:00
	clock.Set(time.Date(2026, 3, 14, 11, 30, 0, 0, time.UTC))
	ok, err = r.Necessary(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	clock.Set(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	ok, err = r.Necessary(nil)
	require.NoError(t, err)
	assert.True(t, ok, "恰好在边界上也触发")
}

func TestPeriodRotator_SkippedPeriods(t *testing.T) {
	b, path := newTestBackend(t)
	clock := &fakeClock{now: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)}

	r, err := NewPeriod(b, Config{Kind: KindPeriod, Period: "hourly", Backups: 3}, WithClock(clock.Now))
	require.NoError(t, err)

	// 长时间无写入后只轮转一次
	clock.Set(time.Date(2026, 3, 14, 15, 10, 0, 0, time.UTC))
	write(t, b, "late\n")
	ok, err := r.Necessary(nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, r.Rotate())

	ok, err = r.Necessary(nil)
	require.NoError(t, err)
	assert.False(t, ok, "下一个边界是 16:00")

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestPeriodRotator_NeverFires(t *testing.T) {
	b, _ := newTestBackend(t)
	// 2 月 30 日不存在
	_, err := NewPeriod(b, Config{Kind: KindPeriod, Period: "0 0 30 2 *"})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestPeriodRotator_NilClockOption(t *testing.T) {
	b, _ := newTestBackend(t)
	r, err := NewPeriod(b, Config{Kind: KindPeriod, Period: "yearly"}, WithClock(nil), nil)
	require.NoError(t, err)

	ok, err := r.Necessary(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}
