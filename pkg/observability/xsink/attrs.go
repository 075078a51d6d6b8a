package xsink

import "log/slog"

// Attributes 记录的属性视图
//
// 按名称查找单个属性，找不到是正常结果而非错误。
type Attributes interface {
	Lookup(name string) (slog.Value, bool)
}

// Attrs 基于 slog.Attr 切片的属性视图，同名属性以最后一个为准
type Attrs []slog.Attr

// Lookup 从后向前查找
func (a Attrs) Lookup(name string) (slog.Value, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Key == name {
			return a[i].Value, true
		}
	}
	return slog.Value{}, false
}

// Map 基于 map 的属性视图
type Map map[string]any

// Lookup 查找 name，值按 slog.AnyValue 转换
func (m Map) Lookup(name string) (slog.Value, bool) {
	v, ok := m[name]
	if !ok {
		return slog.Value{}, false
	}
	return slog.AnyValue(v), true
}

var (
	_ Attributes = Attrs(nil)
	_ Attributes = Map(nil)
)
