package xsink

import (
	"fmt"
	"slices"
	"strings"
)

// segment 模板片段。placeholder 为 true 时 text 是占位符名称。
type segment struct {
	text        string
	placeholder bool
}

// Template 已解析的路径模板
//
// 由字面量片段和 {name} 占位符片段按顺序组成。零值是空模板。
type Template struct {
	src  string
	segs []segment
}

// ParseTemplate 解析路径模板，从不失败
//
// 没有闭合的 '{' 以及空的 "{}" 都按字面量处理；"{a{b}" 中
// 只有靠近 '}' 的 "{b}" 是占位符。
func ParseTemplate(s string) Template {
	t := Template{src: s}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segs = append(t.segs, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		if s[i] != '{' {
			lit.WriteByte(s[i])
			i++
			continue
		}
		rest := s[i+1:]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			lit.WriteString(s[i:])
			break
		}
		// 更近的 '{' 优先
		if open := strings.IndexByte(rest[:end], '{'); open >= 0 {
			lit.WriteString(s[i : i+1+open])
			i += 1 + open
			continue
		}
		if end == 0 {
			lit.WriteString("{}")
			i += 2
			continue
		}
		flush()
		t.segs = append(t.segs, segment{text: rest[:end], placeholder: true})
		i += end + 2
	}
	flush()
	return t
}

// String 返回模板原文
func (t Template) String() string {
	return t.src
}

// Render 用 attrs 渲染模板
//
// 纯函数：相同输入总是得到相同输出。找到的属性替换为其字符串值，
// 找不到时保留 {name} 原文。attrs 可以为 nil。
func (t Template) Render(attrs Attributes) string {
	s, _ := t.render(attrs, false)
	return s
}

// renderPath 与 Render 相同，但替换进来的值含有 ".." 段时返回 ErrUnsafeValue
//
// 属性值来自记录，不可信；模板本身的字面量不受限制。
func (t Template) renderPath(attrs Attributes) (string, error) {
	return t.render(attrs, true)
}

func (t Template) render(attrs Attributes, checkValues bool) (string, error) {
	if t.Static() {
		return t.src, nil
	}
	var b strings.Builder
	b.Grow(len(t.src) + 16)
	for _, seg := range t.segs {
		if !seg.placeholder {
			b.WriteString(seg.text)
			continue
		}
		if attrs != nil {
			if v, ok := attrs.Lookup(seg.text); ok {
				val := v.Resolve().String()
				if checkValues && hasParentSegment(val) {
					return "", fmt.Errorf("%w: %s=%q", ErrUnsafeValue, seg.text, val)
				}
				b.WriteString(val)
				continue
			}
		}
		b.WriteByte('{')
		b.WriteString(seg.text)
		b.WriteByte('}')
	}
	return b.String(), nil
}

// hasParentSegment 值中是否有 ".." 路径段，'/' 和 '\' 都视为分隔符
func hasParentSegment(v string) bool {
	return slices.Contains(strings.FieldsFunc(v, func(r rune) bool {
		return r == '/' || r == '\\'
	}), "..")
}

// Placeholders 按出现顺序返回占位符名称（可能重复）
func (t Template) Placeholders() []string {
	var names []string
	for _, seg := range t.segs {
		if seg.placeholder {
			names = append(names, seg.text)
		}
	}
	return names
}

// Static 模板中没有占位符
func (t Template) Static() bool {
	for _, seg := range t.segs {
		if seg.placeholder {
			return false
		}
	}
	return true
}
