package xsink

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed FileSink 已关闭
	ErrClosed = errors.New("xsink: sink closed")

	// ErrEmptyPath 路径模板为空
	ErrEmptyPath = errors.New("xsink: empty path")

	// ErrNilConsumer 未提供 Consumer
	ErrNilConsumer = errors.New("xsink: nil consumer")

	// ErrUnknownSinkType 不是 files 类型的输出
	ErrUnknownSinkType = errors.New("xsink: unknown sink type")

	// ErrNoVariant rotation 中没有 move、size、period 中的任何一个
	ErrNoVariant = errors.New("xsink: no rotation variant matched")

	// ErrMissingField 当前变体要求的字段缺失
	ErrMissingField = errors.New("xsink: missing field")

	// ErrInvalidField 字段类型或取值不合法
	ErrInvalidField = errors.New("xsink: invalid field")

	// ErrUnsupportedFormat 不支持的配置格式
	ErrUnsupportedFormat = errors.New("xsink: unsupported config format")

	// ErrUnsafeValue 替换进路径模板的属性值包含 ".." 段
	ErrUnsafeValue = errors.New("xsink: unsafe attribute value in path")

	// ErrWritten 消息已写入，之后的刷盘、轮转判断或轮转失败
	//
	// 匹配该错误时不要重新提交同一条消息，否则会重复写入。
	ErrWritten = errors.New("xsink: message written")
)

// writtenError 包装写入之后的步骤产生的错误，errors.Is 可匹配 ErrWritten
type writtenError struct {
	err error
}

func (e *writtenError) Error() string { return e.err.Error() }

func (e *writtenError) Unwrap() error { return e.err }

func (e *writtenError) Is(target error) bool { return target == ErrWritten }

// FieldError 描述配置中某个字段的错误
//
// 通过 errors.Is 可匹配 ErrMissingField 或 ErrInvalidField。
type FieldError struct {
	// Field 以点分隔的字段路径，如 "rotation.size"
	Field string
	// Want 期望的类型或取值说明
	Want string
	// Got 实际的类型或取值说明
	Got string
	// Err ErrMissingField 或 ErrInvalidField
	Err error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissingField) {
		return fmt.Sprintf("xsink: field %q: missing, want %s", e.Field, e.Want)
	}
	return fmt.Sprintf("xsink: field %q: want %s, got %s", e.Field, e.Want, e.Got)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func missingField(field, want string) error {
	return &FieldError{Field: field, Want: want, Err: ErrMissingField}
}

func invalidField(field, want, got string) error {
	return &FieldError{Field: field, Want: want, Got: got, Err: ErrInvalidField}
}
