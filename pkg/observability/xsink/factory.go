package xsink

import (
	"fmt"
	"math"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/xsink/pkg/observability/xrotate"
)

// 配置键
const (
	keyPath      = "path"
	keyAutoFlush = "autoflush"
	keyRotation  = "rotation"
	keyMove      = "move"
	keySize      = "size"
	keyPeriod    = "period"
	keyPattern   = "pattern"
	keyBackups   = "backups"
)

// variantKeys 变体键及其优先级
var variantKeys = []struct {
	key  string
	kind xrotate.Kind
}{
	{keyMove, xrotate.KindMove},
	{keySize, xrotate.KindSize},
	{keyPeriod, xrotate.KindPeriod},
}

// Resolve 根据配置选择轮转变体
//
// 没有 rotation 键时为 KindNull；否则按 move、size、period 的顺序
// 取第一个出现的键，其余键忽略。move 只看是否出现，不看取值。
func Resolve(sinkType string, raw map[string]any) (xrotate.Kind, error) {
	if sinkType != Name {
		return xrotate.KindNull, fmt.Errorf("%w: %q", ErrUnknownSinkType, sinkType)
	}
	v, ok := raw[keyRotation]
	if !ok {
		return xrotate.KindNull, nil
	}
	rot, ok := asObject(v)
	if !ok {
		return xrotate.KindNull, invalidField(keyRotation, "object", typeName(v))
	}
	for _, vk := range variantKeys {
		if _, ok := rot[vk.key]; ok {
			return vk.kind, nil
		}
	}
	return xrotate.KindNull, fmt.Errorf("%w: rotation has none of %q, %q, %q",
		ErrNoVariant, keyMove, keySize, keyPeriod)
}

// Extract 按变体从配置中提取强类型的 Config
//
// 字段：
//   - path: 字符串，必填且非空
//   - autoflush: 布尔，默认 false
//   - rotation.pattern: 字符串，默认 xrotate.DefaultPattern（任意轮转变体）
//   - rotation.backups: 非负整数，默认 xrotate.DefaultBackups（任意轮转变体）
//   - rotation.size: 正整数，KindSize 必填
//   - rotation.period: 字符串，KindPeriod 必填
//
// JSON 数字只有整数值才能作为整数字段。返回的 Config 已通过 Validate。
func Extract(kind xrotate.Kind, raw map[string]any) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(raw, "."), nil); err != nil {
		return Config{}, fmt.Errorf("xsink: load config: %w", err)
	}

	var (
		cfg Config
		err error
	)
	if cfg.Path, err = requiredString(k, keyPath); err != nil {
		return Config{}, err
	}
	if cfg.AutoFlush, err = optionalBool(k, keyAutoFlush, false); err != nil {
		return Config{}, err
	}

	cfg.Rotation.Kind = kind
	switch kind {
	case xrotate.KindNull:
		if err := cfg.Validate(); err != nil {
			return Config{}, err
		}
		return cfg, nil
	case xrotate.KindMove, xrotate.KindSize, xrotate.KindPeriod:
	default:
		return Config{}, fmt.Errorf("%w: %d", xrotate.ErrUnknownKind, int(kind))
	}

	if cfg.Rotation.Pattern, err = optionalString(k, keyRotation+"."+keyPattern, xrotate.DefaultPattern); err != nil {
		return Config{}, err
	}
	backups, err := optionalInt(k, keyRotation+"."+keyBackups, xrotate.DefaultBackups)
	if err != nil {
		return Config{}, err
	}
	if backups < 0 || backups > xrotate.MaxBackups {
		return Config{}, invalidField(keyRotation+"."+keyBackups,
			fmt.Sprintf("integer 0~%d", xrotate.MaxBackups), fmt.Sprint(backups))
	}
	cfg.Rotation.Backups = int(backups)

	switch kind {
	case xrotate.KindSize:
		size, err := requiredInt(k, keyRotation+"."+keySize)
		if err != nil {
			return Config{}, err
		}
		if size <= 0 {
			return Config{}, invalidField(keyRotation+"."+keySize, "positive integer", fmt.Sprint(size))
		}
		cfg.Rotation.Size = size
	case xrotate.KindPeriod:
		if cfg.Rotation.Period, err = requiredString(k, keyRotation+"."+keyPeriod); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Build 解析变体、提取配置并创建 FileSink
func Build(sinkType string, raw map[string]any, opts ...Option) (*FileSink, error) {
	kind, err := Resolve(sinkType, raw)
	if err != nil {
		return nil, err
	}
	cfg, err := Extract(kind, raw)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// =============================================================================
// 字段读取
// =============================================================================

// lookup 读取字段，null 视为缺失
func lookup(k *koanf.Koanf, key string) (any, bool) {
	if !k.Exists(key) {
		return nil, false
	}
	v := k.Get(key)
	return v, v != nil
}

func requiredString(k *koanf.Koanf, key string) (string, error) {
	v, ok := lookup(k, key)
	if !ok {
		return "", missingField(key, "string")
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidField(key, "string", typeName(v))
	}
	if s == "" {
		return "", invalidField(key, "non-empty string", `""`)
	}
	return s, nil
}

func optionalString(k *koanf.Koanf, key, def string) (string, error) {
	v, ok := lookup(k, key)
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidField(key, "string", typeName(v))
	}
	return s, nil
}

func optionalBool(k *koanf.Koanf, key string, def bool) (bool, error) {
	v, ok := lookup(k, key)
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, invalidField(key, "bool", typeName(v))
	}
	return b, nil
}

func requiredInt(k *koanf.Koanf, key string) (int64, error) {
	v, ok := lookup(k, key)
	if !ok {
		return 0, missingField(key, "integer")
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, invalidField(key, "integer", typeName(v))
	}
	return n, nil
}

func optionalInt(k *koanf.Koanf, key string, def int64) (int64, error) {
	v, ok := lookup(k, key)
	if !ok {
		return def, nil
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, invalidField(key, "integer", typeName(v))
	}
	return n, nil
}

// toInt64 接受各种整数类型以及整数值的浮点数
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt64(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	default:
		return 0, false
	}
}

func uintToInt64(n uint64) (int64, bool) {
	if n > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// 2^63 本身超出 int64
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// asObject 接受 map[string]any 和 YAML 解析出的 map[any]any，null 视为空对象
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case nil:
		return map[string]any{}, true
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// typeName 返回配置值的类型描述，用于错误信息
func typeName(v any) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case float32:
		return floatTypeName(float64(n))
	case float64:
		return floatTypeName(n)
	case map[string]any, map[any]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func floatTypeName(f float64) string {
	if _, ok := floatToInt64(f); ok {
		return "integer"
	}
	return "number"
}
