package xsink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 配置文件格式
type Format string

const (
	// FormatYAML YAML 格式
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式
	FormatJSON Format = "json"
)

// DetectFormat 根据扩展名判断格式（.yaml/.yml 或 .json）
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

// LoadFile 读取配置文件并返回 key 下的子树
//
// key 为空时返回整个文件。返回值可直接交给 Resolve、Extract 和 Build。
func LoadFile(path, key string) (map[string]any, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	//#nosec G304 -- 配置文件路径由调用方提供
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("xsink: read config: %w", err)
	}
	return LoadBytes(data, format, key)
}

// LoadBytes 解析配置数据并返回 key 下的子树
//
// key 以点分隔，如 "logging.sinks.app"。key 不存在或不是对象时返回错误。
func LoadBytes(data []byte, format Format, key string) (map[string]any, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	k := koanf.New(".")
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return nil, fmt.Errorf("xsink: parse config: %w", err)
		}
	}
	if key == "" {
		return k.Raw(), nil
	}
	if !k.Exists(key) {
		return nil, missingField(key, "object")
	}
	if _, ok := asObject(k.Get(key)); !ok {
		return nil, invalidField(key, "object", typeName(k.Get(key)))
	}
	return k.Cut(key).Raw(), nil
}
