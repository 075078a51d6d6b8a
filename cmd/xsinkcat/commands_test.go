package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// runCLI 以给定输入运行命令行，返回退出码和输出
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"xsinkcat"}, args...),
		strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_FanOutByAttr(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "sink.yaml")
	writeConfig(t, cfg, `
sinks:
  app:
    path: `+dir+`/{host}/app.log
    autoflush: true
`)

	code, _, stderr := runCLI(t, "a\nb",
		"run", "--config", cfg, "--key", "sinks.app", "--attr", "host=web1")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, "a\nb\n", readFile(t, filepath.Join(dir, "web1", "app.log")), "末行补齐换行符")
}

func TestRun_JSONAttrs(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "sink.json")
	writeConfig(t, cfg, `{"path": "`+dir+`/{service}.log"}`)

	input := `{"service":"api","msg":"x"}` + "\n" + "plain\n" + `{"msg":"y"}` + "\n"
	code, _, stderr := runCLI(t, input,
		"run", "-c", cfg, "--json", "-a", "service=default")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, `{"service":"api","msg":"x"}`+"\n", readFile(t, filepath.Join(dir, "api.log")))
	assert.Equal(t, "plain\n"+`{"msg":"y"}`+"\n", readFile(t, filepath.Join(dir, "default.log")))
}

func TestRun_SizeRotation(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "sink.yaml")
	writeConfig(t, cfg, `
path: `+dir+`/app.log
rotation:
  size: 10
  backups: 1
`)

	code, _, stderr := runCLI(t, "0123456789\nabc\n", "run", "--config", cfg)
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, "0123456789\n", readFile(t, filepath.Join(dir, "app.log.1")))
	assert.Equal(t, "abc\n", readFile(t, filepath.Join(dir, "app.log")))
}

func TestRun_DiagFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "sink.yaml")
	writeConfig(t, cfg, "path: "+dir+"/app.log\n")
	diag := filepath.Join(dir, "diag", "xsinkcat.log")

	code, _, stderr := runCLI(t, "hello\n", "run", "--config", cfg, "--diag-file", diag)
	require.Equal(t, 0, code, stderr)

	content := readFile(t, diag)
	assert.Contains(t, content, `"msg":"xsinkcat started"`)
	assert.Contains(t, content, `"msg":"xsinkcat finished"`)
	assert.NotContains(t, stderr, "xsinkcat started", "诊断日志不写 stderr")
}

func TestRun_WriteFailureExitsOne(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	cfg := filepath.Join(dir, "sink.yaml")
	writeConfig(t, cfg, "path: "+blocker+"/app.log\n")

	code, _, stderr := runCLI(t, "lost\n",
		"run", "--config", cfg, "--retries", "1", "--retry-delay", "1ms")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "1 of 1 records were not written")
	assert.Contains(t, stderr, "write failed, retrying")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "sink.yaml")
	writeConfig(t, cfg, `
sinks:
  app:
    path: /var/log/{host}.log
    rotation:
      size: 1024
  audit:
    path: /var/log/audit.log
    autoflush: true
    rotation:
      period: daily
      backups: 30
`)

	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "按大小",
			key:  "sinks.app",
			want: "variant:      size\n" +
				"path:         /var/log/{host}.log\n" +
				"placeholders: host\n" +
				"autoflush:    false\n" +
				"pattern:      {filename}.{index}\n" +
				"backups:      7\n" +
				"size:         1024\n",
		},
		{
			name: "按周期",
			key:  "sinks.audit",
			want: "variant:      period\n" +
				"path:         /var/log/audit.log\n" +
				"autoflush:    true\n" +
				"pattern:      {filename}.{index}\n" +
				"backups:      30\n" +
				"period:       daily\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, "", "check", "--config", cfg, "--key", tt.key)
			require.Equal(t, 0, code, stderr)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestCheck_NoRotation(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "sink.json")
	writeConfig(t, cfg, `{"path": "/var/log/app.log"}`)

	code, stdout, _ := runCLI(t, "", "check", "--config", cfg)
	require.Equal(t, 0, code)
	assert.Equal(t, "variant:      null\npath:         /var/log/app.log\nautoflush:    false\n", stdout)
}

func TestUsageErrorsExitTwo(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	writeConfig(t, good, "path: "+dir+"/app.log\n")
	bad := filepath.Join(dir, "bad.yaml")
	writeConfig(t, bad, "path: "+dir+"/app.log\nrotation:\n  size: -1\n")

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"缺少配置参数", []string{"run"}, "参数错误"},
		{"未知参数", []string{"run", "--config", good, "--nope"}, "参数错误"},
		{"配置文件不存在", []string{"check", "--config", filepath.Join(dir, "missing.yaml")}, "配置错误"},
		{"配置无效", []string{"check", "--config", bad}, "rotation.size"},
		{"键不存在", []string{"check", "--config", good, "--key", "sinks.app"}, "sinks.app"},
		{"属性格式错误", []string{"run", "--config", good, "--attr", "novalue"}, "novalue"},
		{"重试次数为负", []string{"run", "--config", good, "--retries=-1"}, "--retries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr, tt.wantMsg)
		})
	}
}

func TestParseAttrs(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    []string
		wantErr bool
	}{
		{name: "空", pairs: nil, want: []string{}},
		{name: "单个", pairs: []string{"host=a"}, want: []string{"host=a"}},
		{name: "值含等号", pairs: []string{"q=a=b"}, want: []string{"q=a=b"}},
		{name: "空值", pairs: []string{"host="}, want: []string{"host="}},
		{name: "多个", pairs: []string{"host=a", "env=prod"}, want: []string{"host=a", "env=prod"}},
		{name: "缺少等号", pairs: []string{"host"}, wantErr: true},
		{name: "空键", pairs: []string{"=a"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAttrs(tt.pairs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			strs := make([]string, 0, len(got))
			for _, a := range got {
				strs = append(strs, a.String())
			}
			assert.Equal(t, tt.want, strs)
		})
	}
}
