// xsinkcat 把标准输入逐行写入 xsink 文件输出。
//
// 用法:
//
//	xsinkcat <命令> [命令参数]
//
// 命令:
//
//	run      从标准输入读取记录，按配置写入文件
//	check    校验配置并打印解析结果
//	help     显示帮助信息
//
// run 把每一行（补齐结尾的换行符）作为一条消息。路径模板中的占位符取自
// --attr 给出的静态属性；指定 --json 时，JSON 行的顶层标量字段也作为属性，
// 同名时覆盖静态属性。
//
// 退出码:
//
//	0: 成功
//	1: 运行期错误（写入失败的记录在重试后仍失败）
//	2: 参数或配置错误
//
// 示例:
//
//	app | xsinkcat run --config /etc/xsink/sink.yaml --key sinks.app --attr host=$(hostname)
//	app | xsinkcat run --config sink.yaml --json --watch --retries 3
//	xsinkcat check --config sink.yaml --key sinks.app
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// createApp 创建 CLI 应用
func createApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xsinkcat",
		Usage:     "把标准输入写入按模板分发、可轮转的日志文件",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			createRunCommand(),
			createCheckCommand(),
		},
		// 退出码统一由 run 映射，这里不调用 os.Exit
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := createApp(stdin, stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "配置错误: %v\n", usageErr)
			return 2
		}
		if isCLIUsageError(err) {
			fmt.Fprintf(stderr, "参数错误: %v\n", err)
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// usageError 参数或配置错误，退出码 2
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// isCLIUsageError 识别 urfave/cli 自身产生的参数错误
func isCLIUsageError(err error) bool {
	if _, ok := err.(cli.ExitCoder); ok {
		return true
	}
	msg := err.Error()
	for _, s := range []string{
		"Required flag",
		"flag provided but not defined",
		"invalid value",
		"No help topic",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
