package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xsink/pkg/observability/xrotate"
	"github.com/omeyang/xsink/pkg/observability/xsink"
	"github.com/omeyang/xsink/pkg/util/xfile"
)

const defaultRetryDelay = 100 * time.Millisecond

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "配置文件路径（.yaml/.yml/.json）",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "key",
			Aliases: []string{"k"},
			Usage:   "配置文件中 sink 所在的键，如 sinks.app；为空表示整个文件",
		},
	}
}

// runOptions run 命令的参数
type runOptions struct {
	config       string
	key          string
	attrs        xsink.Attrs
	json         bool
	watch        bool
	retries      int
	retryDelay   time.Duration
	maxOpenFiles int
	diagFile     string
}

func createRunCommand() *cli.Command {
	flags := append(configFlags(),
		&cli.StringSliceFlag{
			Name:    "attr",
			Aliases: []string{"a"},
			Usage:   "静态属性 key=value，可重复",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "把 JSON 行的顶层标量字段作为属性",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "配置文件变更时重建输出",
		},
		&cli.IntFlag{
			Name:  "retries",
			Usage: "写入失败后的重试次数",
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "重试间隔",
			Value: defaultRetryDelay,
		},
		&cli.IntFlag{
			Name:  "max-open-files",
			Usage: "启动时把文件描述符软上限提高到该值，0 表示不调整",
		},
		&cli.StringFlag{
			Name:  "diag-file",
			Usage: "诊断日志文件（按大小轮转），默认写 stderr",
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "从标准输入读取记录并写入文件",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			attrs, err := parseAttrs(cmd.StringSlice("attr"))
			if err != nil {
				return &usageError{err: err}
			}
			if cmd.Int("retries") < 0 {
				return &usageError{err: fmt.Errorf("--retries must be >= 0, got %d", cmd.Int("retries"))}
			}
			opts := runOptions{
				config:       cmd.String("config"),
				key:          cmd.String("key"),
				attrs:        attrs,
				json:         cmd.Bool("json"),
				watch:        cmd.Bool("watch"),
				retries:      cmd.Int("retries"),
				retryDelay:   cmd.Duration("retry-delay"),
				maxOpenFiles: cmd.Int("max-open-files"),
				diagFile:     cmd.String("diag-file"),
			}
			root := cmd.Root()
			return cmdRun(ctx, opts, root.Reader, root.ErrWriter)
		},
	}
}

func createCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "校验配置并打印解析结果",
		Flags: configFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdCheck(cmd.Root().Writer, cmd.String("config"), cmd.String("key"))
		},
	}
}

// loadConfig 读取并解析配置，错误都是配置错误
func loadConfig(path, key string) (xsink.Config, error) {
	raw, err := xsink.LoadFile(path, key)
	if err != nil {
		return xsink.Config{}, &usageError{err: err}
	}
	kind, err := xsink.Resolve(xsink.Name, raw)
	if err != nil {
		return xsink.Config{}, &usageError{err: err}
	}
	cfg, err := xsink.Extract(kind, raw)
	if err != nil {
		return xsink.Config{}, &usageError{err: err}
	}
	return cfg, nil
}

func cmdCheck(w io.Writer, path, key string) error {
	cfg, err := loadConfig(path, key)
	if err != nil {
		return err
	}
	rot := cfg.Rotation
	tmpl := xsink.ParseTemplate(cfg.Path)

	fmt.Fprintf(w, "variant:      %s\n", rot.Kind)
	fmt.Fprintf(w, "path:         %s\n", cfg.Path)
	if !tmpl.Static() {
		fmt.Fprintf(w, "placeholders: %s\n", strings.Join(tmpl.Placeholders(), ", "))
	}
	fmt.Fprintf(w, "autoflush:    %t\n", cfg.AutoFlush)
	if rot.Kind == xrotate.KindNull {
		return nil
	}
	fmt.Fprintf(w, "pattern:      %s\n", rot.Pattern)
	fmt.Fprintf(w, "backups:      %d\n", rot.Backups)
	switch rot.Kind {
	case xrotate.KindSize:
		fmt.Fprintf(w, "size:         %d\n", rot.Size)
	case xrotate.KindPeriod:
		fmt.Fprintf(w, "period:       %s\n", rot.Period)
	}
	return nil
}

func cmdRun(ctx context.Context, opts runOptions, stdin io.Reader, stderr io.Writer) (err error) {
	log, closeDiag := newDiagLogger(opts.diagFile, stderr)
	defer func() { err = errors.Join(err, closeDiag()) }()

	cfg, err := loadConfig(opts.config, opts.key)
	if err != nil {
		return err
	}
	if opts.maxOpenFiles > 0 {
		if err := xfile.RaiseFileLimit(uint64(opts.maxOpenFiles)); err != nil {
			log.Warn("raise file limit failed", slog.Int("limit", opts.maxOpenFiles), slog.Any("error", err))
		}
	}

	sink, err := xsink.New(cfg)
	if err != nil {
		return &usageError{err: err}
	}
	holder := newSinkHolder(sink)
	defer func() {
		if cerr := holder.Close(); cerr != nil && !errors.Is(cerr, xsink.ErrClosed) {
			err = errors.Join(err, cerr)
		}
	}()

	if opts.watch {
		r, werr := startReloader(ctx, opts.config, opts.key, holder, log)
		if werr != nil {
			return werr
		}
		defer r.Stop()
	}

	log.Info("xsinkcat started",
		slog.String("config", opts.config),
		slog.String("variant", cfg.Rotation.Kind.String()),
		slog.String("path", cfg.Path))

	p := &pipe{
		consumer:  holder,
		static:    opts.attrs,
		parseJSON: opts.json,
		retries:   opts.retries,
		delay:     opts.retryDelay,
		log:       log,
	}
	return p.run(ctx, stdin)
}

// parseAttrs 解析 key=value 形式的静态属性
func parseAttrs(pairs []string) (xsink.Attrs, error) {
	attrs := make(xsink.Attrs, 0, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --attr %q, want key=value", pair)
		}
		attrs = append(attrs, slog.String(k, v))
	}
	return attrs, nil
}
