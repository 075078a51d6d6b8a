package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/xsink/pkg/observability/xsink"
)

const defaultDebounce = 100 * time.Millisecond

// reloader 监视配置文件，变更后重建 FileSink 并替换
//
// 新配置无效时保留旧的 FileSink。
type reloader struct {
	path     string
	key      string
	holder   *sinkHolder
	log      *slog.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
	done     chan struct{}
}

func startReloader(ctx context.Context, path, key string, holder *sinkHolder, log *slog.Logger) (*reloader, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// 监视目录而非文件：编辑器保存时常先删除再创建
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("watch %s: %w", dir, err), w.Close())
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &reloader{
		path:     path,
		key:      key,
		holder:   holder,
		log:      log,
		debounce: defaultDebounce,
		watcher:  w,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go r.loop(ctx)
	return r, nil
}

func (r *reloader) loop(ctx context.Context) {
	defer close(r.done)

	name := filepath.Base(r.path)
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name ||
				!(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)) {
				continue
			}
			// 防抖：连续变更只触发一次
			if timer == nil {
				timer = time.NewTimer(r.debounce)
			} else {
				timer.Reset(r.debounce)
			}
			fire = timer.C
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.log.Warn("config watch error", slog.Any("error", err))
		case <-fire:
			fire = nil
			_ = r.reload()
		}
	}
}

// reload 重新加载配置，失败时保留当前的 FileSink
func (r *reloader) reload() error {
	raw, err := xsink.LoadFile(r.path, r.key)
	if err != nil {
		r.log.Warn("config reload failed, keeping current sink", slog.Any("error", err))
		return err
	}
	s, err := xsink.Build(xsink.Name, raw)
	if err != nil {
		r.log.Warn("config reload failed, keeping current sink", slog.Any("error", err))
		return err
	}
	if err := r.holder.swap(s); err != nil {
		r.log.Warn("close previous sink failed", slog.Any("error", err))
	}
	r.log.Info("config reloaded", slog.String("path", s.Config().Path),
		slog.String("variant", s.Config().Rotation.Kind.String()))
	return nil
}

// Stop 停止监视并等待后台 goroutine 退出
func (r *reloader) Stop() error {
	r.cancel()
	<-r.done
	return r.watcher.Close()
}
