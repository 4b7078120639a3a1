package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"sketchforge/internal/config"
	"sketchforge/internal/job"
	"sketchforge/internal/logfields"
	"sketchforge/internal/sketch"
)

// WatchCmd implements the 'watch' command: rebuild a local sketch whenever a
// source file in its directory changes.
type WatchCmd struct {
	File   string `arg:"" help:"Local sketch entry file (.ino) to watch" type:"existingfile"`
	Output string `short:"o" help:"Export destination (file or directory)" default:"."`

	HardwareFlags `embed:""`
}

const rebuildDebounce = 500 * time.Millisecond

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src := sketch.LocalFile{Path: w.File}
	bc := w.buildConfiguration(cfg)
	orch := newOrchestrator(cfg, w.Output)
	store := openHistory(cfg)
	defer func() { _ = store.Close() }()

	runOnce := func() {
		results, err := orch.Submit(ctx, job.Request{Title: w.File, Source: src, Config: bc})
		if err != nil {
			if errors.Is(err, job.ErrJobInFlight) {
				slog.Debug("Skipping rebuild, previous job still running")
				return
			}
			slog.Error("Failed to submit build", logfields.Error(err))
			return
		}
		res := <-results
		recordResult(ctx, store, res, src)
		if rerr := reportResult(res); rerr != nil {
			slog.Error("Rebuild failed", logfields.Error(rerr))
		}
	}

	// Initial build before entering the watch loop.
	runOnce()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(w.File)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	slog.Info("Watching sketch directory", logfields.Path(dir))

	var debounce *time.Timer
	rebuild := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if shouldIgnore(event.Name) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(rebuildDebounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})
		case <-rebuild:
			slog.Info("Sketch changed, rebuilding", logfields.Path(w.File))
			runOnce()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(werr))
		}
	}
}

// shouldIgnore filters editor temp files and build output from triggering
// rebuilds.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "#") {
		return true
	}
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, "~") {
		return true
	}
	return strings.HasSuffix(base, ".hex") || strings.HasSuffix(base, ".elf")
}
