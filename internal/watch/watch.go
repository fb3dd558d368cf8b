// Package watch re-renders a note while it is being edited elsewhere.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/starford/nerdnotes/internal/checksum"
)

// Debounce is how long the file must stay quiet before a change is reported.
const Debounce = 150 * time.Millisecond

// Follow watches the file at path until ctx is cancelled and calls onChange
// with the new content each time it settles with different content. The
// parent directory is watched so atomic replacements are seen.
func Follow(ctx context.Context, path string, logger *slog.Logger, onChange func([]byte) error) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var lastSum string
	if data, err := os.ReadFile(path); err == nil {
		lastSum = checksum.Sum(data)
	}
	logger.Debug("watch: started", slog.String("path", path))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("watch: stopped", slog.String("path", path))
			return nil

		case <-fire:
			fire = nil
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("watch: read failed", slog.String("path", path), slog.String("error", err.Error()))
				continue
			}
			sum := checksum.Sum(data)
			if sum == lastSum {
				continue
			}
			lastSum = sum
			if err := onChange(data); err != nil {
				return err
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op == fsnotify.Chmod {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(Debounce)
			fire = timer.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

// RunForeground runs fn until it returns or the process is interrupted.
// Interruption cancels fn's context and is not an error.
func RunForeground(ctx context.Context, logger *slog.Logger, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return fn(gCtx)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Debug("received signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	return g.Wait()
}
