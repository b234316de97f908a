// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceWindow coalesces the burst of write events editors emit when
// saving a file.
const debounceWindow = 500 * time.Millisecond

// Watcher reloads the config file when it changes on disk and hands the
// fresh config to a callback. Invalid edits are logged and skipped; the
// previous config stays in effect.
type Watcher struct {
	path     string
	onReload func(*Config)
	logger   *zap.Logger
	cancel   context.CancelFunc
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, onReload func(*Config), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{path: path, onReload: onReload, logger: logger}
}

// Start begins watching until the context ends or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory, not the file: editors replace files by rename
	// and a file watch would silently die.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return err
	}

	ctx, w.cancel = context.WithCancel(ctx)

	go func() {
		defer fw.Close()

		var timer *time.Timer
		fire := make(chan struct{}, 1)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceWindow, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			case <-fire:
				cfg, err := LoadFromPath(w.path)
				if err != nil {
					w.logger.Warn("config reload skipped", zap.Error(err))
					continue
				}
				w.logger.Info("config reloaded")
				w.onReload(cfg)
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("config watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop ends watching. Idempotent.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
}
