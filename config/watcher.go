// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package config

import (
	"os"
	"time"

	"github.com/aristanetworks/fsnotify"
	"github.com/cenkalti/backoff/v4"

	"github.com/dzytan/lshbucket/logger"
)

// Watcher reloads a Config from path whenever the file changes on disk,
// following netns/nswatcher.go's fsnotify setup-and-retry shape. Config
// changes never apply to tables already built: spec.md's core has no
// notion of reconfiguration, so a Watcher is strictly an outer-loop
// concern that triggers a fresh index build.
type Watcher struct {
	path    string
	log     logger.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}

	onReload func(*Config)
}

// NewWatcher creates a Watcher over path. log may be nil. onReload is
// called, from the watcher's own goroutine, with every successfully
// reparsed Config.
func NewWatcher(path string, onReload func(*Config), log logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.NoOp{}
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:     path,
		log:      log,
		watcher:  w,
		done:     make(chan struct{}),
		onReload: onReload,
	}, nil
}

// Start begins watching in a background goroutine. It retries a failed
// initial Add (e.g. the file does not exist yet) with exponential backoff
// rather than giving up.
func (w *Watcher) Start() {
	go w.run()
}

// Close stops the watcher.
func (w *Watcher) Close() {
	close(w.done)
	w.watcher.Close()
}

func (w *Watcher) run() {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = time.Minute
	bo.MaxElapsedTime = 0 // retry forever

	for {
		if err := w.watcher.Add(w.path); err != nil {
			w.log.Infof("config: can't watch %s (will retry): %v", w.path, err)
			select {
			case <-w.done:
				return
			case <-time.After(bo.NextBackOff()):
				continue
			}
		}
		break
	}
	bo.Reset()
	w.reload()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Infof("config: watch error on %s: %v", w.path, err)
		}
	}
}

func (w *Watcher) reload() {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Infof("config: failed to read %s: %v", w.path, err)
		return
	}
	cfg, err := Parse(raw)
	if err != nil {
		w.log.Infof("config: failed to parse %s: %v", w.path, err)
		return
	}
	w.onReload(cfg)
}
