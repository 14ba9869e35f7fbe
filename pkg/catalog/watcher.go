// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Holder publishes the current catalog. Catalogs are never modified; a reload
// builds a new one and swaps the pointer, so readers holding the previous
// catalog keep a consistent view.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder returns a Holder publishing c.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Current returns the published catalog.
func (h *Holder) Current() *Catalog {
	return h.current.Load()
}

// Swap publishes c and returns the previous catalog.
func (h *Holder) Swap(c *Catalog) *Catalog {
	return h.current.Swap(c)
}

// Watcher rebuilds the catalog whenever its source file changes and publishes
// it through a Holder. A file that fails to load leaves the previous catalog in
// place.
type Watcher struct {
	path   string
	holder *Holder
	opts   []Option

	watcher       *fsnotify.Watcher
	debounceDelay time.Duration
	logger        zerolog.Logger

	// OnReload, when set, is called after every reload attempt.
	OnReload func(c *Catalog, err error)

	mu            sync.Mutex
	debounceTimer *time.Timer
}

// NewWatcher prepares a watcher for the catalog file at path.
func NewWatcher(path string, holder *Holder, logger zerolog.Logger, opts ...Option) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:          path,
		holder:        holder,
		opts:          opts,
		watcher:       w,
		debounceDelay: 100 * time.Millisecond,
		logger:        logger.With().Str("component", "catalog.watcher").Logger(),
	}, nil
}

// Start watches the catalog file until ctx is cancelled. It blocks; run it in
// its own goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	// fsnotify watches directories; editors often replace files instead of writing them
	dir := filepath.Dir(w.path)
	name := filepath.Base(w.path)

	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error().Err(err).Str("dir", dir).Msg("Failed to watch catalog directory")
		return err
	}

	w.logger.Info().
		Str("file", w.path).
		Dur("debounce", w.debounceDelay).
		Msg("Started watching catalog file")

	defer func() {
		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn().Err(err).Msg("Error closing watcher")
		}
		w.logger.Info().Msg("Stopped watching catalog file")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.logger.Debug().
					Str("op", event.Op.String()).
					Str("file", event.Name).
					Msg("Detected catalog file change")
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		_ = w.Reload()
	})
}

// Reload rebuilds the catalog from disk and publishes it on success.
func (w *Watcher) Reload() error {
	c, err := LoadFile(w.path, w.opts...)
	if err != nil {
		w.logger.Error().Err(err).Str("file", w.path).Msg("Failed to reload catalog")
	} else {
		w.holder.Swap(c)
		w.logger.Info().
			Int("entries", len(c.entries)).
			Int("classes", len(c.classes)).
			Msg("Catalog reloaded")
	}
	if w.OnReload != nil {
		w.OnReload(c, err)
	}
	return err
}

// Close releases the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
