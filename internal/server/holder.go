// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package server

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/woozymasta/openrpcdoc"
	"github.com/woozymasta/openrpcdoc/casper"
)

// EmbeddedSource is the source marker of the built-in Casper document.
const EmbeddedSource = "embedded:casper/" + casper.FileName

// watchDebounce is the quiet period after the last file event before a reload.
const watchDebounce = 250 * time.Millisecond

// ErrNoWatchFile is returned when file watching is requested for the embedded document.
var ErrNoWatchFile = errors.New("embedded document cannot be watched")

// Snapshot is one loaded document together with its rendered forms.
// A snapshot is never modified after it is published.
type Snapshot struct {
	Revision string
	Source   string
	LoadedAt time.Time
	Raw      []byte
	Document *openrpcdoc.Document
	Markdown string
	HTML     string
	Report   openrpcdoc.Report
}

// Holder provides thread-safe access to the current document snapshot with
// hot reload support for file sources.
type Holder struct {
	mu       sync.RWMutex
	current  *Snapshot
	path     string
	options  openrpcdoc.Options
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange []func(*Snapshot)
	onError  []func(error)
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewHolder loads the initial snapshot. An empty path selects the embedded
// Casper document.
func NewHolder(path string, opt openrpcdoc.Options, logger zerolog.Logger) (*Holder, error) {
	h := &Holder{
		options:  opt,
		logger:   logger,
		debounce: watchDebounce,
		stopCh:   make(chan struct{}),
	}

	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("absolute path: %w", err)
		}

		h.path = absPath
	}

	snapshot, err := h.load()
	if err != nil {
		return nil, err
	}

	h.current = snapshot
	return h, nil
}

// Get returns the current snapshot (thread-safe).
func (h *Holder) Get() *Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload loads the document again. On failure the previous snapshot stays current.
func (h *Holder) Reload() error {
	h.logger.Info().Str("source", h.source()).Msg("reloading document")

	snapshot, err := h.load()
	if err != nil {
		h.logger.Error().Err(err).Msg("document reload failed, keeping previous revision")
		h.notifyError(err)
		return fmt.Errorf("reload document: %w", err)
	}

	h.mu.Lock()
	previous := h.current
	h.current = snapshot
	listeners := append([]func(*Snapshot){}, h.onChange...)
	h.mu.Unlock()

	h.logChanges(previous, snapshot)
	for _, fn := range listeners {
		fn(snapshot)
	}

	h.logger.Info().Str("revision", snapshot.Revision).Msg("document reloaded")
	return nil
}

// OnChange registers a callback invoked after every successful reload.
func (h *Holder) OnChange(fn func(*Snapshot)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// OnError registers a callback invoked after every failed reload.
func (h *Holder) OnError(fn func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onError = append(h.onError, fn)
}

// WatchFile starts watching the document file. Changes trigger automatic reload.
func (h *Holder) WatchFile() error {
	if h.path == "" {
		return ErrNoWatchFile
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Editors often save atomically, so the directory is watched instead of the file.
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	h.mu.Lock()
	h.watcher = watcher
	h.mu.Unlock()

	go h.watchLoop(watcher)

	h.logger.Info().Str("path", h.path).Msg("watching document file for changes")
	return nil
}

// WatchSignals reloads the document on SIGHUP until Stop is called.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading document")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	h.logger.Info().Msg("listening for SIGHUP to reload document")
}

// Stop stops watching for file changes and signals. It is safe to call more than once.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)

		h.mu.RLock()
		watcher := h.watcher
		h.mu.RUnlock()

		if watcher != nil {
			_ = watcher.Close()
		}
	})
}

func (h *Holder) watchLoop(watcher *fsnotify.Watcher) {
	filename := filepath.Base(h.path)

	// A save often arrives as several writes; reload once the burst settles.
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
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			h.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("document file changed")

			if timer == nil {
				timer = time.NewTimer(h.debounce)
			} else {
				timer.Reset(h.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := h.Reload(); err != nil {
				h.logger.Error().Err(err).Msg("file watch reload failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

// load reads, parses, checks and renders the document into a new snapshot.
func (h *Holder) load() (*Snapshot, error) {
	raw, doc, err := h.read()
	if err != nil {
		return nil, err
	}

	opt := h.options
	if opt.SourcePath == "" {
		opt.SourcePath = h.source()
	}

	markdown, err := openrpcdoc.Render(doc, opt)
	if err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	page, err := openrpcdoc.RenderHTML(doc, opt)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	return &Snapshot{
		Revision: uuid.New().String(),
		Source:   h.source(),
		LoadedAt: time.Now().UTC(),
		Raw:      raw,
		Document: doc,
		Markdown: markdown,
		HTML:     page,
		Report:   openrpcdoc.Check(doc).Merge(openrpcdoc.ValidateExamples(doc)),
	}, nil
}

func (h *Holder) read() ([]byte, *openrpcdoc.Document, error) {
	if h.path == "" {
		doc, err := casper.Document()
		if err != nil {
			return nil, nil, err
		}

		return casper.Bytes(), doc, nil
	}

	raw, err := os.ReadFile(h.path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", openrpcdoc.ErrReadDocumentFile, err)
	}

	doc, err := openrpcdoc.Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %q: %w", h.path, err)
	}

	return raw, doc, nil
}

func (h *Holder) source() string {
	if h.path == "" {
		return EmbeddedSource
	}

	return h.path
}

func (h *Holder) notifyError(err error) {
	h.mu.RLock()
	listeners := append([]func(error){}, h.onError...)
	h.mu.RUnlock()

	for _, fn := range listeners {
		fn(err)
	}
}

func (h *Holder) logChanges(previous, next *Snapshot) {
	if previous == nil {
		return
	}

	if len(previous.Document.Methods) != len(next.Document.Methods) {
		h.logger.Info().
			Int("old", len(previous.Document.Methods)).
			Int("new", len(next.Document.Methods)).
			Msg("methods count changed")
	}

	if len(previous.Document.Schemas) != len(next.Document.Schemas) {
		h.logger.Info().
			Int("old", len(previous.Document.Schemas)).
			Int("new", len(next.Document.Schemas)).
			Msg("schemas count changed")
	}

	if previous.Document.Info.Version != next.Document.Info.Version {
		h.logger.Info().
			Str("old", previous.Document.Info.Version).
			Str("new", next.Document.Info.Version).
			Msg("api version changed")
	}
}
