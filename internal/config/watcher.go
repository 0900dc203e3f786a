package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write
// before reloading, so editors that save in several steps trigger one
// reload.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads the config file when it changes on disk. The parent
// directory is watched rather than the file itself, so atomic saves
// (write to temp, rename over) are still seen.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	onChange func(Config)
	onError  func(error)
	debounce time.Duration

	done chan struct{}
	wg   sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the reload debounce interval.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets the callback for watch and reload errors.
func WithErrorHandler(f func(error)) WatcherOption {
	return func(w *Watcher) {
		if f != nil {
			w.onError = f
		}
	}
}

// Watch starts watching path and calls onChange with the freshly loaded
// settings after each change. Invalid files are reported through the
// error handler and the previous settings stay in effect.
func Watch(path string, onChange func(Config), opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		path:     abs,
		fsw:      fsw,
		onChange: onChange,
		onError:  func(error) {},
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	var pending <-chan time.Time
	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)

		case <-pending:
			pending = nil
			cfg, err := Load(w.path)
			if err != nil {
				w.onError(err)
				continue
			}
			w.onChange(cfg)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
