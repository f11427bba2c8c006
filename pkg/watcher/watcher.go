// Package watcher reports debounced changes to a set of files.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches files for changes and triggers callbacks.
//
// The parent directory of every file is watched instead of the file itself,
// so editors that save by renaming a temporary file are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FileWatcher{
		watcher:  w,
		debounce: debounce,
		logger:   logger,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// Watch adds files to the watched set
func (fw *FileWatcher) Watch(files ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		dir := filepath.Dir(absPath)
		if _, ok := fw.dirs[dir]; !ok {
			if err := fw.watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			fw.dirs[dir] = struct{}{}
		}
		fw.files[absPath] = struct{}{}
	}

	return nil
}

// Files returns the watched file paths, sorted
func (fw *FileWatcher) Files() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	files := make([]string, 0, len(fw.files))
	for f := range fw.files {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

func (fw *FileWatcher) watched(path string) bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	_, ok := fw.files[filepath.Clean(path)]
	return ok
}

// Run delivers changes until ctx is cancelled or the watcher is closed.
// onChange is called from Run's goroutine, one call at a time, once the
// file has been quiet for the debounce interval.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(path string)) error {
	d := newDebouncer(fw.debounce)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !fw.watched(event.Name) {
				continue
			}
			d.touch(filepath.Clean(event.Name))

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Warn("file watcher error", "err", err)

		case p := <-d.fire:
			if d.current(p) {
				onChange(p.name)
			}
		}
	}
}

// pending is a timer expiry for name; gen identifies the touch that armed it.
type pending struct {
	name string
	gen  uint64
}

// debouncer arms one timer per name. A timer whose send is already blocked
// when the name is touched again cannot be stopped, so every expiry carries
// its generation and only the latest one counts.
type debouncer struct {
	delay  time.Duration
	fire   chan pending
	done   chan struct{}
	timers map[string]*time.Timer
	gens   map[string]uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		fire:   make(chan pending),
		done:   make(chan struct{}),
		timers: make(map[string]*time.Timer),
		gens:   make(map[string]uint64),
	}
}

// touch restarts the quiet period for name
func (d *debouncer) touch(name string) {
	if timer, exists := d.timers[name]; exists {
		timer.Stop()
	}
	d.gens[name]++
	p := pending{name: name, gen: d.gens[name]}
	d.timers[name] = time.AfterFunc(d.delay, func() {
		select {
		case d.fire <- p:
		case <-d.done:
		}
	})
}

// current reports whether p is the latest expiry for its name and, if so,
// forgets the name's timer.
func (d *debouncer) current(p pending) bool {
	if d.gens[p.name] != p.gen {
		return false
	}
	delete(d.timers, p.name)
	return true
}

// stop cancels pending timers and releases senders blocked on fire.
func (d *debouncer) stop() {
	for _, t := range d.timers {
		t.Stop()
	}
	close(d.done)
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
