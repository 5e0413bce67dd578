// Package watch keeps an issue store in sync with the issue files on disk and
// re-renders the report whenever they change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"ditztime/internal/eventlog"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval is used when filesystem notifications are unavailable.
const DefaultPollInterval = 2 * time.Second

// RenderFunc is called with the current issues after the initial load and
// after every settled burst of changes.
type RenderFunc func(ctx context.Context, issues []eventlog.Issue) error

// Options tunes a Watcher.
type Options struct {
	// Debounce is the quiet period that ends a burst of changes.
	Debounce time.Duration
	// PollInterval is the rescan period in polling mode.
	PollInterval time.Duration
	// Polling forces polling even when fsnotify works.
	Polling bool
}

// Watcher monitors issue files and directories. It uses fsnotify and falls
// back to polling modification times when notifications cannot be set up.
type Watcher struct {
	provider *eventlog.LogProvider
	paths    []string
	files    map[string]bool // explicitly named issue files
	dirs     map[string]bool // directories scanned with the issue pattern
	opts     Options

	fsw         *fsnotify.Watcher
	pollingMode bool

	mu      sync.Mutex
	dirty   map[string]bool
	modTime map[string]time.Time
}

// New prepares a watcher over paths. Paths are validated the same way the
// report validates them.
func New(provider *eventlog.LogProvider, paths []string, opts Options) (*Watcher, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	w := &Watcher{
		provider: provider,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		opts:     opts,
		dirty:    make(map[string]bool),
		modTime:  make(map[string]time.Time),
	}

	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%s is not a file nor a directory: %w", p, err)
		}
		if info.IsDir() {
			w.dirs[p] = true
		} else {
			w.files[p] = true
		}
		w.paths = append(w.paths, p)
	}

	if opts.Polling {
		w.pollingMode = true
		return w, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("Filesystem notifications unavailable, falling back to polling")
		w.pollingMode = true
		return w, nil
	}
	for _, dir := range w.watchDirs() {
		if err := fsw.Add(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("Cannot watch directory, falling back to polling")
			_ = fsw.Close()
			w.pollingMode = true
			return w, nil
		}
	}
	w.fsw = fsw
	return w, nil
}

// IsPolling reports whether the watcher rescans instead of using notifications.
func (w *Watcher) IsPolling() bool {
	return w.pollingMode
}

// watchDirs returns the directories to subscribe to: every watched directory
// and the parent of every explicitly named file.
func (w *Watcher) watchDirs() []string {
	set := make(map[string]bool)
	for d := range w.dirs {
		set[d] = true
	}
	for f := range w.files {
		set[filepath.Dir(f)] = true
	}
	dirs := make([]string, 0, len(set))
	for d := range set {
		dirs = append(dirs, d)
	}
	slices.Sort(dirs)
	return dirs
}

// relevant reports whether path denotes an issue file under watch.
func (w *Watcher) relevant(path string) bool {
	path = filepath.Clean(path)
	if w.files[path] {
		return true
	}
	if !w.dirs[filepath.Dir(path)] {
		return false
	}
	ok, _ := filepath.Match(w.provider.Pattern(), filepath.Base(path))
	return ok
}

// Run loads the issues, renders them once and then re-renders after every
// settled burst of changes until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, render RenderFunc) error {
	defer w.close()

	issues, err := w.provider.Hydrate(ctx, w.paths)
	if err != nil {
		return err
	}
	w.snapshotModTimes()
	if err := render(ctx, issues); err != nil {
		log.Error().Err(err).Msg("Render failed")
	}

	refresh := make(chan struct{}, 1)
	debouncer := NewDebouncer(w.opts.Debounce, func() {
		select {
		case refresh <- struct{}{}:
		default:
		}
	})
	defer debouncer.Cancel()

	var events <-chan fsnotify.Event
	var errs <-chan error
	var tick <-chan time.Time
	if w.pollingMode {
		ticker := time.NewTicker(w.opts.PollInterval)
		defer ticker.Stop()
		tick = ticker.C
		log.Info().Dur("interval", w.opts.PollInterval).Msg("Watching issues by polling")
	} else {
		events = w.fsw.Events
		errs = w.fsw.Errors
		log.Info().Strs("dirs", w.watchDirs()).Msg("Watching issues for changes")
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			log.Trace().Str("file", event.Name).Str("op", event.Op.String()).Msg("Issue file event")
			w.markDirty(filepath.Clean(event.Name))
			debouncer.Trigger()

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Watcher error")

		case <-tick:
			if w.rescan() {
				debouncer.Trigger()
			}

		case <-refresh:
			w.flush()
			if err := render(ctx, w.provider.Store().All()); err != nil {
				log.Error().Err(err).Msg("Render failed")
			}
		}
	}
}

func (w *Watcher) markDirty(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirty[path] = true
}

// flush reloads or drops every file changed since the last flush.
func (w *Watcher) flush() {
	w.mu.Lock()
	dirty := w.dirty
	w.dirty = make(map[string]bool)
	w.mu.Unlock()

	store := w.provider.Store()
	for path := range dirty {
		if _, err := os.Stat(path); err != nil {
			if store.Remove(path) {
				log.Info().Str("file", path).Msg("Issue removed")
			}
			continue
		}
		if _, err := w.provider.Reload(path); err != nil {
			// Keep the previous version; the next write triggers another reload.
			log.Warn().Err(err).Str("file", path).Msg("Failed to reload issue")
			continue
		}
		log.Debug().Str("file", path).Msg("Issue reloaded")
	}
}

// discover lists the issue files currently present. Watched paths that have
// disappeared contribute nothing.
func (w *Watcher) discover() []string {
	var files []string
	for _, p := range w.paths {
		found, err := w.provider.Discover([]string{p})
		if err != nil {
			log.Debug().Err(err).Str("path", p).Msg("Watched path unavailable")
			continue
		}
		files = append(files, found...)
	}
	return files
}

// snapshotModTimes records the modification time of every issue file.
func (w *Watcher) snapshotModTimes() {
	files := w.discover()
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range files {
		if info, err := os.Stat(f); err == nil {
			w.modTime[filepath.Clean(f)] = info.ModTime()
		}
	}
}

// rescan compares the issue files against the last snapshot, marks the
// differences dirty and reports whether anything changed.
func (w *Watcher) rescan() bool {
	files := w.discover()

	w.mu.Lock()
	defer w.mu.Unlock()

	seen := make(map[string]bool, len(files))
	changed := false
	for _, f := range files {
		f = filepath.Clean(f)
		seen[f] = true
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if last, ok := w.modTime[f]; !ok || !info.ModTime().Equal(last) {
			w.modTime[f] = info.ModTime()
			w.dirty[f] = true
			changed = true
		}
	}
	for f := range w.modTime {
		if !seen[f] {
			delete(w.modTime, f)
			w.dirty[f] = true
			changed = true
		}
	}
	return changed
}

func (w *Watcher) close() {
	if w.fsw != nil {
		_ = w.fsw.Close()
	}
}
