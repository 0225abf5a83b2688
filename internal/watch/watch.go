// Package watch processes diagnostic bundles as they land in a drop
// directory.
//
// Collectors copy bundles in over several writes, so a file is only handed
// to the Handler once no event has been seen for it for the debounce
// interval. Bundles are handled one at a time, in the order they settle.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zinspect/zinspect/internal/archive"
	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/logger"
)

// DefaultDebounce is the quiet period used when Options.Debounce is unset.
const DefaultDebounce = 2 * time.Second

// Handler is called with the path of each settled bundle. Its error is
// logged and does not stop the watcher.
type Handler func(ctx context.Context, path string) error

// Options configures a Watcher.
type Options struct {
	Dir      string
	Debounce time.Duration
	// Existing also handles bundles already in Dir at start, by name.
	Existing bool
	Logger   logger.Logger
}

// Watcher feeds settled bundles from one directory to a Handler.
type Watcher struct {
	opts    Options
	handle  Handler
	log     logger.Logger
	mu      sync.Mutex
	pending map[string]*pendingBundle
	ready   chan string
}

// pendingBundle is a file waiting to settle. gen counts its events; only
// the timer armed by the latest event may hand it on.
type pendingBundle struct {
	timer *time.Timer
	gen   uint64
}

// New creates a Watcher for opts.Dir.
func New(opts Options, h Handler) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Watcher{
		opts:    opts,
		handle:  h,
		log:     log,
		pending: make(map[string]*pendingBundle),
		ready:   make(chan string),
	}
}

// IsBundle reports whether name looks like a bundle file.
func IsBundle(name string) bool {
	base := filepath.Base(name)
	return !strings.HasPrefix(base, ".") && strings.EqualFold(filepath.Ext(base), archive.Extension)
}

// Run watches until ctx is cancelled. It fails only when the directory
// cannot be watched.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.opts.Dir)
	if err != nil || !info.IsDir() {
		return errors.WrapWithCode(err, errors.ErrInput,
			"Can't watch "+w.opts.Dir,
			"Pass an existing directory to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrInput, "Can't start file watcher", "")
	}
	defer fw.Close()

	if err := fw.Add(w.opts.Dir); err != nil {
		return errors.WrapWithCode(err, errors.ErrInput,
			"Can't watch "+w.opts.Dir,
			"Check the directory is readable")
	}
	w.log.Info("watching %s for bundles", w.opts.Dir)

	if w.opts.Existing {
		w.scanExisting(ctx)
	}

	defer w.stopTimers()
	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.onEvent(ctx, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error: %v", err)
		case path := <-w.ready:
			w.run(ctx, path)
		}
	}
}

func (w *Watcher) scanExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.opts.Dir)
	if err != nil {
		w.log.Warn("can't list %s: %v", w.opts.Dir, err)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && IsBundle(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		w.run(ctx, filepath.Join(w.opts.Dir, name))
	}
}

func (w *Watcher) onEvent(ctx context.Context, ev fsnotify.Event) {
	if !IsBundle(ev.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		if p, ok := w.pending[ev.Name]; ok {
			p.timer.Stop()
			delete(w.pending, ev.Name)
		}
		return
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}

	path := ev.Name
	p, ok := w.pending[path]
	if ok {
		p.timer.Stop()
	} else {
		p = &pendingBundle{}
		w.pending[path] = p
	}
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(w.opts.Debounce, func() { w.settle(ctx, path, p, gen) })
}

// settle hands path on when p is still pending and gen is its latest
// event. A timer that fired while a newer event was being recorded finds a
// higher gen and backs off, leaving the newer timer to finish the debounce.
func (w *Watcher) settle(ctx context.Context, path string, p *pendingBundle, gen uint64) {
	w.mu.Lock()
	if w.pending[path] != p || p.gen != gen {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case w.ready <- path:
	case <-ctx.Done():
	}
}

func (w *Watcher) run(ctx context.Context, path string) {
	w.log.Debug("bundle settled: %s", path)
	if err := w.handle(ctx, path); err != nil {
		w.log.Error("%s: %v", filepath.Base(path), err)
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
}
