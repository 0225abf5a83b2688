package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinspect/zinspect/internal/errors"
	"github.com/zinspect/zinspect/internal/logger"
)

func TestIsBundle(t *testing.T) {
	assert.True(t, IsBundle("/drop/zdiag_20250101.zip"))
	assert.True(t, IsBundle("BUNDLE.ZIP"))
	assert.False(t, IsBundle("/drop/.partial.zip"))
	assert.False(t, IsBundle("/drop/notes.txt"))
}

func startWatcher(t *testing.T, opts Options) (chan string, context.CancelFunc, chan error) {
	t.Helper()
	seen := make(chan string, 10)
	opts.Logger = logger.NewBufferLogger()
	w := New(opts, func(_ context.Context, path string) error {
		seen <- filepath.Base(path)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return seen, cancel, done
}

func waitFor(t *testing.T, seen chan string) string {
	t.Helper()
	select {
	case name := <-seen:
		return name
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for bundle")
		return ""
	}
}

func TestWatcherHandlesExistingBundles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.zip"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.zip"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	seen, cancel, done := startWatcher(t, Options{Dir: dir, Existing: true, Debounce: 20 * time.Millisecond})

	assert.Equal(t, "a.zip", waitFor(t, seen))
	assert.Equal(t, "b.zip", waitFor(t, seen))

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcherDebouncesNewBundles(t *testing.T) {
	dir := t.TempDir()
	seen, cancel, done := startWatcher(t, Options{Dir: dir, Debounce: 50 * time.Millisecond})
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "new.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := f.WriteString("chunk")
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	assert.Equal(t, "new.zip", waitFor(t, seen))

	select {
	case name := <-seen:
		t.Fatalf("bundle handled twice: %s", name)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherMissingDir(t *testing.T) {
	w := New(Options{Dir: filepath.Join(t.TempDir(), "missing")}, func(context.Context, string) error { return nil })
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInput))
}

func TestWatcherStaleTimerBacksOff(t *testing.T) {
	w := New(Options{Dir: t.TempDir(), Debounce: time.Hour, Logger: logger.NewBufferLogger()},
		func(context.Context, string) error { return nil })
	defer w.stopTimers()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(w.opts.Dir, "late.zip")
	w.onEvent(ctx, fsnotify.Event{Name: path, Op: fsnotify.Create})
	// A write lands while the first timer is already firing.
	w.onEvent(ctx, fsnotify.Event{Name: path, Op: fsnotify.Write})

	w.mu.Lock()
	p := w.pending[path]
	w.mu.Unlock()
	require.NotNil(t, p)

	w.settle(ctx, path, p, 1)
	w.mu.Lock()
	_, ok := w.pending[path]
	w.mu.Unlock()
	require.True(t, ok, "stale firing must not claim the bundle")
	assert.Equal(t, uint64(2), p.gen)

	got := make(chan string, 1)
	go func() { got <- <-w.ready }()
	w.settle(ctx, path, p, 2)
	assert.Equal(t, path, <-got)

	w.mu.Lock()
	assert.Empty(t, w.pending)
	w.mu.Unlock()
}

func TestWatcherRemoveDropsPending(t *testing.T) {
	w := New(Options{Dir: t.TempDir(), Debounce: time.Hour, Logger: logger.NewBufferLogger()},
		func(context.Context, string) error { return nil })
	ctx := context.Background()

	path := filepath.Join(w.opts.Dir, "gone.zip")
	w.onEvent(ctx, fsnotify.Event{Name: path, Op: fsnotify.Create})
	w.onEvent(ctx, fsnotify.Event{Name: path, Op: fsnotify.Remove})

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.pending)
}
