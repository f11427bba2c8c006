package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, files ...string) <-chan string {
	t.Helper()

	fw, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, fw.Watch(files...))

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan string, 16)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = fw.Run(ctx, func(path string) {
			changes <- path
		})
	}()

	t.Cleanup(func() {
		cancel()
		wg.Wait()
		fw.Close()
	})
	return changes
}

func TestWatcherReportsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\n"), 0o644))

	changes := startWatcher(t, path)
	require.NoError(t, os.WriteFile(path, []byte("solid b\n"), 0o644))

	abs, err := filepath.Abs(path)
	require.NoError(t, err)

	select {
	case got := <-changes:
		assert.Equal(t, abs, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.stl")
	other := filepath.Join(dir, "other.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\n"), 0o644))

	changes := startWatcher(t, path)
	require.NoError(t, os.WriteFile(other, []byte("solid b\n"), 0o644))

	select {
	case got := <-changes:
		t.Fatalf("unexpected change for %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherReportsRecreatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a\n"), 0o644))

	changes := startWatcher(t, path)

	// Save by writing a temporary file and renaming it over the original.
	tmp := filepath.Join(dir, ".model.stl.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("solid c\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Close()

	err = fw.Watch(filepath.Join(t.TempDir(), "missing", "model.stl"))
	assert.Error(t, err)
	assert.Empty(t, fw.Files())
}

func TestWatchFilesSortedAndDeduplicated(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Close()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.stl")
	b := filepath.Join(dir, "b.stl")
	require.NoError(t, fw.Watch(b, a, a))

	absA, err := filepath.Abs(a)
	require.NoError(t, err)
	absB, err := filepath.Abs(b)
	require.NoError(t, err)
	assert.Equal(t, []string{absA, absB}, fw.Files())
}

func TestRunStopsOnCancel(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, fw.Run(ctx, func(string) {}), context.Canceled)
}

func TestDebouncerDropsStaleExpiry(t *testing.T) {
	d := newDebouncer(time.Millisecond)
	defer d.stop()

	d.touch("model.stl")
	// Let the first timer fire; its send blocks because nobody receives yet.
	time.Sleep(50 * time.Millisecond)
	d.touch("model.stl")

	delivered := 0
	for i := 0; i < 2; i++ {
		select {
		case p := <-d.fire:
			if d.current(p) {
				delivered++
				assert.Equal(t, uint64(2), p.gen)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("expiry not received")
		}
	}
	assert.Equal(t, 1, delivered)
}

func TestDebouncerStopReleasesBlockedSenders(t *testing.T) {
	d := newDebouncer(time.Millisecond)
	d.touch("a.stl")
	d.touch("b.stl")
	time.Sleep(50 * time.Millisecond)

	d.stop()

	// Senders returned through done instead of delivering.
	select {
	case p := <-d.fire:
		t.Fatalf("unexpected expiry for %s after stop", p.name)
	case <-time.After(100 * time.Millisecond):
	}
}
