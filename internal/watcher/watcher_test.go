package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"colorcapture/internal/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevantFiltersByPathAndOp(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "image.png")
	w, err := New(target, 0, logging.Discard())
	require.NoError(t, err)

	assert.True(t, w.relevant(fsnotify.Event{Name: target, Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: target, Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: target, Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "other.png"), Op: fsnotify.Write}))
	assert.Equal(t, DefaultDelay, w.delay)
}

func TestRunDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "image.png")
	require.NoError(t, os.WriteFile(target, []byte("v0"), 0o644))

	w, err := New(target, 50*time.Millisecond, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { calls.Add(1) })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte{byte(i)}, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "burst of writes should collapse into one callback")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop after cancel")
	}
}

func TestGuardedSkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	fire := guarded(ctx, func() { calls.Add(1) })

	fire()
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	fire()
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunDropsPendingChangeOnCancel(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "image.png")
	require.NoError(t, os.WriteFile(target, []byte("v0"), 0o644))

	w, err := New(target, 300*time.Millisecond, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { calls.Add(1) })
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o644))
	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
