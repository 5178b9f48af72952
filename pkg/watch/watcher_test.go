package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitAsync(ctx context.Context, w *Watcher) <-chan error {
	done := make(chan error, 1)
	go func() { done <- w.Wait(ctx) }()
	return done
}

func TestWait_Debounces(t *testing.T) {
	clock := clockwork.NewFakeClock()
	w := newWatcher("config.toml", WithClock(clock), WithDebounce(time.Second))

	w.notify()
	done := waitAsync(context.Background(), w)

	clock.BlockUntil(1)
	clock.Advance(500 * time.Millisecond)
	w.notify()
	select {
	case err := <-done:
		t.Fatalf("Wait returned before the quiet period: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(time.Second)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after the quiet period")
	}
}

func TestWait_CoalescesPendingChanges(t *testing.T) {
	w := newWatcher("config.toml", WithDebounce(0))
	w.notify()
	w.notify()
	w.notify()

	require.NoError(t, w.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Wait(ctx), context.DeadlineExceeded)
}

func TestWait_ContextCancelled(t *testing.T) {
	w := newWatcher("config.toml")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, w.Wait(ctx), context.Canceled)
}

func TestWatcher_FileEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	w, err := New(path, WithDebounce(0))
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	assert.ErrorIs(t, w.Wait(ctx), context.DeadlineExceeded)
	cancel()

	// A rename-based save of the watched file is seen.
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("[app]\n"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, w.Wait(ctx))
}

func TestWatcher_Closed(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "config.toml"), WithDebounce(0))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err = w.Wait(ctx)
	assert.True(t, errors.IsErrorCode(err, errors.ErrWatchFailure), "got %v", err)
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "config.toml"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrWatchFailure))
}
