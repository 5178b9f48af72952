package watch

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"time"

	"github.com/arthur-debert/oukaro/pkg/errors"
	"github.com/arthur-debert/oukaro/pkg/logging"
	"github.com/arthur-debert/oukaro/pkg/types"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 250 * time.Millisecond

// Watcher signals changes to a single file.
type Watcher struct {
	base     string
	fsw      *fsnotify.Watcher
	clock    clockwork.Clock
	debounce time.Duration

	changed chan struct{}
	closed  chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithClock replaces the wall clock, for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(w *Watcher) { w.clock = clock }
}

// WithDebounce sets the quiet period. Zero returns on the first event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New starts watching the directory that contains path. The directory must
// exist; the file itself may not.
func New(path string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatchFailure, "cannot create watcher")
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, errors.Wrapf(err, errors.ErrWatchFailure, "cannot watch %s", dir).
			WithDetail("path", path)
	}

	w := newWatcher(filepath.Base(path), opts...)
	w.fsw = fsw
	go w.loop()

	logger := logging.GetLogger("watch")
	logger.Debug().
		Str("dir", dir).
		Str("file", w.base).
		Dur("debounce", w.debounce).
		Msg("Watching desired-state file")
	return w, nil
}

func newWatcher(base string, opts ...Option) *Watcher {
	w := &Watcher{
		base:     base,
		clock:    clockwork.NewRealClock(),
		debounce: DefaultDebounce,
		changed:  make(chan struct{}, 1),
		closed:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

var _ types.Notifier = (*Watcher)(nil)

func (w *Watcher) loop() {
	logger := logging.GetLogger("watch")
	defer close(w.closed)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.base || event.Op == fsnotify.Chmod {
				continue
			}
			logger.Trace().Str("event", event.String()).Msg("Desired-state file event")
			w.notify()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Lost or unreadable events still mean the file may have changed.
			if stderrors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn().Msg("Event queue overflowed, rechecking")
			} else {
				logger.Warn().Err(err).Msg("Watcher reported an error, rechecking")
			}
			w.notify()
		}
	}
}

// notify records a pending change. Pending changes coalesce.
func (w *Watcher) notify() {
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

// Wait blocks until the file changed and then stayed quiet for the debounce
// interval. Changes that happened since the previous Wait returned are
// delivered immediately. It fails with WATCH_FAILURE once the watcher is
// closed, and with the context error when ctx ends.
func (w *Watcher) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.closed:
		return errors.New(errors.ErrWatchFailure, "watcher closed")
	case <-w.changed:
	}

	if w.debounce <= 0 {
		return nil
	}

	timer := w.clock.NewTimer(w.debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.changed:
			timer.Reset(w.debounce)
		case <-timer.Chan():
			return nil
		}
	}
}

// Close stops watching. Pending and future Wait calls fail.
func (w *Watcher) Close() error {
	if w.fsw == nil {
		return nil
	}
	if err := w.fsw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrWatchFailure, "cannot close watcher")
	}
	return nil
}
