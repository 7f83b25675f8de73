package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/fsnotify/fsnotify"
)

// Watch debounce tuning: a burst of file events coalesces into one rebuild
// after the quiet window, but a steady stream cannot postpone it past the max
// delay.
const (
	watchQuietWindow = 250 * time.Millisecond
	watchMaxDelay    = 2 * time.Second
)

type esbuildWatcher struct {
	events  chan Event
	watched map[string]bool
}

func (w *esbuildWatcher) Events() <-chan Event {
	return w.events
}

// Watch starts a continuous build session. The initial build is performed by
// the session itself and reported as the first event; every later cycle emits
// a rebuild-start and then either a rebuild-end or an error event. The event
// channel is never closed.
func (e *Esbuild) Watch(ctx context.Context, req Request) (Watcher, error) {
	opts, err := buildOptions(req)
	if err != nil {
		return nil, err
	}
	bctx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return nil, engineError(ctxErr.Errors)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		bctx.Dispose()
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &esbuildWatcher{
		events:  make(chan Event, 16),
		watched: make(map[string]bool),
	}
	// Entry directories are registered before the initial build so a build
	// that fails straight away still observes the fix.
	for _, entry := range req.Entries {
		w.addDir(fsw, filepath.Dir(entry))
	}
	go w.run(ctx, bctx, fsw)
	return w, nil
}

func (w *esbuildWatcher) run(ctx context.Context, bctx api.BuildContext, fsw *fsnotify.Watcher) {
	defer bctx.Dispose()
	defer fsw.Close()

	rebuild := func(initial bool) {
		if !initial {
			w.events <- Event{Kind: EventRebuildStart}
		}
		result := bctx.Rebuild()
		if len(result.Errors) > 0 {
			w.events <- Event{Kind: EventError, Err: engineError(result.Errors)}
			return
		}
		w.watchInputs(fsw, result.Metafile)
		w.events <- Event{Kind: EventRebuildEnd}
	}

	rebuild(true)

	quietTimer := newStoppedTimer()
	maxTimer := newStoppedTimer()
	var quietC, maxC <-chan time.Time
	pending := false

	trigger := func() {
		quietC, maxC = nil, nil
		pending = false
		rebuild(false)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			resetTimer(quietTimer, watchQuietWindow)
			quietC = quietTimer.C
			if !pending {
				pending = true
				resetTimer(maxTimer, watchMaxDelay)
				maxC = maxTimer.C
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.events <- Event{Kind: EventError, Err: err}

		case <-quietC:
			trigger()

		case <-maxC:
			trigger()
		}
	}
}

// watchInputs registers the parent directories of every source module in the
// latest build. Directories are watched rather than files so editor
// rename-and-replace saves keep working.
func (w *esbuildWatcher) watchInputs(fsw *fsnotify.Watcher, meta string) {
	paths, err := inputPaths(meta)
	if err != nil {
		w.events <- Event{Kind: EventError, Err: err}
		return
	}
	for _, p := range paths {
		w.addDir(fsw, filepath.Dir(p))
	}
}

func (w *esbuildWatcher) addDir(fsw *fsnotify.Watcher, dir string) {
	if w.watched[dir] {
		return
	}
	if err := fsw.Add(dir); err != nil {
		return
	}
	w.watched[dir] = true
}

func newStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	return t
}

func resetTimer(t *time.Timer, after time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(after)
}
