package bundle

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/esbundle/internal/config"
	"git.home.luguber.info/inful/esbundle/internal/engine"
)

// runWatch starts a continuous build session and reports its cycles. The
// engine's watcher performs the initial build itself, so a successful first
// event is not announced as a rebuild. The session has no stop operation; the
// event channel never closes and the call suspends until process termination.
//
// Error events carry failures the engine already formatted; they are printed
// through the reporter untranslated and are never fatal to the session.
func (b *Builder) runWatch(ctx context.Context, req engine.Request, opts config.Options, buildID string) error {
	watcher, err := b.engine.Watch(ctx, req)
	if err != nil {
		return err
	}

	slog.Info("Watching for changes", "build_id", buildID, "out", opts.Out)

	first := true
	for ev := range watcher.Events() {
		switch ev.Kind {
		case engine.EventRebuildStart:
			slog.Debug("Rebuild started", "build_id", buildID)
			if !first && opts.Log {
				b.reporter.Infof("Rebuilding…")
			}
		case engine.EventRebuildEnd:
			if !first && opts.Log {
				b.reporter.Successf("Rebuilt to %s", b.reporter.Bold(opts.Out))
			}
		case engine.EventError:
			slog.Debug("Rebuild failed", "build_id", buildID, "error", ev.Err)
			b.reporter.Warnf("%v", ev.Err)
		}
		first = false
	}
	return nil
}
