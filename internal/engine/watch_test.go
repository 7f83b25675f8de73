package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/esbundle/internal/config"
)

func awaitEvent(t *testing.T, w Watcher, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for watch event")
		return Event{}
	}
}

func TestWatch_InitialBuildFailure_RecoversAfterFix(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(entry, []byte("export default {"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := NewEsbuild().Watch(ctx, Request{
		Entries: map[string]string{"main": entry},
		OutDir:  filepath.Join(dir, "dist"),
		OutExt:  ".js",
		Format:  config.FormatESM,
	})
	require.NoError(t, err)

	ev := awaitEvent(t, w, 5*time.Second)
	require.Equal(t, EventError, ev.Kind)
	require.Error(t, ev.Err)

	// Fixing the file must trigger a rebuild even though the failed
	// initial build produced no metafile to derive watch paths from.
	require.NoError(t, os.WriteFile(entry, []byte("export default 1;\n"), 0o644))

	for {
		ev = awaitEvent(t, w, 5*time.Second)
		if ev.Kind == EventRebuildEnd {
			break
		}
		require.NotEqual(t, EventError, ev.Kind, "rebuild after fix failed: %v", ev.Err)
	}
}

func TestWatch_SourceEdit_TriggersRebuildCycle(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.js")
	require.NoError(t, os.WriteFile(entry, []byte("export default 1;\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := NewEsbuild().Watch(ctx, Request{
		Entries: map[string]string{"main": entry},
		OutDir:  filepath.Join(dir, "dist"),
		OutExt:  ".js",
		Format:  config.FormatESM,
	})
	require.NoError(t, err)

	ev := awaitEvent(t, w, 5*time.Second)
	require.Equal(t, EventRebuildEnd, ev.Kind)

	require.NoError(t, os.WriteFile(entry, []byte("export default 2;\n"), 0o644))

	ev = awaitEvent(t, w, 5*time.Second)
	require.Equal(t, EventRebuildStart, ev.Kind)
	ev = awaitEvent(t, w, 5*time.Second)
	require.Equal(t, EventRebuildEnd, ev.Kind)
}
