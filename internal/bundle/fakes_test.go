package bundle

import (
	"context"

	"git.home.luguber.info/inful/esbundle/internal/engine"
	"git.home.luguber.info/inful/esbundle/internal/nodepkg"
)

// fakeEngine records bundling requests and replays canned results.
type fakeEngine struct {
	bundleReq   *engine.Request
	bundleRes   *engine.Result
	bundleErr   error
	watchReq    *engine.Request
	watchErr    error
	watchEvents []engine.Event
}

func (f *fakeEngine) Bundle(_ context.Context, req engine.Request) (*engine.Result, error) {
	f.bundleReq = &req
	if f.bundleErr != nil {
		return nil, f.bundleErr
	}
	if f.bundleRes == nil {
		return &engine.Result{}, nil
	}
	return f.bundleRes, nil
}

func (f *fakeEngine) Watch(_ context.Context, req engine.Request) (engine.Watcher, error) {
	f.watchReq = &req
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	ch := make(chan engine.Event, len(f.watchEvents))
	for _, ev := range f.watchEvents {
		ch <- ev
	}
	// The real engine never closes the channel; closing here lets tests
	// observe the loop's handling of a finite event sequence.
	close(ch)
	return fakeWatcher{ch}, nil
}

type fakeWatcher struct {
	ch chan engine.Event
}

func (w fakeWatcher) Events() <-chan engine.Event {
	return w.ch
}

// fakeBoundary is a canned package-boundary resolver.
type fakeBoundary struct {
	dir      string
	found    bool
	manifest *nodepkg.Manifest
	err      error
}

func (f fakeBoundary) FindBoundary(string) (string, bool) {
	return f.dir, f.found
}

func (f fakeBoundary) ReadManifest(string) (*nodepkg.Manifest, error) {
	return f.manifest, f.err
}
