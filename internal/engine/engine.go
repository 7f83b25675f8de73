// Package engine defines the bundling engine boundary consumed by the build
// pipeline, together with the esbuild-backed implementation. The pipeline only
// ever talks to the Engine interface; everything esbuild-specific stays here.
package engine

import (
	"context"

	"git.home.luguber.info/inful/esbundle/internal/config"
)

// PluginConfig configures the dependency-resolution plugin attached to every
// bundling request.
type PluginConfig struct {
	// ProjectPath is the package root whose manifest decides which bare
	// imports are externalized.
	ProjectPath string

	// InlineDeps bundles the project's npm dependencies instead of leaving
	// them external.
	InlineDeps bool

	// Externals lists module specifiers that are always left unbundled.
	Externals []string

	// Env is exposed to bundled code as process.env.* substitutions.
	Env map[string]string
}

// Request is a fully-resolved dependency-graph description handed to the
// engine. All paths and the output extension are decided by the caller before
// the request is issued.
type Request struct {
	// Entries maps output entry names to source module paths.
	Entries map[string]string

	// OutDir is the output directory root.
	OutDir string

	// OutExt is the single resolved extension (".js" or ".mjs") applied to
	// every entry and chunk file.
	OutExt string

	Format    config.Format
	Sourcemap bool
	Banner    string
	Globals   map[string]string
	Target    string
	Plugin    PluginConfig
}

// Chunk describes one written output file.
type Chunk struct {
	// FileName is the output path relative to the working directory, with
	// forward-slash separators.
	FileName string

	// Imports lists the file names of other chunks this chunk imports.
	Imports []string

	// Modules lists the constituent source module paths, relative to the
	// working directory with forward-slash separators.
	Modules []string

	// EntryPoint is the source entry module for entry chunks, empty for
	// shared chunks.
	EntryPoint string
}

// Result is the set of output chunks produced by a one-shot build. It is
// consumed immediately for reporting and never retained.
type Result struct {
	Chunks []Chunk
}

// EventKind identifies a watcher event.
type EventKind int

const (
	// EventRebuildStart signals that a rebuild cycle has begun.
	EventRebuildStart EventKind = iota
	// EventRebuildEnd signals that a rebuild cycle finished successfully.
	EventRebuildEnd
	// EventError carries a watcher or rebuild failure. The pipeline does
	// not translate these; they surface as-is.
	EventError
)

// Event is one watcher notification. The first event of a watch session is
// the initial build completing.
type Event struct {
	Kind EventKind
	Err  error
}

// Watcher emits rebuild events for a continuous build. It offers only
// "observe next event" semantics; there is no stop operation, the session
// ends with the process.
type Watcher interface {
	Events() <-chan Event
}

// Engine is the bundling engine boundary.
type Engine interface {
	// Bundle performs a one-shot bundle-and-write cycle.
	Bundle(ctx context.Context, req Request) (*Result, error)

	// Watch starts a continuous build session. The initial build is
	// reported as the first event on the returned watcher.
	Watch(ctx context.Context, req Request) (Watcher, error)
}
