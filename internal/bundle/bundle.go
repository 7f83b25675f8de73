// Package bundle implements the build-request pipeline: input normalization,
// output-extension resolution, and one-shot or watch-driven execution against
// the bundling engine.
package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/esbundle/internal/config"
	"git.home.luguber.info/inful/esbundle/internal/engine"
	"git.home.luguber.info/inful/esbundle/internal/term"
)

// Inputs is the caller-supplied build input specification: either an ordered
// list of source module paths or an explicit name→path mapping.
type Inputs struct {
	Paths   []string
	Entries map[string]string
}

// Files builds an ordered-list input specification.
func Files(paths ...string) Inputs {
	return Inputs{Paths: paths}
}

// Entries builds a name→path input specification. The caller asserts name
// uniqueness.
func Entries(entries map[string]string) Inputs {
	return Inputs{Entries: entries}
}

// Builder drives the bundling engine for one or more builds.
type Builder struct {
	engine   engine.Engine
	reporter *term.Reporter
	boundary boundaryResolver
	cwd      string
}

// Option customizes a Builder.
type Option func(*Builder)

// WithWorkingDir overrides the working directory used for relative paths and
// boundary lookups. Primarily for tests.
func WithWorkingDir(dir string) Option {
	return func(b *Builder) { b.cwd = dir }
}

// WithBoundaryResolver overrides the package-boundary resolution collaborator.
func WithBoundaryResolver(r boundaryResolver) Option {
	return func(b *Builder) { b.boundary = r }
}

// New returns a Builder using the given engine and reporter.
func New(eng engine.Engine, reporter *term.Reporter, opts ...Option) *Builder {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	b := &Builder{
		engine:   eng,
		reporter: reporter,
		boundary: manifestResolver{},
		cwd:      cwd,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build normalizes the inputs, resolves the output extension, and executes
// the bundling request. In watch mode the call suspends indefinitely; the
// only exit is process termination.
func (b *Builder) Build(ctx context.Context, in Inputs, opts config.Options) error {
	opts = opts.WithDefaults(b.cwd)
	if err := opts.Validate(); err != nil {
		return err
	}

	entries, inferredMJS := normalize(in, opts.Format, opts.MJS != nil)
	if len(entries) == 0 {
		b.reporter.Warnf("No inputs provided to build.")
		return nil
	}

	ext, err := b.resolveExtension(opts, inferredMJS)
	if err != nil {
		return err
	}

	req := engine.Request{
		Entries:   entries,
		OutDir:    opts.Out,
		OutExt:    ext,
		Format:    opts.Format,
		Sourcemap: opts.Sourcemap,
		Banner:    opts.Banner,
		Globals:   opts.Globals,
		Target:    opts.Target,
		Plugin: engine.PluginConfig{
			ProjectPath: opts.ProjectPath,
			InlineDeps:  opts.InlineDeps,
			Externals:   opts.External,
			Env:         opts.Env,
		},
	}

	buildID := uuid.NewString()
	slog.Debug("Build request assembled",
		"build_id", buildID,
		"entries", len(entries),
		"format", opts.Format,
		"extension", ext,
		"watch", opts.Watch)

	if opts.Watch {
		return b.runWatch(ctx, req, opts, buildID)
	}
	return b.runOnce(ctx, req, opts)
}

// runOnce performs a single bundle-and-write cycle. RemoveDir failures are
// fatal and abort the build before the engine is invoked.
func (b *Builder) runOnce(ctx context.Context, req engine.Request, opts config.Options) error {
	if opts.RemoveDir {
		if err := os.RemoveAll(opts.Out); err != nil {
			return fmt.Errorf("remove output directory %s: %w", opts.Out, err)
		}
		if err := os.MkdirAll(opts.Out, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", opts.Out, err)
		}
	}

	result, err := b.engine.Bundle(ctx, req)
	if err != nil {
		return err
	}

	if opts.Log {
		b.reporter.Successf("Built to %s", b.reporter.Bold(opts.Out))
		if opts.ShowGraph {
			b.printGraph(result)
		}
	}
	return nil
}
