package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/esbundle/internal/bundle"
	"git.home.luguber.info/inful/esbundle/internal/config"
	"git.home.luguber.info/inful/esbundle/internal/engine"
	"git.home.luguber.info/inful/esbundle/internal/term"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Inputs []string `arg:"" optional:"" help:"Entry module paths"`

	Entry      map[string]string `help:"Named entry points as name=path (overrides positional inputs)"`
	Out        string            `short:"o" help:"Output directory"`
	Format     string            `short:"f" help:"Output module format (esm|cjs|amd|system|iife|umd)"`
	Watch      bool              `short:"w" help:"Rebuild continuously on source changes"`
	MJS        *bool             `name:"mjs" help:"Force (or with --mjs=false forbid) the .mjs extension"`
	Sourcemap  bool              `help:"Emit source maps"`
	Clean      bool              `help:"Remove the output directory before building"`
	External   []string          `help:"Module specifiers to leave unbundled"`
	Globals    map[string]string `help:"Global variable names for externals as specifier=name"`
	Banner     string            `help:"Text prepended to every output file"`
	ShowGraph  bool              `name:"show-graph" help:"Print the per-chunk import graph after the build"`
	Target     string            `help:"Syntax target (es2015 … esnext)"`
	InlineDeps bool              `name:"inline-deps" help:"Bundle npm dependencies instead of externalizing them"`
	Project    string            `help:"Project root for dependency resolution"`
	EnvFile    string            `name:"env-file" help:"Dotenv file exposed to bundled code"`
	Env        map[string]string `help:"Environment values exposed to bundled code as KEY=value"`
	Quiet      bool              `short:"q" help:"Suppress progress output"`
	NoColor    bool              `name:"no-color" help:"Disable styled output"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	file := b.loadConfigFile(root.Config)

	inputs, err := b.resolveInputs(file)
	if err != nil {
		return err
	}
	opts, err := b.resolveOptions(file)
	if err != nil {
		return err
	}

	reporter := term.NewReporter(os.Stdout)
	if b.NoColor {
		reporter = term.NewPlainReporter(os.Stdout)
	}

	builder := bundle.New(engine.NewEsbuild(), reporter)
	return builder.Build(context.Background(), inputs, opts)
}

// loadConfigFile reads the project configuration when present. A missing file
// is not an error; any other load failure is reported and skipped so a broken
// file never silently changes build semantics.
func (b *BuildCmd) loadConfigFile(path string) *config.File {
	if _, err := os.Stat(path); err != nil {
		return &config.File{}
	}
	file, err := config.LoadFile(path)
	if err != nil {
		slog.Warn("Ignoring unreadable project configuration", "path", path, "error", err)
		return &config.File{}
	}
	slog.Debug("Loaded project configuration", "path", path)
	return file
}

// resolveInputs picks the input specification: explicit named entries first,
// then positional paths, then the configuration file.
func (b *BuildCmd) resolveInputs(file *config.File) (bundle.Inputs, error) {
	switch {
	case len(b.Entry) > 0:
		return bundle.Entries(b.Entry), nil
	case len(b.Inputs) > 0:
		return bundle.Files(b.Inputs...), nil
	case len(file.Entries) > 0:
		return bundle.Entries(file.Entries), nil
	default:
		return bundle.Files(file.Inputs...), nil
	}
}

// resolveOptions merges flag values over configuration file values. Flags win
// wherever they were given; file values fill the rest.
func (b *BuildCmd) resolveOptions(file *config.File) (config.Options, error) {
	opts := config.Options{
		Log:         !b.Quiet,
		ProjectPath: b.Project,
		RemoveDir:   b.Clean || file.RemoveDir,
		Sourcemap:   b.Sourcemap || file.Sourcemap,
		MJS:         b.MJS,
		Out:         b.Out,
		Format:      config.Format(b.Format),
		External:    b.External,
		Globals:     b.Globals,
		Banner:      b.Banner,
		ShowGraph:   b.ShowGraph || file.ShowGraph,
		Watch:       b.Watch,
		Target:      b.Target,
		InlineDeps:  b.InlineDeps || file.InlineDeps,
	}
	if opts.MJS == nil {
		opts.MJS = file.MJS
	}
	if opts.Out == "" {
		opts.Out = file.Out
	}
	if opts.Format == "" {
		opts.Format = config.Format(file.Format)
	}
	if len(opts.External) == 0 {
		opts.External = file.External
	}
	if len(opts.Globals) == 0 {
		opts.Globals = file.Globals
	}
	if opts.Banner == "" {
		opts.Banner = file.Banner
	}
	if opts.Target == "" {
		opts.Target = file.Target
	}

	env := make(map[string]string)
	for key, value := range file.Env {
		env[key] = value
	}
	if b.EnvFile != "" {
		fileEnv, err := config.LoadEnvFile(b.EnvFile)
		if err != nil {
			return config.Options{}, fmt.Errorf("load env file: %w", err)
		}
		for key, value := range fileEnv {
			env[key] = value
		}
	}
	for key, value := range b.Env {
		env[key] = value
	}
	if len(env) > 0 {
		opts.Env = env
	}
	return opts, nil
}
